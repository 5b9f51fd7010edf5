package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/haukened/rr-fw/internal/fw/common/log"
	"github.com/haukened/rr-fw/internal/fw/config"
	"github.com/haukened/rr-fw/internal/fw/domain"
	"github.com/haukened/rr-fw/internal/fw/repos/decisioncache"
	"github.com/haukened/rr-fw/internal/fw/repos/prefilter"
	"github.com/haukened/rr-fw/internal/fw/services/firewall"
)

const (
	version = "0.1.0-dev"
	appName = "rr-fwd"
)

// Application holds the firewall and the checks to evaluate against it.
type Application struct {
	config   *config.AppConfig
	firewall *firewall.Firewall
	checks   []domain.Endpoint
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Configure(cfg.Env, cfg.Log.Level); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":   version,
		"env":       cfg.Env,
		"log_level": cfg.Log.Level,
		"rules":     len(cfg.Rules),
		"checks":    len(cfg.Checks),
	}, "Starting "+appName)

	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Stdout); err != nil {
		log.Fatal(map[string]any{"error": err}, "Run failed")
	}
}

// buildApplication constructs the firewall from config and loads its rules.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	logger := log.GetLogger()

	cache, err := decisioncache.New(cfg.Cache.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to create decision cache: %w", err)
	}

	opts := firewall.Options{
		Cache:    cache,
		Capacity: cfg.Prefilter.Capacity,
		FPRate:   cfg.Prefilter.FPRate,
		Logger:   logger,
	}
	if !cfg.Prefilter.Disable {
		opts.Prefilter = prefilter.NewFactory()
	}
	fw := firewall.New(opts)

	rules, err := domain.ParseRules(cfg.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	for _, r := range rules {
		if err := fw.AddRule(r); err != nil {
			return nil, fmt.Errorf("failed to add rule %s: %w", r, err)
		}
	}

	checks := make([]domain.Endpoint, 0, len(cfg.Checks))
	for _, c := range cfg.Checks {
		ep, err := domain.ParseEndpoint(c)
		if err != nil {
			return nil, fmt.Errorf("failed to parse check: %w", err)
		}
		checks = append(checks, ep)
	}

	log.Info(map[string]any{
		"rules":         len(rules),
		"cache_size":    cfg.Cache.Size,
		"prefilter":     !cfg.Prefilter.Disable,
		"prefilter_cap": cfg.Prefilter.Capacity,
		"prefilter_fpr": cfg.Prefilter.FPRate,
	}, "Firewall configured")

	return &Application{
		config:   cfg,
		firewall: fw,
		checks:   checks,
	}, nil
}

// Run decides every configured check and writes one line per check to w.
// It stops early if ctx is cancelled.
func (app *Application) Run(ctx context.Context, w io.Writer) error {
	for _, c := range app.checks {
		if err := ctx.Err(); err != nil {
			return err
		}
		d := app.firewall.Decide(c.Address, c.Port)
		log.Debug(map[string]any{"endpoint": c.String(), "decision": d.String()}, "Check decided")
		if _, err := fmt.Fprintf(w, "%s -> %s\n", c, d); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}

	s := app.firewall.Stats()
	log.Info(map[string]any{
		"checks":       len(app.checks),
		"rules":        s.Rules,
		"cache_hits":   s.CacheHits,
		"cache_misses": s.CacheMisses,
	}, "Checks complete")
	return nil
}
