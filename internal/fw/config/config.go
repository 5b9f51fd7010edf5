package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/haukened/rr-fw/internal/fw/domain"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	Log LoggingConfig `koanf:"log"`

	// Rules are host:port allow rules, e.g. "192.168.1.10:443" or "[::1]:22".
	Rules []string `koanf:"rules" validate:"dive,rule_spec"`

	// Checks are host:port endpoints the demo decides on at startup.
	Checks []string `koanf:"checks" validate:"dive,endpoint"`

	Cache     CacheConfig     `koanf:"cache"`
	Prefilter PrefilterConfig `koanf:"prefilter"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn" or "error".
	Level string `koanf:"level" validate:"required,oneof=debug info warn error"`
}

// CacheConfig sizes the decision cache. Size 0 disables it.
type CacheConfig struct {
	Size int `koanf:"size" validate:"gte=0"`
}

// PrefilterConfig sizes the Bloom prefilter.
type PrefilterConfig struct {
	Disable  bool    `koanf:"disable"`
	Capacity uint64  `koanf:"capacity" validate:"gte=1"`
	FPRate   float64 `koanf:"fp_rate" validate:"gt=0,lt=1"`
}

// DEFAULT_APP_CONFIG is used for any value not set in the environment. The
// default rules and checks make the demo print a useful result with no setup;
// set FW_RULES / FW_CHECKS (an empty value clears them) to replace them.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:   "prod",
	Log:   LoggingConfig{Level: "info"},
	Rules: []string{"192.168.1.10:443", "10.0.0.1:22"},
	Checks: []string{
		"10.0.0.5:8080",
		"192.168.1.10:443",
		"192.168.1.10:80",
		"10.0.0.1:22",
		"10.0.0.2:22",
	},
	Cache: CacheConfig{Size: 1000},
	Prefilter: PrefilterConfig{
		Capacity: 1024,
		FPRate:   0.01,
	},
}

const envPrefix = "FW_"

// envKeys maps FW_* suffixes to koanf paths. Unknown variables are ignored.
var envKeys = map[string]string{
	"env":                "env",
	"log_level":          "log.level",
	"rules":              "rules",
	"checks":             "checks",
	"cache_size":         "cache.size",
	"prefilter_disable":  "prefilter.disable",
	"prefilter_capacity": "prefilter.capacity",
	"prefilter_fp_rate":  "prefilter.fp_rate",
}

// listKeys are split on spaces and commas.
var listKeys = map[string]bool{
	"rules":  true,
	"checks": true,
}

// dotenvFiles are loaded into the process environment before env vars are
// read. Variables already set take precedence. Missing files are skipped.
var dotenvFiles = []string{".env"}

// dotenvLoader can be replaced in tests.
var dotenvLoader = func(files []string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

func transformEnv(key, value string) (string, any) {
	name := strings.ToLower(strings.TrimPrefix(key, envPrefix))
	path, ok := envKeys[name]
	if !ok {
		return "", nil
	}
	value = strings.TrimSpace(value)
	if listKeys[path] {
		return path, strings.FieldsFunc(value, func(r rune) bool {
			return r == ' ' || r == ','
		})
	}
	return path, value
}

// envLoader loads FW_* variables and can be mocked in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix:        envPrefix,
		TransformFunc: transformEnv,
	}), nil)
}

var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

func validRuleSpec(fl validator.FieldLevel) bool {
	_, err := domain.ParseRule(fl.Field().String())
	return err == nil
}

func validEndpoint(fl validator.FieldLevel) bool {
	_, err := domain.ParseEndpoint(fl.Field().String())
	return err == nil
}

var registerValidation = func(v *validator.Validate) error {
	if err := v.RegisterValidation("rule_spec", validRuleSpec); err != nil {
		return err
	}
	return v.RegisterValidation("endpoint", validEndpoint)
}

// Load reads defaults, an optional .env file and FW_* environment
// variables, then validates the result.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := dotenvLoader(dotenvFiles); err != nil {
		return nil, fmt.Errorf("error loading dotenv: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
