package firewall

import (
	"strconv"
	"sync"

	"github.com/haukened/rr-fw/internal/fw/common/log"
	"github.com/haukened/rr-fw/internal/fw/domain"
)

const (
	// DefaultCapacity is the prefilter capacity used when Options.Capacity is zero.
	DefaultCapacity = 1024
	// DefaultFPRate is the prefilter false-positive target used when Options.FPRate is unset.
	DefaultFPRate = 0.01
)

// Options configures a Firewall. Nil Cache or Prefilter disables that stage.
type Options struct {
	Cache     DecisionCache
	Prefilter PrefilterFactory
	Capacity  uint64
	FPRate    float64
	Logger    log.Logger
}

// Stats is a point-in-time snapshot of firewall counters.
type Stats struct {
	Rules          int
	CacheSize      int
	CacheHits      uint64
	CacheMisses    uint64
	CacheEvictions uint64
}

// Firewall wraps a domain.RuleSet for concurrent use and fronts it with an
// optional prefilter → cache pipeline. Decisions are always identical to
// calling Decide on the underlying RuleSet directly.
type Firewall struct {
	mu       sync.RWMutex
	rules    *domain.RuleSet
	cache    DecisionCache
	factory  PrefilterFactory
	filter   Prefilter
	capacity uint64
	fpRate   float64
	logger   log.Logger
}

// New constructs an empty Firewall.
func New(opts Options) *Firewall {
	if opts.Capacity == 0 {
		opts.Capacity = DefaultCapacity
	}
	if !(opts.FPRate > 0 && opts.FPRate < 1) {
		opts.FPRate = DefaultFPRate
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	f := &Firewall{
		rules:    domain.NewRuleSet(),
		cache:    opts.Cache,
		factory:  opts.Prefilter,
		capacity: opts.Capacity,
		fpRate:   opts.FPRate,
		logger:   opts.Logger,
	}
	if f.factory != nil {
		f.filter = f.factory.New(f.capacity, f.fpRate)
	}
	return f
}

// Add builds a rule from address and port and appends it.
func (f *Firewall) Add(address string, port int) error {
	r, err := domain.NewRule(address, port)
	if err != nil {
		return err
	}
	return f.AddRule(r)
}

// AddRule appends a rule, refreshes the prefilter and purges the cache.
func (f *Firewall) AddRule(rule domain.Rule) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.rules.AddRule(rule); err != nil {
		return err
	}

	if f.factory != nil {
		if uint64(f.rules.Len()) > f.capacity {
			f.rebuildFilter()
		} else {
			f.filter.Add(endpointKey(rule.Endpoint()))
		}
	}

	// a cached BLOCK may now be an ALLOW
	if f.cache != nil {
		f.cache.Purge()
	}

	f.logger.Debug(map[string]any{
		"rule":  rule.String(),
		"rules": f.rules.Len(),
	}, "firewall rule added")
	return nil
}

// rebuildFilter doubles capacity and reloads every rule. Caller holds mu.
func (f *Firewall) rebuildFilter() {
	for uint64(f.rules.Len()) > f.capacity {
		f.capacity *= 2
	}
	bf := f.factory.New(f.capacity, f.fpRate)
	for _, r := range f.rules.Rules() {
		bf.Add(endpointKey(r.Endpoint()))
	}
	f.filter = bf
	f.logger.Debug(map[string]any{"capacity": f.capacity}, "prefilter rebuilt")
}

// Decide returns Allow if any rule matches address and port, otherwise Block.
func (f *Firewall) Decide(address string, port int) domain.Decision {
	f.mu.RLock()
	defer f.mu.RUnlock()

	ep := domain.Endpoint{Address: address, Port: port}
	key := endpointKey(ep)
	if f.filter != nil && !f.filter.MightContain(key) {
		return domain.Block
	}

	if f.cache == nil {
		return f.decide(ep)
	}

	k := string(key)
	if d, ok := f.cache.Get(k); ok {
		return d
	}
	d := f.decide(ep)
	f.cache.Put(k, d)
	return d
}

// decide consults the rule set and logs the rule that allowed ep.
func (f *Firewall) decide(ep domain.Endpoint) domain.Decision {
	r, ok := f.rules.Match(ep.Address, ep.Port)
	if !ok {
		return domain.Block
	}
	f.logger.Debug(map[string]any{
		"endpoint": ep.String(),
		"rule":     r.String(),
	}, "firewall rule matched")
	return domain.Allow
}

// Rules returns the rules in insertion order.
func (f *Firewall) Rules() []domain.Rule {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.rules.Rules()
}

// Stats returns current counters.
func (f *Firewall) Stats() Stats {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s := Stats{Rules: f.rules.Len()}
	if f.cache != nil {
		s.CacheSize = f.cache.Len()
		s.CacheHits, s.CacheMisses, s.CacheEvictions = f.cache.Stats()
	}
	return s
}

// endpointKey builds the cache and prefilter key. A pipe separator keeps
// IPv6 colons unambiguous.
func endpointKey(ep domain.Endpoint) []byte {
	b := make([]byte, 0, len(ep.Address)+7)
	b = append(b, ep.Address...)
	b = append(b, '|')
	return strconv.AppendInt(b, int64(ep.Port), 10)
}
