package decisioncache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/haukened/rr-fw/internal/fw/domain"
	"github.com/haukened/rr-fw/internal/fw/services/firewall"
)

// cache is an LRU-backed firewall.DecisionCache with hit/miss/eviction counters.
type cache struct {
	lru       *lru.Cache[string, domain.Decision]
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// disabled always misses. Used when size <= 0.
type disabled struct{}

// New returns a DecisionCache holding up to size decisions, or a disabled
// cache when size <= 0.
func New(size int) (firewall.DecisionCache, error) {
	if size <= 0 {
		return disabled{}, nil
	}
	c := &cache{}
	l, err := lru.NewWithEvict(size, func(string, domain.Decision) {
		c.evictions.Add(1)
	})
	if err != nil {
		return nil, err
	}
	c.lru = l
	return c, nil
}

func (c *cache) Get(key string) (domain.Decision, bool) {
	if d, ok := c.lru.Get(key); ok {
		c.hits.Add(1)
		return d, true
	}
	c.misses.Add(1)
	return "", false
}

func (c *cache) Put(key string, d domain.Decision) { c.lru.Add(key, d) }

func (c *cache) Len() int { return c.lru.Len() }

// Purge drops every entry; each counts as an eviction.
func (c *cache) Purge() { c.lru.Purge() }

func (c *cache) Stats() (hits, misses, evictions uint64) {
	return c.hits.Load(), c.misses.Load(), c.evictions.Load()
}

func (disabled) Get(string) (domain.Decision, bool) { return "", false }
func (disabled) Put(string, domain.Decision)        {}
func (disabled) Len() int                           { return 0 }
func (disabled) Purge()                             {}
func (disabled) Stats() (uint64, uint64, uint64)    { return 0, 0, 0 }

var (
	_ firewall.DecisionCache = (*cache)(nil)
	_ firewall.DecisionCache = disabled{}
)
