package firewall

import "github.com/haukened/rr-fw/internal/fw/domain"

// DecisionCache caches decisions by endpoint key. Implementations must be
// safe for concurrent use; Get and Put are called under a shared read lock.
type DecisionCache interface {
	Get(key string) (domain.Decision, bool)
	Put(key string, d domain.Decision)
	Len() int
	Purge()
	Stats() (hits, misses, evictions uint64)
}

// Prefilter answers "definitely not allowed" cheaply. It may report false
// positives but never false negatives.
type Prefilter interface {
	Add(key []byte)
	MightContain(key []byte) bool
}

// PrefilterFactory sizes a fresh Prefilter for capacity keys at fpRate.
type PrefilterFactory interface {
	New(capacity uint64, fpRate float64) Prefilter
}

// Decider is anything that can make an allow/block decision.
// Both *domain.RuleSet and *Firewall satisfy it.
type Decider interface {
	Decide(address string, port int) domain.Decision
}

var (
	_ Decider = (*domain.RuleSet)(nil)
	_ Decider = (*Firewall)(nil)
)
