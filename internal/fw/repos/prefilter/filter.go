package prefilter

import (
	bitsbloom "github.com/bits-and-blooms/bloom/v3"
	"github.com/haukened/rr-fw/internal/fw/services/firewall"
)

// factory implements firewall.PrefilterFactory with Bloom filters.
type factory struct{}

// NewFactory returns a PrefilterFactory backed by bits-and-blooms.
func NewFactory() firewall.PrefilterFactory { return factory{} }

// New builds a Bloom filter sized for capacity keys at fpRate.
func (factory) New(capacity uint64, fpRate float64) firewall.Prefilter {
	m, k := size(capacity, fpRate)
	return &filter{bf: bitsbloom.New(uint(m), k)}
}

// filter adapts a BloomFilter. It does no locking of its own; the firewall
// never calls Add concurrently with MightContain.
type filter struct {
	bf *bitsbloom.BloomFilter
}

func (f *filter) Add(key []byte) { f.bf.Add(key) }

func (f *filter) MightContain(key []byte) bool { return f.bf.Test(key) }

var _ firewall.PrefilterFactory = factory{}
