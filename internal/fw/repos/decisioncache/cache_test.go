package decisioncache

import (
	"testing"

	"github.com/haukened/rr-fw/internal/fw/domain"
)

func TestCache_HitMissAndPut(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if _, ok := c.Get("10.0.0.1|22"); ok {
		t.Fatalf("expected miss before put")
	}
	c.Put("10.0.0.1|22", domain.Allow)

	got, ok := c.Get("10.0.0.1|22")
	if !ok || got != domain.Allow {
		t.Fatalf("unexpected get: ok=%v got=%q", ok, got)
	}

	hits, misses, _ := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats hits=%d misses=%d, want 1/1", hits, misses)
	}
}

func TestCache_EvictionAndLen(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	c.Put("a|1", domain.Block)
	c.Put("b|2", domain.Block)
	if got := c.Len(); got != 2 {
		t.Fatalf("len=%d want=2", got)
	}
	c.Put("c|3", domain.Allow)
	if got := c.Len(); got != 2 {
		t.Fatalf("len=%d want=2 after eviction", got)
	}
	if _, ok := c.Get("a|1"); ok {
		t.Errorf("oldest entry should have been evicted")
	}
	if _, _, ev := c.Stats(); ev != 1 {
		t.Errorf("evictions=%d want=1", ev)
	}
}

func TestCache_PurgeCountsEvictions(t *testing.T) {
	c, err := New(3)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	c.Put("a|1", domain.Block)
	c.Put("b|2", domain.Block)
	c.Put("c|3", domain.Block)

	c.Purge()
	if got := c.Len(); got != 0 {
		t.Fatalf("len=%d want=0 after purge", got)
	}
	if _, _, ev := c.Stats(); ev != 3 {
		t.Errorf("evictions=%d want=3", ev)
	}
}

func TestCache_Disabled(t *testing.T) {
	for _, size := range []int{0, -5} {
		c, err := New(size)
		if err != nil {
			t.Fatalf("New(%d) error: %v", size, err)
		}
		c.Put("x|1", domain.Allow)
		if _, ok := c.Get("x|1"); ok {
			t.Fatalf("expected miss in disabled cache")
		}
		if got := c.Len(); got != 0 {
			t.Fatalf("len=%d want=0 for disabled", got)
		}
		c.Purge()
		if h, m, e := c.Stats(); h+m+e != 0 {
			t.Errorf("disabled cache should report zero stats")
		}
	}
}
