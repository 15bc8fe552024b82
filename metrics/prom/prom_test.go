package prom

import (
	"strings"
	"testing"

	"github.com/IvanBrykalov/keepalive/keepalive"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAdapter_Counters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := New(reg, "keepalive", "test", nil)

	a.Hit()
	a.Hit()
	a.Miss()
	a.Bypass()
	a.Evict(keepalive.EvictCapacity)
	a.Evict(keepalive.EvictPrune)
	a.Evict(keepalive.EvictPrune)
	a.Size(7)

	if got := testutil.ToFloat64(a.hits); got != 2 {
		t.Fatalf("hits: want 2, got %v", got)
	}
	if got := testutil.ToFloat64(a.misses); got != 1 {
		t.Fatalf("misses: want 1, got %v", got)
	}
	if got := testutil.ToFloat64(a.bypass); got != 1 {
		t.Fatalf("uncacheable: want 1, got %v", got)
	}
	if got := testutil.ToFloat64(a.evicts.WithLabelValues("prune")); got != 2 {
		t.Fatalf("prune evictions: want 2, got %v", got)
	}
	if got := testutil.ToFloat64(a.entries); got != 7 {
		t.Fatalf("entries: want 7, got %v", got)
	}

	expected := `
# HELP keepalive_test_evictions_total Entries removed from the cache by reason
# TYPE keepalive_test_evictions_total counter
keepalive_test_evictions_total{reason="capacity"} 1
keepalive_test_evictions_total{reason="prune"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "keepalive_test_evictions_total"); err != nil {
		t.Fatal(err)
	}
}
