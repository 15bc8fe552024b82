package keepalive

import (
	"context"

	"github.com/IvanBrykalov/keepalive/filter"
)

// Cache keeps up to Max stateful instances alive across render cycles.
// All methods are safe for concurrent use; mutating operations are
// serialized and each runs to completion before the next begins.
//
// Render, Prune and SetMax cost O(1) amortized per touched entry:
// a map lookup plus constant-time list adjustments under one lock.
type Cache[V any] interface {
	// Render runs one cycle for d (nil = nothing to render): filter check,
	// hit or miss handling, capacity enforcement and lifecycle signals.
	Render(ctx context.Context, d *Descriptor) (Result[V], error)

	// Prune removes every named entry whose name fails keep. Entries whose
	// constructor and tag match current are removed but not destroyed.
	Prune(ctx context.Context, keep func(name string) bool, current *Descriptor) error

	// SetInclude replaces the include filter and prunes entries it rejects.
	// An absent pattern admits every name and prunes nothing.
	SetInclude(ctx context.Context, p filter.Pattern, current *Descriptor) error

	// SetExclude replaces the exclude filter and prunes entries it matches.
	// An absent pattern rejects no name and prunes nothing.
	SetExclude(ctx context.Context, p filter.Pattern, current *Descriptor) error

	// SetMax changes the capacity bound, evicting oldest entries if needed.
	// Non-positive n removes the bound.
	SetMax(ctx context.Context, n int, current *Descriptor) error

	// Len returns the number of kept-alive instances.
	Len() int

	// Keys returns the cached keys, least recently used first.
	Keys() []string

	// Stats returns counters without taking the cache lock.
	Stats() Stats

	// Close destroys every remaining instance exactly once and marks the
	// cache closed. Further Render calls return ErrClosed.
	Close() error
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Bypasses  uint64
	Evictions uint64
	Entries   int
}
