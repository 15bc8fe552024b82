package keepalive

import (
	"context"
	"log/slog"

	"github.com/IvanBrykalov/keepalive/filter"
	"github.com/IvanBrykalov/keepalive/policy"
)

// EvictReason explains why an entry left the cache.
type EvictReason int

const (
	// EvictCapacity: removed because a miss pushed the ledger past Max.
	EvictCapacity EvictReason = iota
	// EvictPrune: removed because its name no longer satisfies the filters.
	EvictPrune
	// EvictTeardown: removed by Close.
	EvictTeardown
)

func (r EvictReason) String() string {
	switch r {
	case EvictPrune:
		return "prune"
	case EvictTeardown:
		return "teardown"
	default:
		return "capacity"
	}
}

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	// Bypass counts cycles whose name was rejected by the filters.
	Bypass()
	Evict(reason EvictReason)
	Size(entries int)
}

// Factory builds a fresh instance for d. It is the host's instantiation
// collaborator; the cache calls it on a miss and on every uncacheable cycle.
type Factory[V any] func(ctx context.Context, d *Descriptor) (V, error)

// Options configures a cache. Zero values are safe; defaults applied in New():
//   - Max <= 0       => unbounded
//   - nil Keyer      => DefaultKeyer
//   - nil Notifier   => TreeNotifier
//   - nil Metrics    => NoopMetrics
//   - nil Logger     => discard
//   - nil Policy     => LRU
type Options[V any] struct {
	// Include and Exclude are the initial filters; see filter.Cacheable.
	Include filter.Pattern
	Exclude filter.Pattern

	// Max bounds the number of kept-alive instances. Non-positive = unbounded.
	Max int

	// Factory constructs instances on a miss or for uncacheable names.
	Factory Factory[V]

	// Notifier delivers activate / deactivate / destroy signals.
	Notifier Notifier

	// Keyer overrides key derivation.
	Keyer Keyer

	// Policy orders the recency ledger; nil => LRU.
	Policy policy.Policy[string]

	// Observability
	// OnEvict is called for every removal, under the cache lock, before
	// the destroy signal is sent. Keep callbacks lightweight.
	OnEvict func(key string, inst V, reason EvictReason)
	Metrics Metrics
	Logger  *slog.Logger
}
