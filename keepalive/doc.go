// Package keepalive provides a bounded least-recently-used cache of
// expensive stateful instances that are kept alive across render cycles
// instead of being rebuilt, with include/exclude filters and activate /
// deactivate / destroy lifecycle signals.
//
// Design
//
//   - Cycle: the host calls Render once per cycle with the descriptor of the
//     child it wants on screen (or nil). The cache derives the logical name,
//     applies the filters, derives the key, and either reuses the stored
//     instance (Hit), builds and stores a new one via Options.Factory (Miss),
//     or builds a throwaway one (Uncacheable).
//
//   - Storage: a map[string]*entry for lookups and a recency ledger (package
//     ledger) ordered oldest→newest. Both are updated together under one
//     mutex, so the key sets never diverge.
//
//   - Capacity: Options.Max bounds the entry count. A miss inserts first and
//     then evicts exactly one oldest entry if the bound is exceeded.
//
//   - Filters: Options.Include / Options.Exclude (package filter). Changing a
//     filter at runtime through SetInclude / SetExclude prunes entries whose
//     names no longer qualify.
//
//   - Current-entry exemption: eviction and pruning always remove the entry
//     from the cache, but skip the destroy signal when the entry's constructor
//     and tag equal those of the request being rendered; that instance is
//     still on screen.
//
//   - Lifecycle: Options.Notifier receives OnActivate on every hit and
//     OnDeactivateAndDestroy exactly once per released instance. Notifiers
//     implementing Deactivator also get OnDeactivate when the cycle switches
//     away from a cached instance. TreeNotifier (default) forwards to the
//     instance's Activate / Deactivate / Destroy methods and walks its
//     Dependents.
//
//   - Errors: factory errors are wrapped; notifier errors reach the caller
//     unchanged, after the cache's own bookkeeping is done.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Bypass/Evict/Size signals.
//     By default NoopMetrics is used; see metrics/prom and metrics/otel.
//
// Basic usage
//
//	c := keepalive.New[*Widget](keepalive.Options[*Widget]{
//	    Max:     10,
//	    Include: filter.Delimited("Inbox,Settings"),
//	    Factory: func(ctx context.Context, d *keepalive.Descriptor) (*Widget, error) {
//	        return NewWidget(d.Data), nil
//	    },
//	})
//	defer c.Close()
//
//	res, err := c.Render(ctx, &keepalive.Descriptor{
//	    Component: inbox, // *keepalive.Component{ID: 1, Name: "Inbox"}
//	    Tag:       "inbox",
//	})
//	if res.Reused {
//	    // skip re-initialisation
//	}
//
// Changing filters at runtime
//
//	_ = c.SetExclude(ctx, filter.Literals("Settings"), current)
//
// Thread-safety & complexity
//
// All methods are safe for concurrent use; mutating calls are serialized
// and run to completion. Factory and Notifier run under the cache lock and
// must not call back into the same cache. Hit, miss and eviction are O(1).
package keepalive
