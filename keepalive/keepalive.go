package keepalive

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/IvanBrykalov/keepalive/filter"
	"github.com/IvanBrykalov/keepalive/internal/util"
)

// keepAlive is the cache controller. One mutex guards the store, the
// filters, the bound and the active marker.
type keepAlive[V any] struct {
	// ---- guarded by mu ----
	mu      sync.Mutex
	st      *store[V]
	include filter.Pattern
	exclude filter.Pattern
	max     int
	active  string // key rendered by the last cycle, "" if none
	closed  bool

	opt Options[V]
	log *slog.Logger

	// ---- hot counters (separate cache lines, read lock-free by Stats) ----
	_        util.CacheLinePad
	hits     util.PaddedAtomicUint64
	misses   util.PaddedAtomicUint64
	bypasses util.PaddedAtomicUint64
	evicts   util.PaddedAtomicUint64
	entries  util.PaddedAtomicInt64
}

// New constructs a cache with the provided Options.
// Defaults:
//   - nil Metrics  -> NoopMetrics
//   - nil Notifier -> TreeNotifier
//   - nil Keyer    -> DefaultKeyer
//   - nil Logger   -> discard
func New[V any](opt Options[V]) Cache[V] {
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Notifier == nil {
		opt.Notifier = NewTreeNotifier()
	}
	if opt.Keyer == nil {
		opt.Keyer = DefaultKeyer{}
	}
	if opt.Logger == nil {
		opt.Logger = slog.New(slog.DiscardHandler)
	}
	if opt.Max < 0 {
		opt.Max = 0
	}

	return &keepAlive[V]{
		st:      newStore[V](opt.Policy),
		include: opt.Include,
		exclude: opt.Exclude,
		max:     opt.Max,
		opt:     opt,
		log:     opt.Logger.With(slog.String("component", "keepalive")),
	}
}

// ---- Cache[V] implementation ----

// Render runs one request cycle. Ordering within the cycle: name and filter
// check, key derivation, store/ledger mutation, eviction, then signals to
// the previously rendered entry and the current one.
func (c *keepAlive[V]) Render(ctx context.Context, d *Descriptor) (Result[V], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Result[V]{}, ErrClosed
	}

	if d == nil {
		return Result[V]{State: NoRequest}, c.switchActiveLocked(ctx, "")
	}

	name := d.Name()
	if !filter.Cacheable(name, c.include, c.exclude) {
		return c.renderUncacheableLocked(ctx, d, name)
	}

	key := c.opt.Keyer.Key(d)
	if e, ok := c.st.get(key); ok {
		return c.renderHitLocked(ctx, e)
	}
	return c.renderMissLocked(ctx, d, key, name)
}

func (c *keepAlive[V]) renderUncacheableLocked(ctx context.Context, d *Descriptor, name string) (Result[V], error) {
	c.bypasses.Add(1)
	c.opt.Metrics.Bypass()
	c.log.DebugContext(ctx, "uncacheable", slog.String("name", name))

	res := Result[V]{Name: name, State: Uncacheable}
	var errs []error
	if err := c.switchActiveLocked(ctx, ""); err != nil {
		errs = append(errs, err)
	}
	inst, err := c.instantiate(ctx, d)
	if err != nil {
		errs = append(errs, err)
	} else {
		res.Instance = inst
	}
	return res, joinErrs(errs)
}

func (c *keepAlive[V]) renderHitLocked(ctx context.Context, e *entry[V]) (Result[V], error) {
	c.st.touch(e.key)
	c.hits.Add(1)
	c.opt.Metrics.Hit()
	c.log.DebugContext(ctx, "hit", slog.String("key", e.key), slog.String("name", e.name))

	res := Result[V]{
		Instance:  e.inst,
		Key:       e.key,
		Name:      e.name,
		State:     Hit,
		Reused:    true,
		KeepAlive: true,
	}

	var errs []error
	if err := c.switchActiveLocked(ctx, e.key); err != nil {
		errs = append(errs, err)
	}
	if err := c.opt.Notifier.OnActivate(ctx, e.inst); err != nil {
		c.log.WarnContext(ctx, "activate failed", slog.String("key", e.key), slog.Any("error", err))
		errs = append(errs, err)
	}
	return res, joinErrs(errs)
}

func (c *keepAlive[V]) renderMissLocked(ctx context.Context, d *Descriptor, key, name string) (Result[V], error) {
	inst, err := c.instantiate(ctx, d)
	if err != nil {
		// Nothing was stored; the cache is unchanged.
		return Result[V]{Key: key, Name: name, State: Miss}, err
	}

	c.st.insert(&entry[V]{key: key, inst: inst, name: name, shape: shapeOf(d)})
	c.misses.Add(1)
	c.opt.Metrics.Miss()
	c.log.DebugContext(ctx, "miss", slog.String("key", key), slog.String("name", name))

	res := Result[V]{
		Instance:  inst,
		Key:       key,
		Name:      name,
		State:     Miss,
		KeepAlive: true,
	}

	var errs []error
	// Only one entry was added, so one eviction restores the bound.
	if c.max > 0 && c.st.len() > c.max {
		if old, ok := c.st.oldest(); ok {
			if err := c.evictLocked(ctx, old, d, EvictCapacity); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if err := c.switchActiveLocked(ctx, key); err != nil {
		errs = append(errs, err)
	}
	c.sizeLocked()
	return res, joinErrs(errs)
}

// Prune removes every named entry whose name fails keep.
func (c *keepAlive[V]) Prune(ctx context.Context, keep func(name string) bool, current *Descriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pruneLocked(ctx, keep, current)
}

// SetInclude stores p and prunes entries it no longer includes.
// An absent pattern admits every name, so nothing is pruned.
func (c *keepAlive[V]) SetInclude(ctx context.Context, p filter.Pattern, current *Descriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.include = p
	if !p.Present() {
		return nil
	}
	return c.pruneLocked(ctx, func(name string) bool { return filter.Matches(p, name) }, current)
}

// SetExclude stores p and prunes entries it matches.
func (c *keepAlive[V]) SetExclude(ctx context.Context, p filter.Pattern, current *Descriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.exclude = p
	if !p.Present() {
		return nil
	}
	return c.pruneLocked(ctx, func(name string) bool { return !filter.Matches(p, name) }, current)
}

// SetMax changes the bound and evicts oldest entries until it holds.
func (c *keepAlive[V]) SetMax(ctx context.Context, n int, current *Descriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n < 0 {
		n = 0
	}
	c.max = n
	if n == 0 {
		return nil
	}

	var errs []error
	for c.st.len() > n {
		old, ok := c.st.oldest()
		if !ok {
			break
		}
		if err := c.evictLocked(ctx, old, current, EvictCapacity); err != nil {
			errs = append(errs, err)
		}
	}
	c.sizeLocked()
	return joinErrs(errs)
}

// Len returns the number of resident entries.
func (c *keepAlive[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.len()
}

// Keys returns the resident keys, oldest first.
func (c *keepAlive[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.keys()
}

// Stats reads the padded counters without locking.
func (c *keepAlive[V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Bypasses:  c.bypasses.Load(),
		Evictions: c.evicts.Load(),
		Entries:   int(c.entries.Load()),
	}
}

// Close destroys every entry, oldest first. There is no exemption for the
// entry on screen: teardown releases everything. Close is idempotent.
func (c *keepAlive[V]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.active = ""

	ctx := context.Background()
	var errs []error
	for _, e := range c.st.drain() {
		if err := c.releaseLocked(ctx, e, EvictTeardown, true); err != nil {
			errs = append(errs, err)
		}
	}
	c.sizeLocked()
	return joinErrs(errs)
}

// ---- helpers (mu held) ----

// instantiate calls the Factory.
func (c *keepAlive[V]) instantiate(ctx context.Context, d *Descriptor) (V, error) {
	if c.opt.Factory == nil {
		var zero V
		return zero, ErrNoFactory
	}
	inst, err := c.opt.Factory(ctx, d)
	if err != nil {
		var zero V
		return zero, fmt.Errorf("keepalive: factory %q: %w", d.Name(), err)
	}
	return inst, nil
}

func (c *keepAlive[V]) pruneLocked(ctx context.Context, keep func(name string) bool, current *Descriptor) error {
	if keep == nil {
		return nil
	}
	var errs []error
	// Scan a snapshot: evictLocked mutates the store.
	for _, k := range c.st.keys() {
		e, ok := c.st.get(k)
		if !ok || e.name == "" || keep(e.name) {
			continue
		}
		if err := c.evictLocked(ctx, e, current, EvictPrune); err != nil {
			errs = append(errs, err)
		}
	}
	c.sizeLocked()
	return joinErrs(errs)
}

// evictLocked removes e from the store and ledger, then destroys its
// instance unless e has the same shape (constructor and tag) as current,
// the request being rendered. Bookkeeping is complete before any signal is sent.
func (c *keepAlive[V]) evictLocked(ctx context.Context, e *entry[V], current *Descriptor, reason EvictReason) error {
	if _, ok := c.st.remove(e.key); !ok {
		return nil
	}
	if c.active == e.key {
		c.active = ""
	}
	destroy := current == nil || e.shape != shapeOf(current)
	return c.releaseLocked(ctx, e, reason, destroy)
}

// releaseLocked reports a detached entry and, if destroy is set, sends the
// destroy signal. Each entry reaches here at most once because it has
// already left the store.
func (c *keepAlive[V]) releaseLocked(ctx context.Context, e *entry[V], reason EvictReason, destroy bool) error {
	c.evicts.Add(1)
	c.opt.Metrics.Evict(reason)
	if cb := c.opt.OnEvict; cb != nil {
		cb(e.key, e.inst, reason)
	}
	c.log.DebugContext(ctx, "evict",
		slog.String("key", e.key),
		slog.String("name", e.name),
		slog.String("reason", reason.String()),
		slog.Bool("destroyed", destroy),
	)
	if !destroy {
		return nil
	}
	if err := c.opt.Notifier.OnDeactivateAndDestroy(ctx, e.inst); err != nil {
		c.log.WarnContext(ctx, "destroy failed", slog.String("key", e.key), slog.Any("error", err))
		return err
	}
	return nil
}

// switchActiveLocked records key as the rendered entry. If a different
// cached entry was on screen and is still resident, it gets a deactivate
// signal when the Notifier supports it.
func (c *keepAlive[V]) switchActiveLocked(ctx context.Context, key string) error {
	prev := c.active
	c.active = key
	if prev == "" || prev == key {
		return nil
	}
	e, ok := c.st.get(prev)
	if !ok {
		return nil
	}
	d, ok := c.opt.Notifier.(Deactivator)
	if !ok {
		return nil
	}
	if err := d.OnDeactivate(ctx, e.inst); err != nil {
		c.log.WarnContext(ctx, "deactivate failed", slog.String("key", prev), slog.Any("error", err))
		return err
	}
	return nil
}

// sizeLocked publishes the entry count.
func (c *keepAlive[V]) sizeLocked() {
	n := c.st.len()
	c.entries.Store(int64(n))
	c.opt.Metrics.Size(n)
}
