package keepalive

import (
	"context"
	"errors"
	"reflect"
	"sync"
)

// Notifier delivers lifecycle signals to held instances. The cache calls it
// under its lock: implementations must not call back into the same cache.
type Notifier interface {
	// OnActivate is sent when a cached instance is reused.
	OnActivate(ctx context.Context, inst any) error
	// OnDeactivateAndDestroy is sent exactly once when the cache releases
	// an instance it owned.
	OnDeactivateAndDestroy(ctx context.Context, inst any) error
}

// Deactivator is an optional Notifier extension. When implemented, the
// cache sends OnDeactivate to the previously rendered cached instance when
// a cycle switches away from it without destroying it.
type Deactivator interface {
	OnDeactivate(ctx context.Context, inst any) error
}

// Instance-side hooks understood by TreeNotifier. All are optional.
type (
	Activatable   interface{ Activate() error }
	Deactivatable interface{ Deactivate() error }
	Destroyable   interface{ Destroy() error }
	// Parent exposes the instances whose lifecycle follows this one.
	Parent interface{ Dependents() []any }
)

// NoopNotifier ignores every signal.
type NoopNotifier struct{}

func (NoopNotifier) OnActivate(context.Context, any) error             { return nil }
func (NoopNotifier) OnDeactivate(context.Context, any) error           { return nil }
func (NoopNotifier) OnDeactivateAndDestroy(context.Context, any) error { return nil }

// TreeNotifier walks an instance and its transitive dependents, calling the
// instance-side hooks. Dependents are signalled before their parent. Pointer
// instances remember their state so a repeated activate or deactivate is a
// no-op; other instances are signalled every time.
//
// The zero value is ready to use and safe for concurrent use.
type TreeNotifier struct {
	mu       sync.Mutex
	inactive map[any]bool
}

// NewTreeNotifier returns an empty TreeNotifier.
func NewTreeNotifier() *TreeNotifier { return &TreeNotifier{} }

// OnActivate activates inst and its dependents.
func (n *TreeNotifier) OnActivate(_ context.Context, inst any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	var errs []error
	n.walk(inst, false, &errs, map[any]struct{}{})
	return errors.Join(errs...)
}

// OnDeactivate deactivates inst and its dependents.
func (n *TreeNotifier) OnDeactivate(_ context.Context, inst any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	var errs []error
	n.walk(inst, true, &errs, map[any]struct{}{})
	return errors.Join(errs...)
}

// OnDeactivateAndDestroy deactivates the tree, destroys inst, and forgets
// the state of the whole tree. Destroy runs even if a deactivate hook failed.
func (n *TreeNotifier) OnDeactivateAndDestroy(_ context.Context, inst any) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	var errs []error
	seen := map[any]struct{}{}
	n.walk(inst, true, &errs, seen)
	if d, ok := inst.(Destroyable); ok {
		if err := d.Destroy(); err != nil {
			errs = append(errs, err)
		}
	}
	for x := range seen {
		delete(n.inactive, x)
	}
	return errors.Join(errs...)
}

// walk signals dependents first, then x. seen guards against cycles among
// pointer instances.
func (n *TreeNotifier) walk(x any, deactivate bool, errs *[]error, seen map[any]struct{}) {
	if x == nil {
		return
	}
	tracked := trackable(x)
	if tracked {
		if _, ok := seen[x]; ok {
			return
		}
		seen[x] = struct{}{}
		if n.inactive == nil {
			n.inactive = make(map[any]bool)
		}
		inactive, known := n.inactive[x]
		if known && inactive == deactivate {
			return
		}
		n.inactive[x] = deactivate
	}

	if p, ok := x.(Parent); ok {
		for _, d := range p.Dependents() {
			n.walk(d, deactivate, errs, seen)
		}
	}

	var err error
	if deactivate {
		if d, ok := x.(Deactivatable); ok {
			err = d.Deactivate()
		}
	} else if a, ok := x.(Activatable); ok {
		err = a.Activate()
	}
	if err != nil {
		*errs = append(*errs, err)
	}
}

// trackable reports whether x can be remembered by identity.
func trackable(x any) bool {
	t := reflect.TypeOf(x)
	return t != nil && t.Kind() == reflect.Pointer
}

var (
	_ Notifier    = (*TreeNotifier)(nil)
	_ Deactivator = (*TreeNotifier)(nil)
	_ Notifier    = NoopNotifier{}
	_ Deactivator = NoopNotifier{}
)
