package keepalive

// Component is the constructor identity of a requested child.
type Component struct {
	// ID is unique per registered constructor.
	ID uint64
	// Name is the declared component name; may be empty.
	Name string
}

// Descriptor is what the host hands to Render once per cycle.
// It must not be mutated while a cycle is running.
type Descriptor struct {
	// Key is an explicit caller-controlled identity. Empty means "not set".
	Key string
	// Component identifies the constructor. May be nil for anonymous children.
	Component *Component
	// Tag is the registration tag. Together with Component.ID it forms the
	// "owning request shape" that exempts the on-screen entry from destruction.
	Tag string
	// Data is opaque to the cache and passed through to the Factory.
	Data any
}

// Name returns the logical name used by include/exclude filters:
// the component name, falling back to the tag.
func (d *Descriptor) Name() string {
	if d == nil {
		return ""
	}
	if d.Component != nil && d.Component.Name != "" {
		return d.Component.Name
	}
	return d.Tag
}

// State is the outcome of one Render cycle.
type State uint8

const (
	// NoRequest: the host had nothing to render this cycle.
	NoRequest State = iota
	// Uncacheable: the filters rejected the name; a fresh instance was built.
	Uncacheable
	// Hit: an existing instance was reused.
	Hit
	// Miss: a new instance was built and stored.
	Miss
)

func (s State) String() string {
	switch s {
	case Uncacheable:
		return "uncacheable"
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	default:
		return "no-request"
	}
}

// Result is the decision the host applies during reconciliation.
type Result[V any] struct {
	Instance V
	Key      string
	Name     string
	State    State

	// Reused is true when Instance was taken from the cache (skip re-init).
	Reused bool
	// KeepAlive marks Instance as owned by the cache: the host must
	// deactivate rather than destroy it when it leaves the screen.
	KeepAlive bool
}
