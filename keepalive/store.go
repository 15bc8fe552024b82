package keepalive

import (
	"github.com/IvanBrykalov/keepalive/ledger"
	"github.com/IvanBrykalov/keepalive/policy"
)

// entry owns one held instance plus what is needed to re-derive its
// logical name and its owning request shape.
type entry[V any] struct {
	key   string
	inst  V
	name  string // logical name at insertion
	shape string // owning request shape, see shapeOf
}

// store pairs the key->entry map with the recency ledger. Both sides are
// always updated together; the keepAlive mutex guards every call.
//
// Invariant: set(ledger) == keys(m).
type store[V any] struct {
	m   map[string]*entry[V]
	led *ledger.Ledger[string]
}

func newStore[V any](p policy.Policy[string]) *store[V] {
	return &store[V]{
		m:   make(map[string]*entry[V]),
		led: ledger.New[string](p),
	}
}

// get returns the entry for key without touching recency.
func (s *store[V]) get(key string) (*entry[V], bool) {
	e, ok := s.m[key]
	return e, ok
}

// touch marks key as most recently used.
func (s *store[V]) touch(key string) { s.led.Touch(key) }

// insert stores e as the most recent entry. Returns false if the key exists.
func (s *store[V]) insert(e *entry[V]) bool {
	if _, ok := s.m[e.key]; ok {
		return false
	}
	s.m[e.key] = e
	s.led.Insert(e.key)
	return true
}

// remove drops key from both sides and returns the detached entry.
func (s *store[V]) remove(key string) (*entry[V], bool) {
	e, ok := s.m[key]
	if !ok {
		return nil, false
	}
	delete(s.m, key)
	s.led.Remove(key)
	return e, true
}

// oldest returns the eviction candidate.
func (s *store[V]) oldest() (*entry[V], bool) {
	k, ok := s.led.Oldest()
	if !ok {
		return nil, false
	}
	return s.m[k], true
}

// keys returns the keys oldest first.
func (s *store[V]) keys() []string { return s.led.Keys() }

func (s *store[V]) len() int { return s.led.Len() }

// drain detaches every entry, oldest first, and leaves the store empty.
func (s *store[V]) drain() []*entry[V] {
	out := make([]*entry[V], 0, s.led.Len())
	for _, k := range s.led.Keys() {
		out = append(out, s.m[k])
	}
	s.m = make(map[string]*entry[V])
	s.led.Reset()
	return out
}
