// Package ledger implements the recency ledger: an ordered set of keys,
// oldest first, with O(1) membership, touch, removal and head lookup.
//
// A Ledger is not safe for concurrent use; its owner serializes access.
package ledger

import (
	"github.com/IvanBrykalov/keepalive/policy"
	"github.com/IvanBrykalov/keepalive/policy/lru"
)

// node is an intrusive doubly linked list element owned by a Ledger.
type node[K comparable] struct {
	key K

	// Intrusive list links: head is oldest, tail is most recent.
	prev *node[K]
	next *node[K]
}

// Key returns the node key (part of policy.Node interface).
func (n *node[K]) Key() K { return n.key }

// Ledger keeps keys in recency order. Sequence position is the only source
// of truth for ordering; no timestamps are involved.
type Ledger[K comparable] struct {
	idx  map[K]*node[K]
	head *node[K] // oldest
	tail *node[K] // most recent
	len  int

	ord policy.Ordering[K]
}

// New constructs an empty ledger ordered by p. A nil policy means LRU.
func New[K comparable](p policy.Policy[K]) *Ledger[K] {
	if p == nil {
		p = lru.New[K]()
	}
	l := &Ledger[K]{idx: make(map[K]*node[K])}
	l.ord = p.New(hooks[K]{l: l})
	return l
}

// Insert appends k as the most recent key. It returns false and leaves the
// ledger untouched if k is already present.
func (l *Ledger[K]) Insert(k K) bool {
	if _, ok := l.idx[k]; ok {
		return false
	}
	n := &node[K]{key: k}
	l.idx[k] = n
	l.ord.OnAdd(n)
	return true
}

// Touch marks k as most recently used. Absent keys are ignored.
func (l *Ledger[K]) Touch(k K) {
	if n, ok := l.idx[k]; ok {
		l.ord.OnTouch(n)
	}
}

// Remove drops k from anywhere in the sequence. It reports whether k was present.
func (l *Ledger[K]) Remove(k K) bool {
	n, ok := l.idx[k]
	if !ok {
		return false
	}
	l.ord.OnRemove(n)
	l.unlink(n)
	delete(l.idx, k)
	return true
}

// Oldest returns the eviction candidate without mutating the ledger.
func (l *Ledger[K]) Oldest() (K, bool) {
	if l.head == nil {
		var zero K
		return zero, false
	}
	return l.head.key, true
}

// Newest returns the most recently inserted or touched key.
func (l *Ledger[K]) Newest() (K, bool) {
	if l.tail == nil {
		var zero K
		return zero, false
	}
	return l.tail.key, true
}

// Contains reports whether k is in the ledger.
func (l *Ledger[K]) Contains(k K) bool {
	_, ok := l.idx[k]
	return ok
}

// Len returns the number of keys.
func (l *Ledger[K]) Len() int { return l.len }

// Keys returns a snapshot of the keys, oldest first.
func (l *Ledger[K]) Keys() []K {
	out := make([]K, 0, l.len)
	for n := l.head; n != nil; n = n.next {
		out = append(out, n.key)
	}
	return out
}

// Reset drops every key.
func (l *Ledger[K]) Reset() {
	for n := l.head; n != nil; {
		next := n.next
		n.prev, n.next = nil, nil
		n = next
	}
	l.idx = make(map[K]*node[K])
	l.head, l.tail = nil, nil
	l.len = 0
}

// -------------------- list internals --------------------

// pushBack links n at the tail in O(1).
func (l *Ledger[K]) pushBack(n *node[K]) {
	n.next = nil
	n.prev = l.tail
	if l.tail != nil {
		l.tail.next = n
	}
	l.tail = n
	if l.head == nil {
		l.head = n
	}
	l.len++
}

// moveToBack promotes n to the tail in O(1).
func (l *Ledger[K]) moveToBack(n *node[K]) {
	if n == l.tail {
		return
	}
	// detach
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if l.head == n {
		l.head = n.next
	}
	// append
	n.next = nil
	n.prev = l.tail
	if l.tail != nil {
		l.tail.next = n
	}
	l.tail = n
	if l.head == nil {
		l.head = n
	}
}

// unlink removes n from the list and updates the length in O(1).
// Calling it on a node that is not linked is a no-op.
func (l *Ledger[K]) unlink(n *node[K]) {
	if n.prev == nil && n.next == nil && l.head != n {
		return
	}
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if l.head == n {
		l.head = n.next
	}
	if l.tail == n {
		l.tail = n.prev
	}
	n.prev, n.next = nil, nil
	l.len--
}

// -------------------- policy hooks --------------------

// hooks adapts the ledger's list operations to policy.Hooks.
type hooks[K comparable] struct{ l *Ledger[K] }

func (h hooks[K]) MoveToBack(x policy.Node[K]) { h.l.moveToBack(x.(*node[K])) }
func (h hooks[K]) PushBack(x policy.Node[K])   { h.l.pushBack(x.(*node[K])) }
func (h hooks[K]) Remove(x policy.Node[K])     { h.l.unlink(x.(*node[K])) }
func (h hooks[K]) Front() policy.Node[K] {
	// Avoid returning a typed nil inside the interface.
	if h.l.head == nil {
		return nil
	}
	return h.l.head
}
func (h hooks[K]) Len() int { return h.l.len }
