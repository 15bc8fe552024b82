// Package lru implements the least-recently-used ordering policy.
package lru

import "github.com/IvanBrykalov/keepalive/policy"

// lru is a classic "move-to-tail" Least-Recently-Used policy.
// It delegates list manipulation to policy.Hooks provided by the ledger.
type lru[K comparable] struct {
	h policy.Hooks[K]
}

type lruPolicy[K comparable] struct{}

// New returns a Policy factory that constructs LRU orderings.
func New[K comparable]() policy.Policy[K] { return lruPolicy[K]{} }

// New implements policy.Policy by binding ledger hooks.
func (lruPolicy[K]) New(h policy.Hooks[K]) policy.Ordering[K] {
	return &lru[K]{h: h}
}

// OnAdd appends the new key at the tail. The ledger owner enforces
// capacity against the head.
func (p *lru[K]) OnAdd(n policy.Node[K]) { p.h.PushBack(n) }

// OnTouch promotes the key to most-recent.
func (p *lru[K]) OnTouch(n policy.Node[K]) { p.h.MoveToBack(n) }

// OnRemove is a no-op for pure LRU.
func (p *lru[K]) OnRemove(_ policy.Node[K]) {}
