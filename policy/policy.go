// Package policy defines the contract between the recency ledger and the
// ordering policy that decides where keys go on admission and on use.
package policy

// Node is the minimal contract a ledger element must satisfy for a policy.
type Node[K comparable] interface {
	Key() K
}

// Hooks expose O(1) list operations that a policy can use to manipulate
// the ledger's intrusive oldest→newest list. Implementations are provided
// by the ledger.
//
// Important: hooks manage only the list; the ledger owns the key->node index.
type Hooks[K comparable] interface {
	// MoveToBack promotes the node to most-recent (tail).
	MoveToBack(Node[K])
	// PushBack appends the node at the tail (used on admission).
	PushBack(Node[K])
	// Remove detaches the node from the list (index bookkeeping is done by the ledger).
	Remove(Node[K])
	// Front returns the current oldest node (or nil if empty).
	Front() Node[K]
	// Len returns the number of linked nodes.
	Len() int
}

// Ordering is a ledger-local policy instance bound to ledger hooks.
//
// Semantics:
//   - OnAdd places a newly admitted node. Policies never pick victims:
//     eviction is driven by the owner of the ledger through Front.
//   - OnTouch typically promotes the node (e.g., move to tail).
//   - OnRemove is a notification to update policy-internal state.
//     The ledger performs the actual unlinking.
type Ordering[K comparable] interface {
	OnAdd(Node[K])
	OnTouch(Node[K])
	OnRemove(Node[K])
}

// Policy is a factory that creates ledger-local Ordering instances.
type Policy[K comparable] interface {
	New(Hooks[K]) Ordering[K]
}
