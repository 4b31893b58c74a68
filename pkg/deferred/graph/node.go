// Package graph provides a shared-ownership node pool: the external owning
// structure that deferred slots assume keeps link targets alive.
//
// A Pool owns its nodes through strong reference handles; node-to-node links
// are deferred slots holding weak references, so ownership stays acyclic by
// construction while the link structure may be arbitrarily cyclic. Releasing
// a node from its pool is the deterministic "owner let go" event that makes
// links pointing at it go dead.
package graph

import (
	"github.com/randalmurphal/deferred/pkg/deferred"
)

// Node is a pool-owned graph node: a value plus a fixed number of deferred
// link slots. Nodes are created through Pool.Add/AddNamed; the pool holds
// the owning reference and hands out borrowed *Node pointers.
type Node[T any] struct {
	// ID uniquely identifies the node within its pool.
	ID string

	// Value is the caller's payload.
	Value T

	links []*deferred.Slot[Node[T]]
}

// newNode allocates a node with the given number of empty link slots.
func newNode[T any](id string, value T, degree int) Node[T] {
	n := Node[T]{
		ID:    id,
		Value: value,
		links: make([]*deferred.Slot[Node[T]], degree),
	}
	for i := range n.links {
		n.links[i] = deferred.New[Node[T]]()
	}
	return n
}

// Degree returns the number of link slots on the node.
func (n *Node[T]) Degree() int {
	return len(n.links)
}

// Link returns the i-th link slot.
//
// Panics if i is outside [0, Degree()); use Pool.Link for checked wiring.
func (n *Node[T]) Link(i int) *deferred.Slot[Node[T]] {
	if i < 0 || i >= len(n.links) {
		panic("graph: link index out of range")
	}
	return n.links[i]
}

// Setter returns a write-only view over the i-th link slot, for handing to
// wiring code that should not read the node's links.
//
// Panics if i is outside [0, Degree()).
func (n *Node[T]) Setter(i int) deferred.Setter[Node[T]] {
	return deferred.NewSetter(n.Link(i))
}
