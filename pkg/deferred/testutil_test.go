package deferred

import (
	"github.com/randalmurphal/deferred/pkg/deferred/ref"
)

// testNode is the graph node shape used across package tests: a value plus a
// fixed set of deferred neighbor links.
type testNode struct {
	value     string
	neighbors []*Slot[testNode]
}

// newTestNode allocates an owned node with the given number of empty slots.
func newTestNode(value string, degree int) *ref.Strong[testNode] {
	n := testNode{value: value}
	for range degree {
		n.neighbors = append(n.neighbors, New[testNode]())
	}
	return ref.New(n)
}

// link wires owner.neighbors[i] to target through a setter view.
func link(owner *ref.Strong[testNode], i int, target *ref.Strong[testNode]) error {
	return NewSetter(owner.Value().neighbors[i]).TrySet(target.Weak())
}

// compassRose builds the cyclic test graph used by the acceptance tests:
//
//	       North
//	    /    |     \
//	East - Center - West
//	    \    |     /
//	       South
//
// Returns the owners in order: Center, North, East, South, West.
func compassRose() []*ref.Strong[testNode] {
	center := newTestNode("Center", 4)
	north := newTestNode("North", 3)
	east := newTestNode("East", 3)
	south := newTestNode("South", 3)
	west := newTestNode("West", 3)

	wires := []struct {
		owner  *ref.Strong[testNode]
		i      int
		target *ref.Strong[testNode]
	}{
		{center, 0, north}, {center, 1, west}, {center, 2, south}, {center, 3, east},
		{north, 0, west}, {north, 1, center}, {north, 2, east},
		{west, 0, north}, {west, 1, south}, {west, 2, center},
		{south, 0, center}, {south, 1, west}, {south, 2, east},
		{east, 0, north}, {east, 1, center}, {east, 2, south},
	}
	for _, w := range wires {
		if err := link(w.owner, w.i, w.target); err != nil {
			panic(err)
		}
	}

	return []*ref.Strong[testNode]{center, north, east, south, west}
}
