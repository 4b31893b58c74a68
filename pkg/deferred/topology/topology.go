// Package topology builds deferred-link graphs from declarative documents.
//
// A topology document names the nodes and the write-once links between them.
// Building happens in two phases: every node is added to a pool with empty
// slots first, then links are wired in a second pass once all endpoints
// exist. That ordering is what lets the documents describe arbitrary cycles
// without forward-declaration ceremony.
package topology

import (
	"errors"
	"fmt"
)

// Sentinel errors for topology validation.
var (
	// ErrNoNodes indicates a document with an empty node list.
	ErrNoNodes = errors.New("topology has no nodes")

	// ErrEmptyNodeID indicates a node spec with no ID.
	ErrEmptyNodeID = errors.New("empty node ID")

	// ErrDuplicateNodeID indicates two node specs share an ID.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownEndpoint indicates a link references a node ID not declared
	// in the document.
	ErrUnknownEndpoint = errors.New("unknown link endpoint")

	// ErrSlotOutOfRange indicates a link slot index that is negative or not
	// below the owning node's declared degree.
	ErrSlotOutOfRange = errors.New("link slot out of range")

	// ErrDuplicateSlot indicates two links claim the same (from, slot) pair.
	// Such a document would always trip the write-once invariant at build
	// time, so it is rejected up front.
	ErrDuplicateSlot = errors.New("duplicate link slot")
)

// Spec is a declarative topology document.
type Spec struct {
	// Name labels the topology in logs, spans, and metrics.
	Name string `yaml:"name" json:"name"`

	// Nodes declares the graph nodes.
	Nodes []NodeSpec `yaml:"nodes" json:"nodes"`

	// Links declares the write-once links between nodes.
	Links []LinkSpec `yaml:"links" json:"links"`
}

// NodeSpec declares one node.
type NodeSpec struct {
	// ID uniquely identifies the node within the document.
	ID string `yaml:"id" json:"id"`

	// Degree is the number of link slots on the node. When zero or omitted,
	// the degree is inferred as one past the highest slot index used by the
	// document's links for this node.
	Degree int `yaml:"degree,omitempty" json:"degree,omitempty"`
}

// LinkSpec declares one link: From's slot-th link points at To.
type LinkSpec struct {
	From string `yaml:"from" json:"from"`
	Slot int    `yaml:"slot" json:"slot"`
	To   string `yaml:"to" json:"to"`
}

// Validate checks the document's internal consistency. It reports the first
// problem found, wrapped with enough context to locate it in the document.
func (s Spec) Validate() error {
	if len(s.Nodes) == 0 {
		return ErrNoNodes
	}

	declared := make(map[string]int, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.ID == "" {
			return ErrEmptyNodeID
		}
		if _, exists := declared[n.ID]; exists {
			return fmt.Errorf("node %q: %w", n.ID, ErrDuplicateNodeID)
		}
		declared[n.ID] = n.Degree
	}

	claimed := make(map[string]map[int]bool, len(s.Nodes))
	for _, l := range s.Links {
		degree, ok := declared[l.From]
		if !ok {
			return fmt.Errorf("link from %q: %w", l.From, ErrUnknownEndpoint)
		}
		if _, ok := declared[l.To]; !ok {
			return fmt.Errorf("link to %q: %w", l.To, ErrUnknownEndpoint)
		}
		if l.Slot < 0 || (degree > 0 && l.Slot >= degree) {
			return fmt.Errorf("link %s[%d]: %w", l.From, l.Slot, ErrSlotOutOfRange)
		}
		if claimed[l.From] == nil {
			claimed[l.From] = make(map[int]bool)
		}
		if claimed[l.From][l.Slot] {
			return fmt.Errorf("link %s[%d]: %w", l.From, l.Slot, ErrDuplicateSlot)
		}
		claimed[l.From][l.Slot] = true
	}

	return nil
}

// degrees returns the effective degree per node ID, inferring omitted
// degrees from the document's links. Assumes the spec validates.
func (s Spec) degrees() map[string]int {
	degrees := make(map[string]int, len(s.Nodes))
	for _, n := range s.Nodes {
		degrees[n.ID] = n.Degree
	}
	for _, l := range s.Links {
		if degrees[l.From] <= l.Slot {
			degrees[l.From] = l.Slot + 1
		}
	}
	return degrees
}
