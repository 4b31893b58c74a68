package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for pool operations.
var (
	// ErrNodeNotFound indicates an operation referenced a node ID the pool
	// does not own.
	ErrNodeNotFound = errors.New("node not found")

	// ErrDuplicateNode indicates AddNamed was called with an ID already
	// present in the pool.
	ErrDuplicateNode = errors.New("duplicate node ID")

	// ErrLinkIndex indicates a link slot index outside the node's degree.
	ErrLinkIndex = errors.New("link index out of range")
)

// LinkError wraps an error from wiring one link with its endpoints.
type LinkError struct {
	// From is the node owning the slot being wired.
	From string
	// Slot is the link slot index on the From node.
	Slot int
	// To is the intended target node.
	To string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *LinkError) Error() string {
	return fmt.Sprintf("link %s[%d] -> %s: %v", e.From, e.Slot, e.To, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *LinkError) Unwrap() error {
	return e.Err
}
