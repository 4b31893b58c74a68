// Package ref provides explicit strong/weak reference handles for graph nodes.
//
// Go's garbage collector keeps memory alive but gives no deterministic signal
// that an owner has let go of a target. This package models ownership
// explicitly: a Strong handle keeps its target alive, a Weak handle does not.
// A target stays alive as long as at least one Strong handle to it has not
// been released; once the last one is released, every Weak handle to it goes
// permanently dead.
//
// Handles obtained from New, Clone, or Upgrade must be released with Release
// when no longer needed. Release is not idempotent: releasing the same handle
// twice is a programming error and panics.
package ref

import "sync"

// control is the bookkeeping block shared by every Strong and Weak handle
// pointing at the same target. All transitions happen under mu so that
// concurrent releases and upgrades cannot race past each other.
type control[T any] struct {
	mu     sync.Mutex
	value  *T
	strong int
}

// Strong is an owning handle to a T. The target stays alive for the union of
// all Strong handle lifetimes. A Strong handle is single-owner: share the
// target by calling Clone, not by copying the handle.
type Strong[T any] struct {
	mu       sync.Mutex
	ctl      *control[T]
	released bool
}

// New allocates a target and returns its first owning handle.
func New[T any](value T) *Strong[T] {
	return &Strong[T]{
		ctl: &control[T]{value: &value, strong: 1},
	}
}

// Value returns a pointer to the target. The pointer stays valid for as long
// as this handle is not released.
//
// Panics if called on a released handle.
func (s *Strong[T]) Value() *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		panic("ref: use of released Strong handle")
	}
	// Safe without the control lock: the target is only cleared when the
	// strong count reaches zero, which cannot happen while this handle
	// is unreleased.
	return s.ctl.value
}

// Clone returns an additional owning handle to the same target.
//
// Panics if called on a released handle.
func (s *Strong[T]) Clone() *Strong[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		panic("ref: use of released Strong handle")
	}

	s.ctl.mu.Lock()
	s.ctl.strong++
	s.ctl.mu.Unlock()

	return &Strong[T]{ctl: s.ctl}
}

// Release drops this handle's ownership. When the last owning handle is
// released the target is cleared and all Weak handles to it go dead.
//
// Panics if the handle was already released.
func (s *Strong[T]) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		panic("ref: double release of Strong handle")
	}
	s.released = true

	s.ctl.mu.Lock()
	s.ctl.strong--
	if s.ctl.strong == 0 {
		s.ctl.value = nil
	}
	s.ctl.mu.Unlock()
}

// Weak returns a non-owning handle to the same target. The weak handle never
// extends the target's lifetime.
//
// Panics if called on a released handle.
func (s *Strong[T]) Weak() Weak[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		panic("ref: use of released Strong handle")
	}
	return Weak[T]{ctl: s.ctl}
}

// Weak is a non-owning handle to a T. It can be copied freely and is safe for
// concurrent use. The zero value is a dead reference whose Upgrade always
// fails.
type Weak[T any] struct {
	ctl *control[T]
}

// Upgrade attempts to convert the weak handle into a temporary owning handle.
// It reports false if the target's last owning handle has been released, or
// if the weak handle is the zero value. Liveness is checked at call time,
// never cached.
//
// On success the returned Strong handle must be released by the caller.
func (w Weak[T]) Upgrade() (*Strong[T], bool) {
	if w.ctl == nil {
		return nil, false
	}

	w.ctl.mu.Lock()
	defer w.ctl.mu.Unlock()
	if w.ctl.strong == 0 || w.ctl.value == nil {
		return nil, false
	}
	w.ctl.strong++
	return &Strong[T]{ctl: w.ctl}, true
}

// Alive reports whether the target currently has at least one owning handle.
// The answer may be stale by the time the caller acts on it; use Upgrade to
// hold the target alive while working with it.
func (w Weak[T]) Alive() bool {
	if w.ctl == nil {
		return false
	}
	w.ctl.mu.Lock()
	defer w.ctl.mu.Unlock()
	return w.ctl.strong > 0
}
