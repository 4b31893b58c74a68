package deferred

import "github.com/randalmurphal/deferred/pkg/deferred/ref"

// Setter is a capability-narrowed view over a Slot that exposes only the
// one-time write operation. Pass a Setter into construction or wiring code
// that should be able to install a link exactly once, without granting read
// access to the slot or the ability to construct an unrelated one.
//
// A Setter holds no state beyond the slot reference and is discarded after
// use. It must not outlive the slot it targets.
type Setter[T any] struct {
	slot *Slot[T]
}

// NewSetter returns a write-only view over the given slot.
//
// Panics if slot is nil.
func NewSetter[T any](slot *Slot[T]) Setter[T] {
	if slot == nil {
		panic("deferred: setter over nil slot")
	}
	return Setter[T]{slot: slot}
}

// TrySet installs the given weak reference into the underlying slot. It has
// the exact success and failure behavior of Slot.TrySet.
func (s Setter[T]) TrySet(target ref.Weak[T]) error {
	return s.slot.TrySet(target)
}

// CanSet reports whether the underlying slot is still Empty. A true result
// may be stale by the time TrySet is called if another setter wins the race;
// TrySet remains the authoritative check.
func (s Setter[T]) CanSet() bool {
	return !s.slot.IsReady()
}
