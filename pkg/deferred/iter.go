package deferred

import (
	"iter"

	"github.com/randalmurphal/deferred/pkg/deferred/ref"
)

// Slots returns a re-iterable sequence over the given slots, in order.
// Convenience source for Live and Resolved.
func Slots[T any](slots ...*Slot[T]) iter.Seq[*Slot[T]] {
	return func(yield func(*Slot[T]) bool) {
		for _, s := range slots {
			if !yield(s) {
				return
			}
		}
	}
}

// Live adapts a sequence of slots into a lazy sequence of upgraded strong
// handles, preserving source order. Slots that are Empty or whose target has
// been released are skipped rather than failing the traversal; use Resolved
// when per-item failures matter.
//
// Elements are upgraded on demand, and the result is as restartable as the
// source sequence: a re-iterable source yields a re-iterable result, with
// liveness re-checked on every pass.
//
// Each yielded handle is owned by the consumer and must be released.
func Live[T any](slots iter.Seq[*Slot[T]]) iter.Seq[*ref.Strong[T]] {
	return func(yield func(*ref.Strong[T]) bool) {
		for s := range slots {
			strong, err := s.Get()
			if err != nil {
				continue
			}
			if !yield(strong) {
				return
			}
		}
	}
}

// Resolved adapts a sequence of slots into a lazy sequence of per-slot
// upgrade results, preserving source order. Each pair is either a strong
// handle and nil, or nil and the error Slot.Get would return
// (ErrNotInitialized or ErrTargetReleased).
//
// Each yielded non-nil handle is owned by the consumer and must be released.
func Resolved[T any](slots iter.Seq[*Slot[T]]) iter.Seq2[*ref.Strong[T], error] {
	return func(yield func(*ref.Strong[T], error) bool) {
		for s := range slots {
			if !yield(s.Get()) {
				return
			}
		}
	}
}

// CollectLive eagerly upgrades a slice of slots, skipping empty and dead
// entries, and returns the live strong handles in original relative order.
// Each returned handle must be released by the caller.
func CollectLive[T any](slots []*Slot[T]) []*ref.Strong[T] {
	live := make([]*ref.Strong[T], 0, len(slots))
	for strong := range Live(Slots(slots...)) {
		live = append(live, strong)
	}
	return live
}
