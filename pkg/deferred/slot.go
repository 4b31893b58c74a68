package deferred

import (
	"sync"

	"github.com/randalmurphal/deferred/pkg/deferred/ref"
)

// Slot is a write-once cell holding a non-owning reference to a T.
//
// A Slot has exactly two states: Empty (initial) and Set (terminal). TrySet
// is the only mutating operation and succeeds at most once over the slot's
// lifetime; after that the stored reference can never be replaced, cleared,
// or reset. The reference is weak, so the slot never keeps its target alive.
//
// Slots are typically embedded as fields inside a larger node struct and
// share that node's lifetime. The referenced target's lifetime is
// independent and tracked only through the weak handle.
//
// The zero value is a usable empty slot. A Slot must not be copied after
// first use.
type Slot[T any] struct {
	mu     sync.Mutex
	target ref.Weak[T]
	set    bool
}

// New returns a new empty slot. Equivalent to &Slot[T]{}; provided for call
// sites that build slot collections.
func New[T any]() *Slot[T] {
	return &Slot[T]{}
}

// TrySet transitions the slot from Empty to Set, storing the given weak
// reference. If the slot is already Set, the slot is left unchanged and
// ErrDuplicateInitialization is returned.
//
// The check-then-transition sequence is guarded, so under concurrent callers
// exactly one TrySet succeeds.
func (s *Slot[T]) TrySet(target ref.Weak[T]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.set {
		return ErrDuplicateInitialization
	}
	s.target = target
	s.set = true
	return nil
}

// IsReady reports whether the slot is Set. It inspects slot state only and
// does not verify that the target is still alive.
func (s *Slot[T]) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set
}

// GetWeak returns the stored weak reference, or ErrNotInitialized if the
// slot is Empty. No upgrade is attempted; the caller decides upgrade policy,
// e.g. to treat a dead target as "not yet relevant" rather than an error.
func (s *Slot[T]) GetWeak() (ref.Weak[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.set {
		return ref.Weak[T]{}, ErrNotInitialized
	}
	return s.target, nil
}

// Get upgrades the stored reference to a temporary owning handle. It returns
// ErrNotInitialized if the slot is Empty, and ErrTargetReleased if the slot
// is Set but the target's owners have released it. Liveness is checked at
// call time, never cached.
//
// On success the returned handle must be released by the caller.
func (s *Slot[T]) Get() (*ref.Strong[T], error) {
	w, err := s.GetWeak()
	if err != nil {
		return nil, err
	}

	strong, ok := w.Upgrade()
	if !ok {
		return nil, ErrTargetReleased
	}
	return strong, nil
}

// MustGet is like Get but panics on failure. It is intended for call sites
// where program logic already guarantees the slot is set and the target is
// alive (e.g. an invariant maintained by construction order); reaching the
// panic is a precondition violation, not a normal error path.
//
// On success the returned handle must be released by the caller.
func (s *Slot[T]) MustGet() *ref.Strong[T] {
	strong, err := s.Get()
	if err != nil {
		panic("deferred: " + err.Error())
	}
	return strong
}
