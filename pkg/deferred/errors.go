package deferred

import (
	"errors"
	"fmt"
)

// Sentinel errors for slot operations.
var (
	// ErrDuplicateInitialization indicates TrySet was called on a slot that
	// already holds a reference. The slot is left unchanged.
	ErrDuplicateInitialization = errors.New("slot already initialized")

	// ErrNotInitialized indicates a read on a slot that was never set.
	ErrNotInitialized = errors.New("slot not initialized")

	// ErrTargetReleased indicates the slot is set but every owning handle to
	// the target has been released. It wraps ErrNotInitialized, so
	// errors.Is(err, ErrNotInitialized) matches both conditions while the
	// precise one stays distinguishable.
	ErrTargetReleased = fmt.Errorf("%w: target released", ErrNotInitialized)
)
