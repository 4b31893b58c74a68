/*
Package deferred provides write-once slots for non-owning links between graph
nodes that are constructed independently but must reference each other after
creation: cyclic trees, doubly-linked structures, circular buffers, observer
back-references.

# Overview

A node cannot hold a non-owning reference to a sibling at construction time
because the sibling does not exist yet. Once the sibling exists, the reference
must be installed exactly once and never overwritten. Slot captures exactly
that contract:

  - A Slot starts Empty and transitions to Set at most once (TrySet).
  - The stored reference is weak: it never keeps the target alive.
  - Readers upgrade the weak reference on demand and get an explicit error
    if the slot was never set or the target's owners released it.

Ownership itself lives outside this package: an owning structure (see the
graph subpackage's Pool, or any holder of ref.Strong handles) keeps targets
alive, and slots carry only the back and cross edges.

# Basic Usage

Construct nodes with empty slots first, then wire links in a second pass once
every endpoint exists:

	type Node struct {
	    Value    string
	    Neighbor deferred.Slot[Node]
	}

	a := ref.New(Node{Value: "A"})
	b := ref.New(Node{Value: "B"})

	// Wire the cycle through write-only setter views.
	if err := deferred.NewSetter(&a.Value().Neighbor).TrySet(b.Weak()); err != nil {
	    log.Fatal(err)
	}
	if err := deferred.NewSetter(&b.Value().Neighbor).TrySet(a.Weak()); err != nil {
	    log.Fatal(err)
	}

	neighbor, err := a.Value().Neighbor.Get()
	if err != nil {
	    log.Fatal(err)
	}
	defer neighbor.Release()
	fmt.Println(neighbor.Value().Value) // "B"

# Error Handling

Fallible operations return sentinel errors:

  - TrySet on an already-set slot returns ErrDuplicateInitialization. This is
    a wiring logic error and is never resolved automatically.
  - Get and GetWeak on an empty slot return ErrNotInitialized.
  - Get on a set slot whose target has been released returns
    ErrTargetReleased, which wraps ErrNotInitialized so callers that only
    care about "unavailable" can match the umbrella with errors.Is.

MustGet panics instead of returning an error. It exists for call sites where
construction order makes emptiness provably impossible; reaching the panic is
a contract violation, not a recoverable condition.

# Bulk Traversal

The Live adapter turns a sequence of slots into a lazy sequence of upgraded
strong handles, skipping empty and dead entries, for traversal code that
wants "all currently-linked live neighbors" without per-item error handling.
Resolved is the strict variant that yields a result per slot.

# Thread Safety

  - Slot guards its check-then-set transition, so concurrent TrySet calls
    admit exactly one winner.
  - ref.Weak upgrades check target liveness at call time, never cached.
  - Strong handles returned by Get, Upgrade, and the adapters must be
    released by the caller.

# Subpackages

  - ref: explicit strong/weak reference handles
  - graph: shared-ownership node pool that holds the strong references
  - topology: declarative YAML/JSON wiring of pools
  - observability: logging, metrics, and tracing helpers
*/
package deferred
