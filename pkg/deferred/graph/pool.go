package graph

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/randalmurphal/deferred/pkg/deferred"
	"github.com/randalmurphal/deferred/pkg/deferred/observability"
	"github.com/randalmurphal/deferred/pkg/deferred/ref"
)

// Pool owns graph nodes through strong reference handles, keyed by node ID.
// It is the strong-ownership side of the deferred-link model: nodes stay
// alive while the pool (or another Strong holder) owns them, and deferred
// slots across the graph hold only weak references.
//
// Pool is safe for concurrent use.
type Pool[T any] struct {
	mu    sync.RWMutex
	nodes map[string]*ref.Strong[Node[T]]

	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

// options holds pool configuration.
type options struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

// Option configures a Pool.
type Option func(*options)

// WithLogger sets a structured logger for pool lifecycle events.
// Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder for link and upgrade counters.
// Default: observability.NoopMetrics.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// NewPool creates an empty pool.
func NewPool[T any](opts ...Option) *Pool[T] {
	cfg := options{metrics: observability.NoopMetrics{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Pool[T]{
		nodes:   make(map[string]*ref.Strong[Node[T]]),
		logger:  cfg.logger,
		metrics: cfg.metrics,
	}
}

// Add creates a node with a generated ID ("node-" plus a uuid prefix) and
// the given number of empty link slots, and takes ownership of it.
// Returns the borrowed node; the pool keeps the owning handle.
//
// Panics if degree is negative.
func (p *Pool[T]) Add(ctx context.Context, value T, degree int) *Node[T] {
	for {
		id := "node-" + uuid.New().String()[:8]
		n, err := p.AddNamed(ctx, id, value, degree)
		if err == nil {
			return n
		}
		// uuid prefix collision; roll again
	}
}

// AddNamed is like Add but with a caller-chosen ID.
// Returns ErrDuplicateNode if the ID is already owned by the pool.
//
// Panics if id is empty or degree is negative.
func (p *Pool[T]) AddNamed(ctx context.Context, id string, value T, degree int) (*Node[T], error) {
	if id == "" {
		panic("graph: node ID cannot be empty")
	}
	if degree < 0 {
		panic("graph: node degree cannot be negative")
	}

	strong := ref.New(newNode(id, value, degree))

	p.mu.Lock()
	if _, exists := p.nodes[id]; exists {
		p.mu.Unlock()
		strong.Release()
		return nil, ErrDuplicateNode
	}
	p.nodes[id] = strong
	p.mu.Unlock()

	p.metrics.RecordPoolSize(ctx, 1)
	observability.LogNodeAdded(p.logger, id, degree)
	return strong.Value(), nil
}

// Get returns the node for an ID and whether the pool owns it.
// The returned pointer is borrowed: it is valid while the pool (or another
// strong holder) keeps the node alive.
func (p *Pool[T]) Get(id string) (*Node[T], bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	strong, ok := p.nodes[id]
	if !ok {
		return nil, false
	}
	return strong.Value(), true
}

// Weak returns a non-owning reference to the node for an ID, suitable for
// storing in a deferred slot, and whether the pool owns the node.
func (p *Pool[T]) Weak(id string) (ref.Weak[Node[T]], bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	strong, ok := p.nodes[id]
	if !ok {
		return ref.Weak[Node[T]]{}, false
	}
	return strong.Weak(), true
}

// Has reports whether the pool owns a node with the given ID.
func (p *Pool[T]) Has(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.nodes[id]
	return ok
}

// Len returns the number of nodes the pool owns.
func (p *Pool[T]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.nodes)
}

// IDs returns the IDs of all owned nodes. The order is not guaranteed.
func (p *Pool[T]) IDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]string, 0, len(p.nodes))
	for id := range p.nodes {
		ids = append(ids, id)
	}
	return ids
}

// Link wires the slot-th link of node from to node to, through a write-only
// setter view. The write succeeds at most once per slot; a second attempt
// returns a LinkError wrapping deferred.ErrDuplicateInitialization.
//
// Unknown endpoints and out-of-range slots are reported as LinkErrors
// wrapping ErrNodeNotFound and ErrLinkIndex.
func (p *Pool[T]) Link(ctx context.Context, from string, slot int, to string) error {
	// Capture the node and target reference under the lock so a concurrent
	// Release cannot invalidate the handles mid-wiring.
	p.mu.RLock()
	fromStrong, fromOK := p.nodes[from]
	toStrong, toOK := p.nodes[to]
	var (
		fromNode *Node[T]
		toWeak   ref.Weak[Node[T]]
	)
	if fromOK && toOK {
		fromNode = fromStrong.Value()
		toWeak = toStrong.Weak()
	}
	p.mu.RUnlock()

	if !fromOK || !toOK {
		return &LinkError{From: from, Slot: slot, To: to, Err: ErrNodeNotFound}
	}
	if slot < 0 || slot >= fromNode.Degree() {
		return &LinkError{From: from, Slot: slot, To: to, Err: ErrLinkIndex}
	}

	err := fromNode.Setter(slot).TrySet(toWeak)
	p.metrics.RecordLink(ctx, from, err)
	if err != nil {
		observability.LogLinkConflict(p.logger, from, slot, to, err)
		return &LinkError{From: from, Slot: slot, To: to, Err: err}
	}

	observability.LogLink(p.logger, from, slot, to)
	return nil
}

// Release drops the pool's ownership of a node. If no other strong holder
// remains, every deferred link pointing at the node goes dead; slots keep
// reporting IsReady, and upgrades fail with deferred.ErrTargetReleased.
//
// Returns ErrNodeNotFound if the pool does not own the ID.
func (p *Pool[T]) Release(ctx context.Context, id string) error {
	p.mu.Lock()
	strong, ok := p.nodes[id]
	if ok {
		delete(p.nodes, id)
	}
	p.mu.Unlock()

	if !ok {
		return ErrNodeNotFound
	}

	strong.Release()
	p.metrics.RecordPoolSize(ctx, -1)
	observability.LogNodeReleased(p.logger, id)
	return nil
}

// Neighbors returns a lazy sequence of strong handles to the live targets of
// the node's link slots, in slot order. Empty slots are passed over
// silently; set slots whose target has been released are skipped and
// recorded as upgrade failures.
//
// Each yielded handle must be released by the consumer. The sequence is
// re-iterable, with liveness re-checked on every pass.
func (p *Pool[T]) Neighbors(ctx context.Context, id string) (iter.Seq[*ref.Strong[Node[T]]], error) {
	p.mu.RLock()
	strong, ok := p.nodes[id]
	var node *Node[T]
	if ok {
		node = strong.Value()
	}
	p.mu.RUnlock()
	if !ok {
		return nil, ErrNodeNotFound
	}
	seq := func(yield func(*ref.Strong[Node[T]]) bool) {
		for target, err := range deferred.Resolved(deferred.Slots(node.links...)) {
			switch {
			case err == nil:
				p.metrics.RecordUpgrade(ctx, true)
				if !yield(target) {
					return
				}
			case errors.Is(err, deferred.ErrTargetReleased):
				p.metrics.RecordUpgrade(ctx, false)
				observability.LogUpgradeFailure(p.logger, node.ID, err)
			default:
				// Slot never wired; nothing to report.
			}
		}
	}
	return seq, nil
}
