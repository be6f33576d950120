// Package builder generates random weighted Euclidean graphs.
//
// A Builder runs three steps in order: PlaceVertices samples distinct integer
// positions, PlaceEdges draws random endpoint pairs and commits the ones that
// pass the intersection, duplicate, weight, distinctness and density checks,
// and Prune drops every vertex that never became an edge endpoint. Each
// Builder produces exactly one graph; build a new one to regenerate.
//
// All randomness comes from the *rand.Rand handed to New and is consumed in a
// fixed order (vertex count, then X and Y per vertex sample, then A and B per
// edge candidate), so a seeded generator reproduces the same graph.
package builder

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"euclidean-graph/internal/config"
	"euclidean-graph/internal/geometry"
	"euclidean-graph/internal/graph"
)

var (
	// ErrNeedRandSource is returned by New without a random generator.
	ErrNeedRandSource = errors.New("builder: rng is required")

	// ErrOutOfOrder is returned when a step is called in the wrong state.
	ErrOutOfOrder = errors.New("builder: step called out of order")
)

// State is the progress of a build.
type State int

const (
	StateEmpty State = iota
	StateVerticesPlaced
	StateEdgesPlaced
	StatePruned
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateVerticesPlaced:
		return "vertices-placed"
	case StateEdgesPlaced:
		return "edges-placed"
	case StatePruned:
		return "pruned"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Option customizes a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for progress messages. Panics on nil.
func WithLogger(l *log.Logger) Option {
	if l == nil {
		panic("builder: WithLogger(nil)")
	}
	return func(b *Builder) {
		b.logger = l
	}
}

// Builder constructs one graph.
type Builder struct {
	cfg    config.Config
	policy geometry.Policy
	rng    *rand.Rand
	logger *log.Logger

	state   State
	draft   *graph.Draft
	pending map[*graph.Vertex]struct{} // vertices not yet an edge endpoint
	index   *edgeIndex
	result  *graph.Graph
	stats   Stats
	started time.Time
}

// New validates cfg and returns a Builder drawing from rng.
func New(cfg config.Config, rng *rand.Rand, opts ...Option) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, ErrNeedRandSource
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	b := &Builder{
		cfg:    cfg,
		policy: policy,
		rng:    rng,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Generate builds a graph from a fresh generator seeded with seed.
func Generate(cfg config.Config, seed int64, opts ...Option) (*graph.Graph, Stats, error) {
	b, err := New(cfg, rand.New(rand.NewSource(seed)), opts...)
	if err != nil {
		return nil, Stats{}, err
	}
	return b.Build()
}

// State returns the current build state.
func (b *Builder) State() State { return b.state }

// Stats returns the statistics gathered so far.
func (b *Builder) Stats() Stats { return b.stats }

// Build runs every step and returns the finished graph.
func (b *Builder) Build() (*graph.Graph, Stats, error) {
	if err := b.PlaceVertices(); err != nil {
		return nil, b.stats, err
	}
	if err := b.PlaceEdges(); err != nil {
		return nil, b.stats, err
	}
	g, err := b.Prune()
	if err != nil {
		return nil, b.stats, err
	}
	return g, b.stats, nil
}

func (b *Builder) expect(want State, step string) error {
	if b.state != want {
		return fmt.Errorf("%s in state %s: %w", step, b.state, ErrOutOfOrder)
	}
	return nil
}

// PlaceVertices draws the target vertex count and then samples distinct
// positions with X in [0, CanvasWidth) and Y in [TitleBand, CanvasHeight).
func (b *Builder) PlaceVertices() error {
	if err := b.expect(StateEmpty, "place vertices"); err != nil {
		return err
	}
	b.started = time.Now()

	target := b.cfg.MinVertices + b.rng.Intn(b.cfg.MaxVertices-b.cfg.MinVertices+1)
	height := b.cfg.CanvasHeight - b.cfg.TitleBand

	b.logger.Debug("Placing vertices", "target", target, "width", b.cfg.CanvasWidth, "height", height)

	b.draft = graph.NewDraft(target)
	b.pending = make(map[*graph.Vertex]struct{}, target)
	b.stats.TargetVertices = target

	for b.draft.VertexCount() < target {
		p := geometry.Point{
			X: b.rng.Intn(b.cfg.CanvasWidth),
			Y: b.rng.Intn(height) + b.cfg.TitleBand,
		}

		// Don't allow vertices on top of each other
		if b.draft.HasVertex(p) {
			b.stats.Resamples++
			continue
		}

		v, err := b.draft.AddVertex(p)
		if err != nil {
			return fmt.Errorf("place vertices: %w", err)
		}
		b.pending[v] = struct{}{}
	}

	if b.stats.Resamples > 0 {
		b.logger.Debug("Resampled occupied positions", "count", b.stats.Resamples)
	}

	b.state = StateVerticesPlaced
	return nil
}

// PlaceEdges draws endpoint pairs from the whole vertex sequence and commits
// candidates until every vertex is an endpoint, the edge cap is reached, or
// FailureLimit draws in a row have failed.
func (b *Builder) PlaceEdges() error {
	if err := b.expect(StateVerticesPlaced, "place edges"); err != nil {
		return err
	}

	n := b.draft.VertexCount()
	edgeCap := b.cfg.EdgeRatio * float64(n)
	b.index = newEdgeIndex(b.policy)

	b.logger.Debug("Placing edges",
		"vertices", n, "maxWeight", b.cfg.MaxWeight, "edgeCap", edgeCap,
		"failureLimit", b.cfg.FailureLimit, "policy", b.policy)

	failures := 0
	for len(b.pending) > 0 && float64(b.draft.EdgeCount()) < edgeCap && failures < b.cfg.FailureLimit {
		b.stats.Iterations++

		a := b.draft.Vertex(b.rng.Intn(n))
		c := b.draft.Vertex(b.rng.Intn(n))

		if b.tryCommit(a, c) {
			failures = 0
			continue
		}

		failures++
		b.stats.MaxConsecutiveFailures = max(b.stats.MaxConsecutiveFailures, failures)
	}

	switch {
	case len(b.pending) == 0:
		b.stats.Termination = TerminationConnected
	case float64(b.draft.EdgeCount()) >= edgeCap:
		b.stats.Termination = TerminationEdgeCap
	default:
		b.stats.Termination = TerminationFailureCap
	}
	b.stats.Committed = b.draft.EdgeCount()

	b.logger.Debug("Edge placement finished",
		"edges", b.stats.Committed, "iterations", b.stats.Iterations,
		"unconnected", len(b.pending), "termination", b.stats.Termination)

	b.state = StateEdgesPlaced
	return nil
}

// tryCommit runs the candidate checks for the edge a-c and commits it when
// all pass. It reports whether the edge was committed.
func (b *Builder) tryCommit(a, c *graph.Vertex) bool {
	seg := geometry.Segment{P1: a.Point(), P2: c.Point()}

	if b.index.intersectsAny(seg) {
		b.stats.Rejected.Intersect++
		return false
	}

	weight := geometry.Distance(a.Point(), c.Point())
	switch {
	case b.draft.HasEdge(a, c):
		b.stats.Rejected.Duplicate++
		return false
	case weight >= b.cfg.MaxWeight:
		b.stats.Rejected.Weight++
		return false
	case a == c:
		b.stats.Rejected.SelfLoop++
		return false
	}

	// Pending vertices are pruned later, so the density cap is held against
	// the vertices that will survive rather than every placed one.
	connected := b.draft.VertexCount() - len(b.pending)
	if _, ok := b.pending[a]; ok {
		connected++
	}
	if _, ok := b.pending[c]; ok {
		connected++
	}
	if float64(b.draft.EdgeCount()+1) > b.cfg.EdgeRatio*float64(connected) {
		b.stats.Rejected.Density++
		return false
	}

	if _, err := b.draft.AddEdge(a, c); err != nil {
		// The checks above rule out every AddEdge failure.
		b.logger.Warn("Commit refused", "a", a.Point(), "b", c.Point(), "err", err)
		return false
	}
	b.index.insert(seg)
	delete(b.pending, a)
	delete(b.pending, c)
	return true
}

// Prune removes every vertex that never became an edge endpoint and returns
// the finished graph.
func (b *Builder) Prune() (*graph.Graph, error) {
	if err := b.expect(StateEdgesPlaced, "prune"); err != nil {
		return nil, err
	}

	// Walk the vertex sequence rather than the pending map so removal order
	// is deterministic.
	for _, v := range b.draft.Vertices() {
		if _, ok := b.pending[v]; !ok {
			continue
		}
		if err := b.draft.RemoveVertex(v); err != nil {
			return nil, fmt.Errorf("prune: %w", err)
		}
		b.stats.Pruned++
	}
	b.pending = nil
	b.index = nil

	g := b.draft.Freeze()
	b.result = g
	b.state = StatePruned

	b.stats.Vertices = g.VertexCount()
	b.stats.Edges = g.EdgeCount()
	b.stats.Components = len(g.Components())
	b.stats.Duration = time.Since(b.started)

	b.logger.Info("Graph built",
		"vertices", b.stats.Vertices, "edges", b.stats.Edges, "pruned", b.stats.Pruned,
		"components", b.stats.Components, "termination", b.stats.Termination,
		"elapsed", b.stats.Duration.Round(time.Millisecond))

	return g, nil
}

// Graph returns the finished graph, or nil before Prune.
func (b *Builder) Graph() *graph.Graph { return b.result }
