package builder

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"euclidean-graph/internal/config"
	"euclidean-graph/internal/geometry"
	"euclidean-graph/internal/graph"
)

// assertInvariants checks every property a finished graph must satisfy for cfg.
func assertInvariants(t *testing.T, cfg config.Config, g *graph.Graph, stats Stats) {
	t.Helper()

	require.NoError(t, g.Validate())

	seen := make(map[geometry.Point]bool)
	for _, v := range g.Vertices() {
		p := v.Point()
		assert.False(t, seen[p], "duplicate vertex %s", p)
		seen[p] = true
		assert.GreaterOrEqual(t, v.Degree(), 1, "vertex %s is isolated", p)
		assert.True(t, p.X >= 0 && p.X < cfg.CanvasWidth, "x out of range: %s", p)
		assert.True(t, p.Y >= cfg.TitleBand && p.Y < cfg.CanvasHeight, "y out of range: %s", p)
	}

	keys := make(map[graph.PairKey]bool)
	for _, e := range g.Edges() {
		assert.False(t, keys[e.Key()], "duplicate edge %v", e.Key())
		keys[e.Key()] = true
		assert.InDelta(t, geometry.Distance(e.A().Point(), e.B().Point()), e.Weight(), 1e-9)
		assert.Less(t, e.Weight(), cfg.MaxWeight)
	}

	policy, err := cfg.Policy()
	require.NoError(t, err)
	edges := g.Edges()
	for i := range edges {
		for j := i + 1; j < len(edges); j++ {
			assert.False(t, policy.Intersects(edges[i].Segment(), edges[j].Segment()),
				"edges %d and %d intersect", i, j)
		}
	}

	assert.LessOrEqual(t, float64(g.EdgeCount()), cfg.EdgeRatio*float64(stats.TargetVertices))
	assert.LessOrEqual(t, float64(g.EdgeCount()), cfg.EdgeRatio*float64(g.VertexCount()),
		"edge count exceeds the cap for the surviving vertices")
	assert.LessOrEqual(t, stats.MaxConsecutiveFailures, cfg.FailureLimit)
	assert.Equal(t, stats.TargetVertices, g.VertexCount()+stats.Pruned)
	assert.Equal(t, g.VertexCount(), stats.Vertices)
	assert.Equal(t, g.EdgeCount(), stats.Edges)
	assert.Equal(t, stats.Iterations, stats.Committed+stats.Rejected.Total())
}

func TestBuildInvariants(t *testing.T) {
	cfg := config.Default()

	for seed := int64(1); seed <= 8; seed++ {
		g, stats, err := Generate(cfg, seed)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, stats.TargetVertices, cfg.MinVertices)
		assert.LessOrEqual(t, stats.TargetVertices, cfg.MaxVertices)
		assert.NotEqual(t, TerminationNone, stats.Termination)
		assertInvariants(t, cfg, g, stats)
	}
}

func TestBuildExactPolicy(t *testing.T) {
	cfg := config.Default()
	cfg.Intersection = string(geometry.PolicyExact)

	for seed := int64(1); seed <= 4; seed++ {
		g, stats, err := Generate(cfg, seed)
		require.NoError(t, err)
		assertInvariants(t, cfg, g, stats)
	}
}

func TestBuildDensityCapCountsSurvivors(t *testing.T) {
	cfg := config.Default()
	cfg.Intersection = string(geometry.PolicyExact)
	cfg.EdgeRatio = 0.5

	density := 0
	for seed := int64(1); seed <= 4; seed++ {
		g, stats, err := Generate(cfg, seed)
		require.NoError(t, err)
		assertInvariants(t, cfg, g, stats)
		density += stats.Rejected.Density
	}
	assert.Positive(t, density)
}

func TestBuildTenVertexScenario(t *testing.T) {
	cfg := config.Default()
	cfg.CanvasWidth, cfg.CanvasHeight, cfg.TitleBand = 1000, 1000, 100
	cfg.MinVertices, cfg.MaxVertices = 10, 10
	cfg.MaxWeight = 9999
	cfg.FailureLimit = 1_000_000

	for seed := int64(1); seed <= 5; seed++ {
		g, stats, err := Generate(cfg, seed)
		require.NoError(t, err)

		assert.Equal(t, 10, stats.TargetVertices)
		assert.LessOrEqual(t, g.EdgeCount(), 20)
		assert.Zero(t, stats.Rejected.Weight)
		assertInvariants(t, cfg, g, stats)
	}
}

func TestBuildUnreachableWeight(t *testing.T) {
	cfg := config.Default()
	cfg.MaxWeight = 1

	g, stats, err := Generate(cfg, 42)
	require.NoError(t, err)

	assert.Zero(t, g.EdgeCount())
	assert.Zero(t, g.VertexCount())
	assert.Empty(t, g.Vertices())
	assert.Equal(t, stats.TargetVertices, stats.Pruned)
	assert.Equal(t, TerminationFailureCap, stats.Termination)
	assert.Equal(t, cfg.FailureLimit, stats.Iterations)
	assert.Equal(t, cfg.FailureLimit, stats.MaxConsecutiveFailures)
	assert.Zero(t, stats.Components)
}

func TestBuildDeterministic(t *testing.T) {
	type edge struct {
		a, b   geometry.Point
		weight float64
	}
	snapshot := func(g *graph.Graph) ([]geometry.Point, []edge) {
		var pts []geometry.Point
		for _, v := range g.Vertices() {
			pts = append(pts, v.Point())
		}
		var es []edge
		for _, e := range g.Edges() {
			es = append(es, edge{e.A().Point(), e.B().Point(), e.Weight()})
		}
		return pts, es
	}

	cfg := config.Default()
	g1, s1, err := Generate(cfg, 7)
	require.NoError(t, err)
	g2, s2, err := Generate(cfg, 7)
	require.NoError(t, err)

	p1, e1 := snapshot(g1)
	p2, e2 := snapshot(g2)
	assert.Equal(t, p1, p2)
	assert.Equal(t, e1, e2)
	assert.Equal(t, s1.Iterations, s2.Iterations)
	assert.Equal(t, s1.Rejected, s2.Rejected)

	g3, _, err := Generate(cfg, 8)
	require.NoError(t, err)
	p3, _ := snapshot(g3)
	assert.NotEqual(t, p1, p3)
}

func TestBuildFillsTinyCanvas(t *testing.T) {
	cfg := config.Default()
	cfg.CanvasWidth, cfg.CanvasHeight, cfg.TitleBand = 4, 6, 1
	cfg.MinVertices, cfg.MaxVertices = 20, 20

	b, err := New(cfg, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	require.NoError(t, b.PlaceVertices())

	assert.Equal(t, 20, b.draft.VertexCount())
	assert.Positive(t, b.Stats().Resamples)
	for x := 0; x < 4; x++ {
		for y := 1; y < 6; y++ {
			assert.True(t, b.draft.HasVertex(geometry.Point{X: x, Y: y}))
		}
	}
}

func TestStateMachine(t *testing.T) {
	b, err := New(config.Default(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, StateEmpty, b.State())

	assert.ErrorIs(t, b.PlaceEdges(), ErrOutOfOrder)
	_, err = b.Prune()
	assert.ErrorIs(t, err, ErrOutOfOrder)

	require.NoError(t, b.PlaceVertices())
	assert.Equal(t, StateVerticesPlaced, b.State())
	assert.ErrorIs(t, b.PlaceVertices(), ErrOutOfOrder)
	assert.Len(t, b.pending, b.draft.VertexCount())

	require.NoError(t, b.PlaceEdges())
	assert.Equal(t, StateEdgesPlaced, b.State())
	assert.Nil(t, b.Graph())

	g, err := b.Prune()
	require.NoError(t, err)
	assert.Equal(t, StatePruned, b.State())
	assert.Same(t, g, b.Graph())
	assert.Nil(t, b.pending)

	_, _, err = b.Build()
	assert.ErrorIs(t, err, ErrOutOfOrder)
	assert.Equal(t, "pruned", b.State().String())
}

func TestNew(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		cfg := config.Default()
		cfg.MaxWeight = 0
		_, err := New(cfg, rand.New(rand.NewSource(1)))
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("nil rng", func(t *testing.T) {
		_, err := New(config.Default(), nil)
		assert.ErrorIs(t, err, ErrNeedRandSource)
	})

	t.Run("nil logger panics", func(t *testing.T) {
		assert.Panics(t, func() { WithLogger(nil) })
	})
}

func TestBuildLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	_, _, err := Generate(config.Default(), 5, WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Placing vertices")
	assert.Contains(t, out, "Placing edges")
	assert.Contains(t, out, "Graph built")
}

func TestEdgeIndexMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	randomSegment := func() geometry.Segment {
		// A small grid makes shared coordinates and flat boxes common.
		return geometry.Segment{
			P1: geometry.Point{X: rng.Intn(30), Y: rng.Intn(30)},
			P2: geometry.Point{X: rng.Intn(30), Y: rng.Intn(30)},
		}
	}

	for _, policy := range []geometry.Policy{geometry.PolicyBoundingBox, geometry.PolicyExact} {
		ix := newEdgeIndex(policy)
		var committed []geometry.Segment
		for i := 0; i < 60; i++ {
			seg := randomSegment()
			committed = append(committed, seg)
			ix.insert(seg)
		}

		for i := 0; i < 500; i++ {
			probe := randomSegment()
			want := false
			for _, seg := range committed {
				if policy.Intersects(probe, seg) {
					want = true
					break
				}
			}
			assert.Equal(t, want, ix.intersectsAny(probe), "policy %s probe %v", policy, probe)
		}
	}
}

func TestEdgeIndexEmpty(t *testing.T) {
	ix := newEdgeIndex(geometry.PolicyBoundingBox)
	assert.False(t, ix.intersectsAny(geometry.Segment{P1: geometry.Point{X: 1, Y: 1}, P2: geometry.Point{X: 9, Y: 9}}))
}
