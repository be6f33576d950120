package graph

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"euclidean-graph/internal/geometry"
)

// weightTolerance bounds the float drift accepted between a derived weight and
// the recomputed endpoint distance.
const weightTolerance = 1e-9

// Validate checks the structural invariants of a finished graph:
// distinct vertex positions, edges between member vertices, no duplicate or
// self-loop edges, derived weights equal to endpoint distance, consistent
// adjacency handles, and no isolated vertices.
func (g *Graph) Validate() error {
	s := g.st()

	member := make(map[*Vertex]bool, len(s.vertices))
	for _, v := range s.vertices {
		if member[v] {
			return fmt.Errorf("vertex %s listed twice: %w", v.point, ErrInvariant)
		}
		member[v] = true
		if s.index[v.point] != v {
			return fmt.Errorf("vertex %s shares its position: %w", v.point, ErrInvariant)
		}
	}
	if len(s.index) != len(s.vertices) {
		return fmt.Errorf("index holds %d positions for %d vertices: %w", len(s.index), len(s.vertices), ErrInvariant)
	}

	seen := make(map[PairKey]bool, len(s.edges))
	for h, e := range s.edges {
		if !member[e.a] || !member[e.b] {
			return fmt.Errorf("edge %d has an endpoint outside the graph: %w", h, ErrInvariant)
		}
		if e.a == e.b {
			return fmt.Errorf("edge %d is a self-loop: %w", h, ErrInvariant)
		}
		key := e.Key()
		if seen[key] {
			return fmt.Errorf("edge %d duplicates %s-%s: %w", h, key.Lo, key.Hi, ErrInvariant)
		}
		seen[key] = true
		if !e.override && math.Abs(e.weight-e.a.point.Distance(e.b.point)) > weightTolerance {
			return fmt.Errorf("edge %d weight %.6f is not the endpoint distance: %w", h, e.weight, ErrInvariant)
		}
		if !slices.Contains(e.a.edges, h) || !slices.Contains(e.b.edges, h) {
			return fmt.Errorf("edge %d missing from endpoint adjacency: %w", h, ErrInvariant)
		}
	}

	for _, v := range s.vertices {
		if len(v.edges) == 0 {
			return fmt.Errorf("vertex %s has no incident edge: %w", v.point, ErrInvariant)
		}
		for _, h := range v.edges {
			if h < 0 || h >= len(s.edges) || s.edges[h].Other(v) == nil {
				return fmt.Errorf("vertex %s holds stale edge handle %d: %w", v.point, h, ErrInvariant)
			}
		}
	}
	return nil
}

// ValidateFor runs Validate and then checks the invariants that depend on the
// generation policy: every derived weight is below maxWeight and no two edges
// intersect under policy. Weights set explicitly are not bound by maxWeight.
func (g *Graph) ValidateFor(policy geometry.Policy, maxWeight float64) error {
	if err := g.Validate(); err != nil {
		return err
	}

	edges := g.st().edges
	for h, e := range edges {
		if !e.override && !(e.weight < maxWeight) {
			return fmt.Errorf("edge %d weight %.6f is not below %g: %w", h, e.weight, maxWeight, ErrInvariant)
		}
	}
	for i := range edges {
		for j := i + 1; j < len(edges); j++ {
			if policy.Intersects(edges[i].Segment(), edges[j].Segment()) {
				return fmt.Errorf("edges %d and %d intersect under %s policy: %w", i, j, policy, ErrInvariant)
			}
		}
	}
	return nil
}

// Components partitions the vertices into connected components. Each
// component lists vertices in graph order; components are ordered by their
// first vertex.
func (g *Graph) Components() [][]*Vertex {
	s := g.st()
	if len(s.vertices) == 0 {
		return nil
	}

	pos := make(map[*Vertex]int64, len(s.vertices))
	ug := simple.NewUndirectedGraph()
	for i, v := range s.vertices {
		pos[v] = int64(i)
		ug.AddNode(simple.Node(i))
	}
	for _, e := range s.edges {
		ug.SetEdge(ug.NewEdge(simple.Node(pos[e.a]), simple.Node(pos[e.b])))
	}

	var out [][]*Vertex
	for _, cc := range topo.ConnectedComponents(ug) {
		ids := make([]int64, 0, len(cc))
		for _, n := range cc {
			ids = append(ids, n.ID())
		}
		slices.Sort(ids)
		comp := make([]*Vertex, 0, len(ids))
		for _, id := range ids {
			comp = append(comp, s.vertices[id])
		}
		out = append(out, comp)
	}
	slices.SortFunc(out, func(a, b []*Vertex) int {
		return int(pos[a[0]] - pos[b[0]])
	})
	return out
}
