package graph

import (
	"fmt"
	"slices"

	"euclidean-graph/internal/geometry"
)

// Draft is a graph under construction. It owns the edge list; vertices only
// hold handles into it. Call Freeze to obtain the finished Graph.
type Draft struct {
	s      *store
	frozen bool
}

// NewDraft returns an empty draft sized for about capacity vertices.
func NewDraft(capacity int) *Draft {
	return &Draft{s: newStore(capacity)}
}

// AddVertex places a vertex at p with the default color.
func (d *Draft) AddVertex(p geometry.Point) (*Vertex, error) {
	if d.frozen {
		return nil, ErrFrozen
	}
	if _, ok := d.s.index[p]; ok {
		return nil, fmt.Errorf("add vertex %s: %w", p, ErrDuplicateVertex)
	}
	v := &Vertex{point: p, color: DefaultVertexColor}
	d.s.vertices = append(d.s.vertices, v)
	d.s.index[p] = v
	return v, nil
}

// HasVertex reports whether a vertex occupies p.
func (d *Draft) HasVertex(p geometry.Point) bool {
	_, ok := d.s.index[p]
	return ok
}

// Vertex returns the i-th vertex.
func (d *Draft) Vertex(i int) *Vertex { return d.s.vertices[i] }

// Vertices returns the vertices in insertion order. The slice is a copy.
func (d *Draft) Vertices() []*Vertex {
	out := make([]*Vertex, len(d.s.vertices))
	copy(out, d.s.vertices)
	return out
}

// VertexCount returns the number of vertices.
func (d *Draft) VertexCount() int { return len(d.s.vertices) }

// EdgeCount returns the number of edges.
func (d *Draft) EdgeCount() int { return len(d.s.edges) }

// Edge returns the edge for a handle.
func (d *Draft) Edge(h int) *Edge { return d.s.edges[h] }

// HasEdge reports whether a and b are already joined, in either direction.
func (d *Draft) HasEdge(a, b *Vertex) bool {
	_, ok := d.s.pairs[Pair(a.point, b.point)]
	return ok
}

// AddEdge joins a and b with a weight equal to their distance.
func (d *Draft) AddEdge(a, b *Vertex) (int, error) {
	return d.addEdge(a, b, geometry.Distance(a.point, b.point), false)
}

// AddEdgeWeighted joins a and b with an explicit weight.
func (d *Draft) AddEdgeWeighted(a, b *Vertex, weight float64) (int, error) {
	return d.addEdge(a, b, weight, true)
}

func (d *Draft) addEdge(a, b *Vertex, weight float64, override bool) (int, error) {
	if d.frozen {
		return -1, ErrFrozen
	}
	if d.s.index[a.point] != a || d.s.index[b.point] != b {
		return -1, fmt.Errorf("add edge %s-%s: %w", a.point, b.point, ErrUnknownVertex)
	}
	if a == b {
		return -1, fmt.Errorf("add edge %s-%s: %w", a.point, b.point, ErrSelfLoop)
	}
	key := Pair(a.point, b.point)
	if _, ok := d.s.pairs[key]; ok {
		return -1, fmt.Errorf("add edge %s-%s: %w", a.point, b.point, ErrDuplicateEdge)
	}

	h := len(d.s.edges)
	d.s.edges = append(d.s.edges, &Edge{a: a, b: b, weight: weight, override: override, color: DefaultEdgeColor})
	d.s.pairs[key] = h
	a.edges = append(a.edges, h)
	b.edges = append(b.edges, h)
	return h, nil
}

// RemoveVertex drops an isolated vertex, keeping the order of the others.
func (d *Draft) RemoveVertex(v *Vertex) error {
	if d.frozen {
		return ErrFrozen
	}
	if d.s.index[v.point] != v {
		return fmt.Errorf("remove vertex %s: %w", v.point, ErrUnknownVertex)
	}
	if len(v.edges) > 0 {
		return fmt.Errorf("remove vertex %s: %w", v.point, ErrVertexHasEdges)
	}
	i := slices.Index(d.s.vertices, v)
	d.s.vertices = slices.Delete(d.s.vertices, i, i+1)
	delete(d.s.index, v.point)
	return nil
}

// Freeze ends construction and returns the finished graph. The draft cannot
// be modified afterwards.
func (d *Draft) Freeze() *Graph {
	d.frozen = true
	return &Graph{s: d.s}
}
