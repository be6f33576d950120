// Package graph defines the weighted Euclidean graph produced by the builder.
//
// A graph is assembled through a Draft and then frozen into a Graph. Once
// frozen, topology and weights are fixed; only the display color of vertices
// and edges may still change.
package graph

import (
	"math"

	"euclidean-graph/internal/geometry"
)

// Color is a display color understood by the rendering layer (a CSS color
// name or hex string). It never affects topology or weight.
type Color string

// Default colors.
const (
	DefaultVertexColor Color = "white"
	DefaultEdgeColor   Color = "gray"
)

// Vertex is a graph node identified by its canvas position.
type Vertex struct {
	point geometry.Point
	edges []int // handles into the owning graph's edge list
	color Color
}

// Point returns the vertex position.
func (v *Vertex) Point() geometry.Point { return v.point }

// X returns the horizontal coordinate.
func (v *Vertex) X() int { return v.point.X }

// Y returns the vertical coordinate.
func (v *Vertex) Y() int { return v.point.Y }

// Degree returns the number of incident edges.
func (v *Vertex) Degree() int { return len(v.edges) }

// EdgeHandles returns the handles of the incident edges in commit order.
func (v *Vertex) EdgeHandles() []int {
	out := make([]int, len(v.edges))
	copy(out, v.edges)
	return out
}

// Color returns the display color.
func (v *Vertex) Color() Color { return v.color }

// SetColor changes the display color.
func (v *Vertex) SetColor(c Color) { v.color = c }

// Edge is an undirected weighted connection between two vertices.
type Edge struct {
	a, b     *Vertex
	weight   float64
	override bool
	color    Color
}

// A returns the first endpoint.
func (e *Edge) A() *Vertex { return e.a }

// B returns the second endpoint.
func (e *Edge) B() *Vertex { return e.b }

// Weight returns the edge weight.
func (e *Edge) Weight() float64 { return e.weight }

// WeightOverridden reports whether the weight was supplied explicitly rather
// than derived from the endpoint distance.
func (e *Edge) WeightOverridden() bool { return e.override }

// Segment returns the edge as a line segment.
func (e *Edge) Segment() geometry.Segment {
	return geometry.Segment{P1: e.a.point, P2: e.b.point}
}

// Other returns the endpoint opposite v, or nil if v is not an endpoint.
func (e *Edge) Other(v *Vertex) *Vertex {
	switch v {
	case e.a:
		return e.b
	case e.b:
		return e.a
	}
	return nil
}

// Key returns the symmetric identity of the edge.
func (e *Edge) Key() PairKey { return Pair(e.a.point, e.b.point) }

// Color returns the display color.
func (e *Edge) Color() Color { return e.color }

// SetColor changes the display color.
func (e *Edge) SetColor(c Color) { e.color = c }

// PairKey identifies an unordered pair of positions, so that the edge a-b and
// the edge b-a share one key.
type PairKey struct {
	Lo, Hi geometry.Point
}

// Pair builds the PairKey of two positions.
func Pair(a, b geometry.Point) PairKey {
	if b.X < a.X || (b.X == a.X && b.Y < a.Y) {
		a, b = b, a
	}
	return PairKey{Lo: a, Hi: b}
}

// store is shared by Draft and Graph.
type store struct {
	vertices []*Vertex
	index    map[geometry.Point]*Vertex
	edges    []*Edge
	pairs    map[PairKey]int
}

func newStore(capacity int) *store {
	return &store{
		vertices: make([]*Vertex, 0, capacity),
		index:    make(map[geometry.Point]*Vertex, capacity),
		edges:    make([]*Edge, 0, capacity*2),
		pairs:    make(map[PairKey]int, capacity*2),
	}
}

// Graph is a frozen Euclidean graph. The zero value is an empty graph.
type Graph struct {
	s *store
}

// emptyStore backs every zero Graph. Nothing writes to it once built.
var emptyStore = newStore(0)

func (g *Graph) st() *store {
	if g.s == nil {
		return emptyStore
	}
	return g.s
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return len(g.st().vertices) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.st().edges) }

// Vertices returns the vertices in insertion order. The slice is a copy; the
// vertices are shared.
func (g *Graph) Vertices() []*Vertex {
	s := g.st()
	out := make([]*Vertex, len(s.vertices))
	copy(out, s.vertices)
	return out
}

// Edges returns the edges in commit order, indexed by handle.
func (g *Graph) Edges() []*Edge {
	s := g.st()
	out := make([]*Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// Vertex returns the i-th vertex.
func (g *Graph) Vertex(i int) *Vertex { return g.st().vertices[i] }

// Edge returns the edge for a handle.
func (g *Graph) Edge(h int) *Edge { return g.st().edges[h] }

// VertexAt looks up the vertex at p.
func (g *Graph) VertexAt(p geometry.Point) (*Vertex, bool) {
	v, ok := g.st().index[p]
	return v, ok
}

// IndexOf returns the position of v in the vertex sequence, or -1.
func (g *Graph) IndexOf(v *Vertex) int {
	for i, u := range g.st().vertices {
		if u == v {
			return i
		}
	}
	return -1
}

// HasEdge reports whether an edge joins the positions a and b, in either
// direction.
func (g *Graph) HasEdge(a, b geometry.Point) bool {
	_, ok := g.st().pairs[Pair(a, b)]
	return ok
}

// IncidentEdges returns the edges touching v in commit order.
func (g *Graph) IncidentEdges(v *Vertex) []*Edge {
	out := make([]*Edge, 0, len(v.edges))
	for _, h := range v.edges {
		out = append(out, g.st().edges[h])
	}
	return out
}

// SetVertexColor changes the display color of the i-th vertex.
func (g *Graph) SetVertexColor(i int, c Color) { g.Vertex(i).SetColor(c) }

// SetEdgeColor changes the display color of an edge.
func (g *Graph) SetEdgeColor(h int, c Color) { g.Edge(h).SetColor(c) }

// Paint sets every vertex to vertex and every edge to edge.
func (g *Graph) Paint(vertex, edge Color) {
	s := g.st()
	for _, v := range s.vertices {
		v.color = vertex
	}
	for _, e := range s.edges {
		e.color = edge
	}
}

// Lines returns every edge as a segment for drawing.
func (g *Graph) Lines() []geometry.Segment {
	s := g.st()
	lines := make([]geometry.Segment, 0, len(s.edges))
	for _, e := range s.edges {
		lines = append(lines, e.Segment())
	}
	return lines
}

// TotalWeight returns the sum of all edge weights.
func (g *Graph) TotalWeight() float64 {
	var sum float64
	for _, e := range g.st().edges {
		sum += e.weight
	}
	return sum
}

// NearestVertex finds the closest vertex to a given point
func (g *Graph) NearestVertex(p geometry.Point) (int, float64) {
	vertices := g.st().vertices
	if len(vertices) == 0 {
		return -1, math.MaxFloat64
	}

	nearest := 0
	minDist := p.Distance(vertices[0].point)

	for i := 1; i < len(vertices); i++ {
		dist := p.Distance(vertices[i].point)
		if dist < minDist {
			minDist = dist
			nearest = i
		}
	}

	return nearest, minDist
}
