// Package export writes and reads finished graphs: a JSON document, GeoJSON,
// SVG drawings and Graphviz DOT. Every reader rebuilds the graph through a
// graph.Draft and rejects documents that break graph invariants.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"euclidean-graph/internal/config"
	"euclidean-graph/internal/geometry"
	"euclidean-graph/internal/graph"
)

// Document is the JSON form of a graph.
type Document struct {
	ID       string         `json:"id,omitempty"`
	Seed     int64          `json:"seed"`
	Config   *config.Config `json:"config,omitempty"`
	Vertices []VertexDoc    `json:"vertices"`
	Edges    []EdgeDoc      `json:"edges"`
}

// VertexDoc is one vertex of a Document.
type VertexDoc struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Color string `json:"color,omitempty"`
}

// EdgeDoc is one edge of a Document. A and B index Document.Vertices.
type EdgeDoc struct {
	A        int     `json:"a"`
	B        int     `json:"b"`
	Weight   float64 `json:"weight"`
	Override bool    `json:"override,omitempty"`
	Color    string  `json:"color,omitempty"`
}

// NewDocument captures g.
func NewDocument(g *graph.Graph) Document {
	doc := Document{
		Vertices: make([]VertexDoc, 0, g.VertexCount()),
		Edges:    make([]EdgeDoc, 0, g.EdgeCount()),
	}

	pos := make(map[*graph.Vertex]int, g.VertexCount())
	for i, v := range g.Vertices() {
		pos[v] = i
		doc.Vertices = append(doc.Vertices, VertexDoc{X: v.X(), Y: v.Y(), Color: string(v.Color())})
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, EdgeDoc{
			A:        pos[e.A()],
			B:        pos[e.B()],
			Weight:   e.Weight(),
			Override: e.WeightOverridden(),
			Color:    string(e.Color()),
		})
	}
	return doc
}

// Graph rebuilds the graph described by the document. When the document
// carries its config, edges must also respect its weight bound and
// intersection policy.
func (d Document) Graph() (*graph.Graph, error) {
	draft := graph.NewDraft(len(d.Vertices))

	vs := make([]*graph.Vertex, len(d.Vertices))
	for i, vd := range d.Vertices {
		v, err := draft.AddVertex(geometry.Point{X: vd.X, Y: vd.Y})
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		if vd.Color != "" {
			v.SetColor(graph.Color(vd.Color))
		}
		vs[i] = v
	}

	for i, ed := range d.Edges {
		if ed.A < 0 || ed.A >= len(vs) || ed.B < 0 || ed.B >= len(vs) {
			return nil, fmt.Errorf("edge %d references vertex out of range: %w", i, graph.ErrUnknownVertex)
		}
		var (
			h   int
			err error
		)
		if ed.Override {
			h, err = draft.AddEdgeWeighted(vs[ed.A], vs[ed.B], ed.Weight)
		} else {
			h, err = draft.AddEdge(vs[ed.A], vs[ed.B])
		}
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		if ed.Color != "" {
			draft.Edge(h).SetColor(graph.Color(ed.Color))
		}
	}

	g := draft.Freeze()
	if d.Config == nil {
		if err := g.Validate(); err != nil {
			return nil, err
		}
		return g, nil
	}

	policy, err := d.Config.Policy()
	if err != nil {
		return nil, fmt.Errorf("document config: %v: %w", err, config.ErrInvalidConfig)
	}
	if err := g.ValidateFor(policy, d.Config.MaxWeight); err != nil {
		return nil, err
	}
	return g, nil
}

// WriteJSON encodes doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}
	return nil
}

// ReadJSON decodes a document.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return doc, fmt.Errorf("failed to unmarshal graph: %w", err)
	}
	return doc, nil
}

// SaveFile serializes and saves the document to a JSON file
func SaveFile(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// LoadFile deserializes a document from a JSON file
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to unmarshal graph: %w", err)
	}
	return doc, nil
}
