package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"euclidean-graph/internal/config"
	"euclidean-graph/internal/graph"
)

// ToDOT converts g to an undirected Graphviz graph. Nodes are pinned to their
// canvas positions (y flipped, since Graphviz grows upward) and edges carry
// their rounded weight as label.
func ToDOT(g *graph.Graph, cfg config.Config) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", cfg.Theme.Background)
	if cfg.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontcolor=%q;\n", cfg.Title, cfg.Theme.Title)
	}
	buf.WriteString("  node [shape=point, width=0.08];\n")
	buf.WriteString("  edge [fontsize=8];\n")
	buf.WriteString("\n")

	pos := make(map[*graph.Vertex]int, g.VertexCount())
	for i, v := range g.Vertices() {
		pos[v] = i
		fmt.Fprintf(&buf, "  n%d [pos=\"%d,%d!\", color=%q, fillcolor=%q];\n",
			i, v.X(), cfg.CanvasHeight-v.Y(), v.Color(), v.Color())
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  n%d -- n%d [label=\"%.0f\", color=%q, fontcolor=%q];\n",
			pos[e.A()], pos[e.B()], e.Weight(), e.Color(), e.Color())
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOT lays out a DOT graph with neato, honoring pinned positions, and
// returns the SVG bytes.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
