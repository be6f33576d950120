package export

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"euclidean-graph/internal/config"
	"euclidean-graph/internal/graph"
)

const (
	vertexRadius = 3
	titleSize    = 32
)

// WriteSVG draws g on a canvas of the configured size: background, title
// centered in the title band, edges, then vertices on top. Edge and vertex
// colors come from the graph itself.
func WriteSVG(w io.Writer, g *graph.Graph, cfg config.Config) {
	canvas := svg.New(w)
	canvas.Start(cfg.CanvasWidth, cfg.CanvasHeight)
	canvas.Rect(0, 0, cfg.CanvasWidth, cfg.CanvasHeight, "fill:"+cfg.Theme.Background)

	if cfg.Title != "" && cfg.TitleBand > 0 {
		size := min(titleSize, cfg.TitleBand*2/3)
		canvas.Text(cfg.CanvasWidth/2, cfg.TitleBand/2+size/3, cfg.Title,
			fmt.Sprintf("fill:%s;font-family:sans-serif;font-size:%dpx;text-anchor:middle", cfg.Theme.Title, size))
	}

	for _, e := range g.Edges() {
		a, b := e.A(), e.B()
		canvas.Line(a.X(), a.Y(), b.X(), b.Y(), "stroke-width:1;stroke:"+string(e.Color()))
	}

	for _, v := range g.Vertices() {
		canvas.Circle(v.X(), v.Y(), vertexRadius, "fill:"+string(v.Color()))
	}

	canvas.End()
}
