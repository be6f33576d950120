package export

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"euclidean-graph/internal/geometry"
	"euclidean-graph/internal/graph"
)

// Feature kinds stored in the "kind" property.
const (
	kindVertex = "vertex"
	kindEdge   = "edge"
)

// ToGeoJSON converts g into a feature collection: one Point feature per
// vertex followed by one LineString feature per edge.
func ToGeoJSON(g *graph.Graph) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for i, v := range g.Vertices() {
		f := geojson.NewFeature(v.Point().Orb())
		f.Properties["kind"] = kindVertex
		f.Properties["index"] = i
		f.Properties["color"] = string(v.Color())
		fc.Append(f)
	}

	for h, e := range g.Edges() {
		f := geojson.NewFeature(orb.LineString{e.A().Point().Orb(), e.B().Point().Orb()})
		f.Properties["kind"] = kindEdge
		f.Properties["handle"] = h
		f.Properties["weight"] = e.Weight()
		f.Properties["override"] = e.WeightOverridden()
		f.Properties["color"] = string(e.Color())
		fc.Append(f)
	}

	return fc
}

// MarshalGeoJSON encodes g as a GeoJSON FeatureCollection.
func MarshalGeoJSON(g *graph.Graph) ([]byte, error) {
	data, err := ToGeoJSON(g).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal geojson: %w", err)
	}
	return data, nil
}

// UnmarshalGeoJSON rebuilds a graph from a FeatureCollection written by
// MarshalGeoJSON. Features without a known kind are skipped.
func UnmarshalGeoJSON(data []byte) (*graph.Graph, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse geojson: %w", err)
	}

	draft := graph.NewDraft(len(fc.Features))

	// Vertices first, so edges can refer to any of them.
	for i, f := range fc.Features {
		if f.Properties.MustString("kind", "") != kindVertex {
			continue
		}
		p, ok := f.Geometry.(orb.Point)
		if !ok {
			return nil, fmt.Errorf("feature %d: vertex geometry is %T, want Point", i, f.Geometry)
		}
		v, err := draft.AddVertex(toPoint(p))
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		if c := f.Properties.MustString("color", ""); c != "" {
			v.SetColor(graph.Color(c))
		}
	}

	index := make(map[geometry.Point]*graph.Vertex, draft.VertexCount())
	for _, v := range draft.Vertices() {
		index[v.Point()] = v
	}

	for i, f := range fc.Features {
		if f.Properties.MustString("kind", "") != kindEdge {
			continue
		}
		ls, ok := f.Geometry.(orb.LineString)
		if !ok || len(ls) != 2 {
			return nil, fmt.Errorf("feature %d: edge geometry must be a two-point LineString", i)
		}
		a, okA := index[toPoint(ls[0])]
		b, okB := index[toPoint(ls[1])]
		if !okA || !okB {
			return nil, fmt.Errorf("feature %d: %w", i, graph.ErrUnknownVertex)
		}

		var h int
		if f.Properties.MustBool("override", false) {
			h, err = draft.AddEdgeWeighted(a, b, f.Properties.MustFloat64("weight", 0))
		} else {
			h, err = draft.AddEdge(a, b)
		}
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		if c := f.Properties.MustString("color", ""); c != "" {
			draft.Edge(h).SetColor(graph.Color(c))
		}
	}

	g := draft.Freeze()
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func toPoint(p orb.Point) geometry.Point {
	return geometry.Point{X: int(math.Round(p.X())), Y: int(math.Round(p.Y()))}
}
