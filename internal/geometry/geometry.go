// Package geometry holds the pure 2D helpers the graph builder relies on:
// integer canvas points, segments, Euclidean distance and segment
// intersection policies.
package geometry

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Point is an integer position on the canvas.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	return Distance(p, other)
}

// Orb converts the point to an orb.Point.
func (p Point) Orb() orb.Point {
	return orb.Point{float64(p.X), float64(p.Y)}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Distance calculates Euclidean distance between two points
func Distance(p1, p2 Point) float64 {
	dx := float64(p1.X - p2.X)
	dy := float64(p1.Y - p2.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Segment represents a line segment between two points
type Segment struct {
	P1 Point `json:"p1"`
	P2 Point `json:"p2"`
}

// Bound returns the axis-aligned bounding box of the segment.
func (s Segment) Bound() orb.Bound {
	return orb.LineString{s.P1.Orb(), s.P2.Orb()}.Bound()
}

// SegmentsIntersect reports whether the bounding boxes of two segments overlap
// strictly on both axes. It is not a true segment intersection test: crossing
// boxes are flagged even when the lines miss each other, and boxes that are
// flat on an axis never overlap. The X axis is checked first.
func SegmentsIntersect(seg1, seg2 Segment) bool {
	b1, b2 := seg1.Bound(), seg2.Bound()

	if !overlapsStrictly(b1.Min.X(), b1.Max.X(), b2.Min.X(), b2.Max.X()) {
		return false
	}
	return overlapsStrictly(b1.Min.Y(), b1.Max.Y(), b2.Min.Y(), b2.Max.Y())
}

// overlapsStrictly reports whether [a0,a1] and [b0,b1] share an interval of
// positive length.
func overlapsStrictly(a0, a1, b0, b1 float64) bool {
	return math.Max(a0, b0) < math.Min(a1, b1)
}

// SegmentsCross checks if two line segments geometrically intersect.
// Segments that share an endpoint do not count as crossing.
func SegmentsCross(seg1, seg2 Segment) bool {
	p1, p2 := seg1.P1, seg1.P2
	p3, p4 := seg2.P1, seg2.P2

	if p1 == p3 || p1 == p4 || p2 == p3 || p2 == p4 {
		return false
	}

	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear cases
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}

	return false
}

// direction calculates the cross product to determine orientation
func direction(p1, p2, p3 Point) int {
	return (p3.X-p1.X)*(p2.Y-p1.Y) - (p2.X-p1.X)*(p3.Y-p1.Y)
}

// onSegment checks if point q lies on segment pr
func onSegment(p, r, q Point) bool {
	return q.X <= max(p.X, r.X) && q.X >= min(p.X, r.X) &&
		q.Y <= max(p.Y, r.Y) && q.Y >= min(p.Y, r.Y)
}
