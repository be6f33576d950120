package builder

import (
	"github.com/dhconnelly/rtreego"

	"euclidean-graph/internal/geometry"
)

// boxPadding widens every stored and queried box so that flat (axis-aligned
// or single-point) segments still have a valid, non-empty rectangle. Queries
// therefore return a superset of the candidates the policy can reject.
const boxPadding = 0.5

// segmentEntry wraps a committed edge segment for R-tree storage
type segmentEntry struct {
	Segment geometry.Segment
	BBox    rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *segmentEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// edgeIndex answers "does this candidate hit any committed edge" without a
// scan over every edge. Hits from the tree are confirmed with the policy.
type edgeIndex struct {
	tree   *rtreego.Rtree
	policy geometry.Policy
	size   int
}

func newEdgeIndex(policy geometry.Policy) *edgeIndex {
	return &edgeIndex{
		tree:   rtreego.NewTree(2, 25, 50), // 2D, min 25, max 50 entries per node
		policy: policy,
	}
}

// insert records a committed edge.
func (ix *edgeIndex) insert(seg geometry.Segment) {
	ix.tree.Insert(&segmentEntry{Segment: seg, BBox: segmentRect(seg)})
	ix.size++
}

// intersectsAny reports whether seg intersects a committed edge under the
// index policy.
func (ix *edgeIndex) intersectsAny(seg geometry.Segment) bool {
	if ix.size == 0 {
		return false
	}
	for _, item := range ix.tree.SearchIntersect(segmentRect(seg)) {
		if ix.policy.Intersects(seg, item.(*segmentEntry).Segment) {
			return true
		}
	}
	return false
}

// segmentRect computes the padded axis-aligned box of a segment.
func segmentRect(seg geometry.Segment) rtreego.Rect {
	b := seg.Bound()
	rect, err := rtreego.NewRect(
		rtreego.Point{b.Min.X() - boxPadding, b.Min.Y() - boxPadding},
		[]float64{b.Max.X() - b.Min.X() + 2*boxPadding, b.Max.Y() - b.Min.Y() + 2*boxPadding},
	)
	if err != nil {
		// Lengths are always at least 2*boxPadding.
		panic(err)
	}
	return rect
}
