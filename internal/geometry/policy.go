package geometry

import "fmt"

// Policy selects how two edge segments are tested for intersection.
type Policy string

const (
	// PolicyBoundingBox uses SegmentsIntersect. It is the default and decides
	// which graphs are producible, so swapping it changes generated output.
	PolicyBoundingBox Policy = "bbox"

	// PolicyExact uses SegmentsCross.
	PolicyExact Policy = "exact"
)

// ParsePolicy maps a configuration string to a Policy. The empty string
// selects PolicyBoundingBox.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyBoundingBox:
		return PolicyBoundingBox, nil
	case PolicyExact:
		return PolicyExact, nil
	}
	return "", fmt.Errorf("unknown intersection policy %q (want %q or %q)", s, PolicyBoundingBox, PolicyExact)
}

// Intersects applies the policy to two segments.
func (p Policy) Intersects(seg1, seg2 Segment) bool {
	if p == PolicyExact {
		return SegmentsCross(seg1, seg2)
	}
	return SegmentsIntersect(seg1, seg2)
}
