package builder

import "time"

// Termination records which guard ended edge placement.
type Termination string

const (
	// TerminationNone means edge placement has not run.
	TerminationNone Termination = ""
	// TerminationConnected means every vertex became an edge endpoint.
	TerminationConnected Termination = "connected"
	// TerminationEdgeCap means the edge density cap was reached first.
	TerminationEdgeCap Termination = "edge-cap"
	// TerminationFailureCap means too many consecutive draws failed.
	TerminationFailureCap Termination = "failure-cap"
)

// Rejections counts discarded edge candidates by the check that failed.
type Rejections struct {
	Intersect int `json:"intersect"`
	Duplicate int `json:"duplicate"`
	Weight    int `json:"weight"`
	SelfLoop  int `json:"selfLoop"`
	Density   int `json:"density"`
}

// Total is the number of discarded candidates.
func (r Rejections) Total() int {
	return r.Intersect + r.Duplicate + r.Weight + r.SelfLoop + r.Density
}

// Stats describes one build.
type Stats struct {
	TargetVertices int `json:"targetVertices"`
	// Resamples counts vertex samples that landed on an occupied position.
	Resamples int `json:"resamples"`
	// Iterations counts edge candidates drawn.
	Iterations int `json:"iterations"`
	// MaxConsecutiveFailures is the longest run of non-committing draws.
	MaxConsecutiveFailures int `json:"maxConsecutiveFailures"`

	Committed   int           `json:"committed"`
	Rejected    Rejections    `json:"rejected"`
	Termination Termination   `json:"termination"`
	Pruned      int           `json:"pruned"`
	Vertices    int           `json:"vertices"`
	Edges       int           `json:"edges"`
	Components  int           `json:"components"`
	Duration    time.Duration `json:"duration"`
}
