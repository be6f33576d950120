package graph

import "errors"

var (
	// ErrDuplicateVertex is returned when a vertex already occupies a position.
	ErrDuplicateVertex = errors.New("graph: duplicate vertex")

	// ErrDuplicateEdge is returned when the unordered pair is already joined.
	ErrDuplicateEdge = errors.New("graph: duplicate edge")

	// ErrSelfLoop is returned for an edge whose endpoints are the same vertex.
	ErrSelfLoop = errors.New("graph: self-loop")

	// ErrUnknownVertex is returned when a vertex does not belong to the draft.
	ErrUnknownVertex = errors.New("graph: unknown vertex")

	// ErrVertexHasEdges is returned when removing a vertex that is still an
	// edge endpoint.
	ErrVertexHasEdges = errors.New("graph: vertex has incident edges")

	// ErrFrozen is returned when a draft is used after Freeze.
	ErrFrozen = errors.New("graph: draft already frozen")

	// ErrInvariant is returned by Validate.
	ErrInvariant = errors.New("graph: invariant violated")
)
