package hnsw

import "errors"

var (
	// ErrDimensionMismatch is returned when a caller-supplied vector's length
	// does not match the index's declared dimension.
	ErrDimensionMismatch = errors.New("hnsw: vector dimension mismatch")

	// ErrDuplicateName is returned by Add when name is already present.
	ErrDuplicateName = errors.New("hnsw: duplicate node name")

	// ErrUnknownName is returned when a name does not resolve to any node.
	ErrUnknownName = errors.New("hnsw: unknown node name")

	// ErrInUse is returned by Delete when the caller reports outstanding
	// external references to the node (see Index.Delete).
	ErrInUse = errors.New("hnsw: node is in use")

	// ErrCorruption is returned by Reconstitute when a dump references a
	// node name that was never declared.
	ErrCorruption = errors.New("hnsw: corrupt reconstitution dump")
)
