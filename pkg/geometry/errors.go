package geometry

import "errors"

var (
	// ErrDegenerateTessellation is returned for resolutions that would divide
	// by zero or produce a trivial mesh.
	ErrDegenerateTessellation = errors.New("degenerate tessellation")

	// ErrDegenerateRay is returned for rays with a zero-length direction.
	ErrDegenerateRay = errors.New("degenerate ray")
)
