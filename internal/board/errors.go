package board

import "errors"

var (
	// ErrNoopTransition is returned when a candidate is dropped back onto the
	// stage it already occupies
	ErrNoopTransition = errors.New("candidate is already in that stage")

	// ErrNoopReorder is returned when a drag does not change the job order
	ErrNoopReorder = errors.New("job order unchanged")

	// ErrSuperseded is returned when a newer request on the same list made
	// this response stale; the response was discarded
	ErrSuperseded = errors.New("superseded by a newer request")
)
