package registry

import "errors"

// Sentinel kinds for registry errors.
var (
	// ErrNotFound means no model has been published for the league. This is
	// a normal serve-time condition, not a fault.
	ErrNotFound = errors.New("no model published for league")
)
