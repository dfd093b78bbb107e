package app

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrTimeout marks a predict call that exceeded its deadline while
	// resolving inputs. Retryable by the caller, distinct from an unknown
	// team.
	ErrTimeout = errors.New("prediction timed out")
)
