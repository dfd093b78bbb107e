package feature

import "errors"

// Sentinel kinds for feature-building errors.
var (
	// ErrInsufficientHistory means the league has too few completed matches
	// to build a meaningful training table. Surfaced to the trainer, which
	// must abort without publishing.
	ErrInsufficientHistory = errors.New("insufficient match history")
)
