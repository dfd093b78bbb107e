package repository

import "errors"

// Sentinel kinds for record store errors.
var (
	// ErrUnknownTeam means a team name or ID did not resolve within the
	// league. It is a caller error, fatal to the single request.
	ErrUnknownTeam = errors.New("unknown team")
)
