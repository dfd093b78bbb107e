package config

import "errors"

// Sentinel kinds for configuration errors, matchable via errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("config load failed")
)
