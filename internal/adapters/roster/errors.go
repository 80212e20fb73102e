package roster

import "errors"

// Sentinel kinds for roster loading and lookups.
var (
	ErrLoadRoster     = errors.New("load roster failed")
	ErrPlayerNotFound = errors.New("player not found")
)
