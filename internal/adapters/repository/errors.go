package repository

import "errors"

// Sentinel kinds for shortlist errors.
var (
	ErrNotFound     = errors.New("player not on shortlist")
	ErrInvalidLimit = errors.New("invalid shortlist limit")
	ErrInvalidEntry = errors.New("invalid shortlist entry")
	ErrStaleRoster  = errors.New("scored against a replaced roster")
)
