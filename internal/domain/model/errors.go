package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrInvalidCandidate    = errors.New("invalid candidate")
	ErrUnknownPosition     = errors.New("unknown position")
	ErrUnknownGroup        = errors.New("unknown position group")
	ErrForeignRosterMember = errors.New("roster member belongs to another club")
	ErrDuplicatePlayer     = errors.New("duplicate player in roster")
)
