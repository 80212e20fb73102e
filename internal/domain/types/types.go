// Package types contains common types used across the application
package types

import "errors"

// ErrSubmissionNotFound reports an unknown or expired submission id.
var ErrSubmissionNotFound = errors.New("submission not found")

// Entry is one row of the shortlist.
type Entry struct {
	Rank           int     `json:"rank"`
	Name           string  `json:"name"`
	FinalRating    float64 `json:"final_rating"`
	Position       string  `json:"position"`
	Team           string  `json:"team,omitempty"`
	Recommendation string  `json:"recommendation"`
}

// Submission states.
const (
	StatusQueued = "queued"
	StatusDone   = "done"
	StatusFailed = "failed"
)

// SubmissionStatus tracks one asynchronous evaluation.
type SubmissionStatus struct {
	ID             string  `json:"submission_id"`
	Status         string  `json:"status"`
	Name           string  `json:"name"`
	FinalRating    float64 `json:"final_rating,omitempty"`
	Recommendation string  `json:"recommendation,omitempty"`
	Error          string  `json:"error,omitempty"`
	Duplicate      bool    `json:"duplicate,omitempty"`
}
