package model

import "time"

// Submission is a candidate queued for asynchronous evaluation.
type Submission struct {
	ID         string    `json:"submission_id"`
	Candidate  Player    `json:"candidate"`
	ReceivedAt time.Time `json:"received_at"`
}
