// Package repository keeps the shortlist of evaluated candidates ranked by
// final rating.
package repository

import "context"

// Candidate is what the shortlist records for an evaluation.
type Candidate struct {
	Name           string
	FinalRating    float64
	Position       string
	Team           string
	Recommendation string
	SubmissionID   string
	// RosterVersion is the squad the candidate was scored against. Empty
	// skips the staleness check.
	RosterVersion string
}

// Entry is a ranked shortlist row.
type Entry struct {
	Rank int
	Candidate
}

// Store provides read/write access to the shortlist.
type Store interface {
	// UpdateBest records c if its player is new or c rates higher than the
	// stored evaluation. Players are keyed by folded name. Candidates scored
	// against another roster version fail with ErrStaleRoster.
	UpdateBest(ctx context.Context, c Candidate) (bool, error)

	// Rank returns the current rank of a player.
	// Returns ErrNotFound if the player is unknown.
	Rank(ctx context.Context, name string) (Entry, error)

	// TopN returns the top-N entries by final rating desc, then name asc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Reset drops every entry and accepts only candidates scored against
	// rosterVersion from now on.
	Reset(ctx context.Context, rosterVersion string)

	// Count returns the number of players on the shortlist.
	Count(ctx context.Context) int
}
