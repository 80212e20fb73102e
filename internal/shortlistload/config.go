package shortlistload

import (
	"time"

	"github.com/okian/barcarate/internal/domain/types"
)

// Config holds configuration for the load run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Candidates int           // Number of submissions to send
	TopN       int           // Number of shortlist entries to fetch
	Workers    int           // Number of concurrent requests
	Timeout    time.Duration // HTTP request timeout
	Wait       time.Duration // Upper bound on waiting for the queue to drain
	PoolFile   string        // Candidate pool override; empty uses the embedded pool
	OutputFile string        // Output file for submissions
	LogFile    string        // Log file for run output
	Verbose    bool          // Enable verbose logging
}

// Submission is one candidate sent to POST /candidates.
type Submission struct {
	SubmissionID string  `json:"submission_id"`
	Name         string  `json:"name"`
	Status       string  `json:"status,omitempty"`
	FinalRating  float64 `json:"final_rating,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// Entry is a shortlist row.
type Entry = types.Entry

// AckResponse represents the response from a submission.
type AckResponse struct {
	Status       string `json:"status"`
	Duplicate    bool   `json:"duplicate"`
	SubmissionID string `json:"submission_id"`
}

// Stats holds run statistics.
type Stats struct {
	Generated        int
	Submitted        int
	Accepted         int
	Duplicate        int
	Rejected         int
	Done             int
	Failed           int
	Pending          int
	RanksRetrieved   int
	ShortlistEntries int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
