package shortlistload

import "time"

// Runner configuration constants.
const (
	pollInterval         = 250 * time.Millisecond
	percentageMultiplier = 100
	topPerformers        = 10
)

// Submission outcomes.
const (
	outcomeAccepted  = "accepted"
	outcomeDuplicate = "duplicate"
	outcomeRejected  = "rejected"
)
