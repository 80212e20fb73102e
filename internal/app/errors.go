package service

import (
	"errors"
	"fmt"

	"github.com/okian/barcarate/internal/adapters/mq/queue"
	"github.com/okian/barcarate/internal/domain/types"
)

// Sentinel errors returned by the service. Submission refusals wrap the
// queue kinds so transports can map them uniformly.
var (
	ErrNotStarted         = fmt.Errorf("service not started: %w", queue.ErrClosed)
	ErrStopped            = errors.New("service stopped")
	ErrSubmissionNotFound = types.ErrSubmissionNotFound
	ErrNoRoster           = errors.New("no roster loaded")
)
