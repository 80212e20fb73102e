package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/okian/barcarate/internal/adapters/cache"
	"github.com/okian/barcarate/internal/domain/model"
	"github.com/okian/barcarate/internal/domain/scoring"
	"github.com/okian/barcarate/internal/domain/types"
	"github.com/okian/barcarate/pkg/logger"
	"github.com/okian/barcarate/pkg/metrics"
)

func submissionKey(id string) string { return "submission:" + id }

// Submit queues a candidate for asynchronous evaluation. A missing id is
// generated. Resubmitting a known id is a no-op reported as Duplicate. When
// the queue is full the submission is forgotten and queue.ErrFull returned.
func (s *Service) Submit(ctx context.Context, sub model.Submission) (types.SubmissionStatus, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return types.SubmissionStatus{}, ErrNotStarted
	}

	c, err := sub.Candidate.Normalize()
	if err != nil {
		metrics.RecordSubmission("invalid")
		return types.SubmissionStatus{}, err
	}
	sub.Candidate = c
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.ReceivedAt.IsZero() {
		sub.ReceivedAt = s.now()
	}

	st := types.SubmissionStatus{ID: sub.ID, Status: types.StatusQueued, Name: c.Name}
	marker, err := json.Marshal(st)
	if err != nil {
		return types.SubmissionStatus{}, fmt.Errorf("encode submission %s: %w", sub.ID, err)
	}

	key := submissionKey(sub.ID)
	fresh, err := s.submissions.SetNX(ctx, key, marker, s.submissionTTL)
	if err != nil {
		metrics.RecordSubmission("error")
		return types.SubmissionStatus{}, fmt.Errorf("record submission %s: %w", sub.ID, err)
	}
	if !fresh {
		metrics.RecordSubmission("duplicate")
		prev, err := s.SubmissionStatus(ctx, sub.ID)
		if err != nil {
			prev = st
		}
		prev.Duplicate = true
		return prev, nil
	}

	if err := s.queue.Enqueue(ctx, sub); err != nil {
		if derr := s.submissions.Delete(ctx, key); derr != nil {
			s.logger.Warn(ctx, "failed to forget rejected submission",
				logger.String("submission_id", sub.ID), logger.Error(derr))
		}
		metrics.RecordSubmission("rejected")
		return types.SubmissionStatus{}, err
	}

	metrics.RecordSubmission("accepted")
	s.logger.Debug(ctx, "submission queued",
		logger.String("submission_id", sub.ID),
		logger.String("player", c.Name),
	)
	return st, nil
}

// SubmissionStatus returns the state of a submission.
func (s *Service) SubmissionStatus(ctx context.Context, id string) (types.SubmissionStatus, error) {
	var st types.SubmissionStatus
	ok, err := cache.GetJSON(ctx, s.submissions, submissionKey(id), &st)
	if err != nil {
		return types.SubmissionStatus{}, err
	}
	if !ok {
		return types.SubmissionStatus{}, fmt.Errorf("%w: %s", ErrSubmissionNotFound, id)
	}
	return st, nil
}

// Report records how a submission ended. It is called by the workers.
func (s *Service) Report(ctx context.Context, sub model.Submission, b *scoring.Breakdown, err error) {
	st := types.SubmissionStatus{ID: sub.ID, Status: types.StatusDone, Name: sub.Candidate.Name}
	if b != nil {
		st.FinalRating = b.FinalRating
		st.Recommendation = b.Recommendation
	}
	if err != nil {
		st.Status = types.StatusFailed
		st.Error = err.Error()
	}
	if werr := cache.SetJSON(ctx, s.submissions, submissionKey(sub.ID), st, s.submissionTTL); werr != nil {
		s.logger.Warn(ctx, "failed to record submission outcome",
			logger.String("submission_id", sub.ID), logger.Error(werr))
	}
}
