package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/barcarate/internal/adapters/repository"
	"github.com/okian/barcarate/internal/domain/model"
	"github.com/okian/barcarate/internal/domain/scoring"
	"github.com/okian/barcarate/pkg/logger"
	"github.com/okian/barcarate/pkg/metrics"
)

const defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()

// Evaluator scores a candidate against the current squad.
type Evaluator interface {
	Evaluate(ctx context.Context, candidate model.Player) (scoring.Breakdown, error)
}

// Updater records an evaluation on the shortlist.
type Updater interface {
	UpdateBest(ctx context.Context, c repository.Candidate) (bool, error)
}

// Reporter is told how each submission ended. err is nil on success.
type Reporter interface {
	Report(ctx context.Context, s model.Submission, b *scoring.Breakdown, err error)
}

// Queue is the consumer side of the submission queue.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Submission
}

// Worker consumes submissions until stopped.
type Worker interface {
	Run(ctx context.Context)
	Shutdown(ctx context.Context) error
}

type nopReporter struct{}

func (nopReporter) Report(context.Context, model.Submission, *scoring.Breakdown, error) {}

// InMemoryWorker evaluates submissions from a queue one at a time.
type InMemoryWorker struct {
	queue     Queue
	evaluator Evaluator
	updater   Updater
	reporter  Reporter
	name      string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker with configuration options.
func NewInMemoryWorker(q Queue, e Evaluator, u Updater, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		evaluator: e,
		updater:   u,
		reporter:  nopReporter{},
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run processes submissions until the queue drains, ctx ends or Shutdown.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	ch := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case s, ok := <-ch:
			if !ok {
				return
			}
			if err := w.process(ctx, s); err != nil {
				w.logger.Warn(ctx, "submission failed",
					logger.String("submission_id", s.ID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown closes the queue and waits for the worker to drain it. When ctx
// ends first the worker stops after its current submission.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	if closer, ok := w.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			w.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.shutdownOnce.Do(func() { close(w.shutdown) })
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, s model.Submission) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	b, err := w.evaluator.Evaluate(ctx, s.Candidate)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", errorType(err))
		w.reporter.Report(ctx, s, nil, err)
		return fmt.Errorf("evaluate %s: %w", s.ID, err)
	}

	_, err = w.updater.UpdateBest(ctx, repository.Candidate{
		Name:           b.Candidate.Name,
		FinalRating:    b.FinalRating,
		Position:       string(b.Candidate.Position),
		Team:           b.Candidate.Team,
		Recommendation: b.Recommendation,
		SubmissionID:   s.ID,
		RosterVersion:  b.RosterVersion,
	})
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "shortlist_error")
		metrics.RecordErrorByType("shortlist_error", "high")
		w.reporter.Report(ctx, s, &b, err)
		return fmt.Errorf("shortlist update for %s: %w", s.ID, err)
	}

	w.reporter.Report(ctx, s, &b, nil)
	w.logger.Debug(ctx, "submission evaluated",
		logger.String("submission_id", s.ID),
		logger.String("player", b.Candidate.Name),
		logger.Float64("final_rating", b.FinalRating),
	)
	return nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, scoring.ErrExistingPlayer):
		return "existing_player"
	case errors.Is(err, model.ErrInvalidCandidate):
		return "invalid_candidate"
	case errors.Is(err, repository.ErrStaleRoster):
		return "stale_roster"
	default:
		return "evaluation_error"
	}
}

// Pool runs a fixed set of workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool builds workerCount workers; a count below one scales with CPUs.
func NewPool(workerCount int, q Queue, e Evaluator, u Updater, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(q, e, u, wopts...)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateWorkerActiveCount(len(p.workers))
}

// Shutdown closes the queue and lets workers drain it. Workers still busy
// when ctx ends are stopped after their current submission.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
		}
		if timedOut {
			break
		}
	}
	for _, w := range p.workers {
		w.shutdownOnce.Do(func() { close(w.shutdown) })
	}
	metrics.UpdateWorkerActiveCount(0)
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", ctx.Err())
	}
	return nil
}
