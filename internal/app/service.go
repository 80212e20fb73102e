// Package service wires the roster, analyzer, scoring engine, cache,
// shortlist and worker pool behind the operations exposed by the HTTP API
// and the MCP server.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/barcarate/internal/adapters/cache"
	"github.com/okian/barcarate/internal/adapters/mq/queue"
	"github.com/okian/barcarate/internal/adapters/mq/worker"
	"github.com/okian/barcarate/internal/adapters/repository"
	"github.com/okian/barcarate/internal/adapters/roster"
	"github.com/okian/barcarate/internal/domain/model"
	"github.com/okian/barcarate/internal/domain/scoring"
	"github.com/okian/barcarate/internal/domain/squad"
	"github.com/okian/barcarate/internal/domain/types"
	"github.com/okian/barcarate/pkg/logger"
	"github.com/okian/barcarate/pkg/metrics"
)

const (
	tracerName = "github.com/okian/barcarate/internal/app"

	defaultQueueSize     = 10_000
	defaultCacheTTL      = 10 * time.Minute
	defaultAnalysisTTL   = time.Minute
	defaultSubmissionTTL = time.Hour

	defaultSubmissionEntries = 100_000
)

type analysisEntry struct {
	version string
	report  squad.Report
	expires time.Time
}

// Service implements the API dependencies for transfer evaluation.
type Service struct {
	mu sync.RWMutex

	// Core components
	roster      atomic.Pointer[model.Roster]
	pool        *roster.Pool
	analyzer    *squad.Analyzer
	engine      *scoring.Engine
	cache       cache.Cache
	submissions cache.Cache
	shortlist   *repository.TreapStore
	queue       queue.Queue
	workers     *worker.Pool
	analysis    atomic.Pointer[analysisEntry]

	// Configuration
	workerCount   int
	queueSize     int
	rosterFile    string
	poolFile      string
	cacheCfg      cache.Config
	cacheTTL      time.Duration
	analysisTTL   time.Duration
	submissionTTL time.Duration
	thresholds    *squad.Thresholds
	scoreCap      float64
	now           func() time.Time

	// State
	started bool
	stopped bool

	logger logger.Logger
}

// New loads the roster and the candidate pool, builds the cache, the
// shortlist and the worker pool. Workers run after Start.
func New(ctx context.Context, opts ...Option) (*Service, error) {
	s := &Service{
		workerCount:   runtime.NumCPU() * 2,
		queueSize:     defaultQueueSize,
		cacheTTL:      defaultCacheTTL,
		analysisTTL:   defaultAnalysisTTL,
		submissionTTL: defaultSubmissionTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	var aopts []squad.Option
	if s.thresholds != nil {
		aopts = append(aopts, squad.WithThresholds(*s.thresholds))
	}
	s.analyzer = squad.NewAnalyzer(aopts...)

	var eopts []scoring.Option
	if s.scoreCap > 0 {
		eopts = append(eopts, scoring.WithCap(s.scoreCap))
	}
	s.engine = scoring.NewEngine(eopts...)

	if s.roster.Load() == nil {
		r, err := roster.LoadSquad(ctx, s.rosterFile)
		if err != nil {
			return nil, err
		}
		s.roster.Store(r)
	}
	if s.pool == nil {
		p, err := roster.LoadPool(ctx, s.poolFile)
		if err != nil {
			return nil, err
		}
		s.pool = p
	}
	if s.cache == nil {
		c, err := cache.New(ctx, s.cacheCfg)
		if err != nil {
			return nil, fmt.Errorf("build cache: %w", err)
		}
		s.cache = c
	}
	if s.submissions == nil {
		s.submissions = s.newSubmissionStore()
	}

	s.shortlist = repository.NewTreapStore(ctx, repository.WithRosterVersion(s.roster.Load().Version()))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.workers = worker.NewPool(s.workerCount, s.queue, s, s.shortlist, worker.WithReporter(s))

	metrics.UpdateRosterPlayers(s.roster.Load().Len())
	return s, nil
}

// Start launches the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}
	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting transfer service...")
	s.workers.Start(ctx)
	s.started = true

	r := s.roster.Load()
	s.logger.Info(ctx, "transfer service started",
		logger.Int("workers", s.workers.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.String("cache", s.cache.Backend()),
		logger.String("club", r.Club()),
		logger.String("rosterVersion", r.Version()),
	)
	return nil
}

// Stop drains the queue and releases the shortlist and the cache. A stopped
// service cannot be started again.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil
	}
	s.logger.Info(ctx, "stopping transfer service...")

	var firstErr error
	if s.started {
		if err := s.workers.Shutdown(ctx); err != nil {
			firstErr = err
		}
	} else {
		_ = s.queue.Close()
	}
	_ = s.shortlist.Close()
	if err := s.cache.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close cache: %w", err)
	}
	if s.submissions != s.cache {
		if err := s.submissions.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close submission store: %w", err)
		}
	}

	s.started = false
	s.stopped = true
	s.logger.Info(ctx, "transfer service stopped")
	return firstErr
}

// newSubmissionStore keeps submission markers apart from evaluations so that
// evaluation churn never evicts them. Redis keys are namespaced and share the
// evaluation client.
func (s *Service) newSubmissionStore() cache.Cache {
	if s.cache.Backend() == cache.BackendRedis {
		return s.cache
	}
	return cache.NewMemory(cache.WithMaxEntries(max(defaultSubmissionEntries, s.queueSize)))
}

// Roster returns the current roster snapshot.
func (s *Service) Roster() *model.Roster {
	return s.roster.Load()
}

// Pool returns the candidate pool.
func (s *Service) Pool() *roster.Pool {
	return s.pool
}

// ReplaceRoster swaps in r. Cached analyses and evaluations are keyed by
// roster version and stop matching. The shortlist is cleared before the swap,
// so evaluations still running against the old roster cannot land on it.
func (s *Service) ReplaceRoster(ctx context.Context, r *model.Roster) error {
	if r == nil {
		return ErrNoRoster
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shortlist.Reset(ctx, r.Version())
	old := s.roster.Swap(r)
	s.analysis.Store(nil)
	metrics.UpdateRosterPlayers(r.Len())

	fields := []logger.Field{logger.String("version", r.Version()), logger.Int("players", r.Len())}
	if old != nil {
		fields = append(fields, logger.String("previous", old.Version()))
	}
	s.logger.Info(ctx, "roster replaced", fields...)
	return nil
}

// Lookup finds a candidate in the pool by name.
func (s *Service) Lookup(_ context.Context, name string) (model.Player, error) {
	return s.pool.Find(name)
}

// Search looks up the candidate pool.
func (s *Service) Search(ctx context.Context, f roster.Filter) []model.Player {
	return s.pool.Search(ctx, f)
}

// Shortlist returns the top n shortlisted candidates.
func (s *Service) Shortlist(ctx context.Context, n int) ([]types.Entry, error) {
	entries, err := s.shortlist.TopN(ctx, n)
	if err != nil {
		return nil, err
	}
	out := make([]types.Entry, len(entries))
	for i, e := range entries {
		out[i] = toEntry(e)
	}
	return out, nil
}

// Rank returns the shortlist position of one candidate.
func (s *Service) Rank(ctx context.Context, name string) (types.Entry, error) {
	e, err := s.shortlist.Rank(ctx, name)
	if err != nil {
		return types.Entry{}, err
	}
	return toEntry(e), nil
}

func toEntry(e repository.Entry) types.Entry {
	return types.Entry{
		Rank:           e.Rank,
		Name:           e.Name,
		FinalRating:    e.FinalRating,
		Position:       e.Position,
		Team:           e.Team,
		Recommendation: e.Recommendation,
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	r := s.roster.Load()
	stats := map[string]interface{}{
		"started":       s.started,
		"workerCount":   s.workers.Size(),
		"queueSize":     s.queueSize,
		"cacheBackend":  s.cache.Backend(),
		"club":          r.Club(),
		"rosterVersion": r.Version(),
		"rosterPlayers": r.Len(),
		"poolPlayers":   s.pool.Len(),
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		shortlisted := s.shortlist.Count(ctx)

		stats["queueLength"] = queueLen
		stats["shortlisted"] = shortlisted
		stats["cacheEntries"] = s.cache.Size(ctx)

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateShortlistSize(shortlisted)
	}
	return stats
}
