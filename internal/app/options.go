package service

import (
	"time"

	"github.com/okian/barcarate/internal/adapters/cache"
	"github.com/okian/barcarate/internal/adapters/roster"
	"github.com/okian/barcarate/internal/domain/model"
	"github.com/okian/barcarate/internal/domain/squad"
	"github.com/okian/barcarate/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the submission queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRoster uses r instead of loading the squad file.
func WithRoster(r *model.Roster) Option {
	return func(s *Service) {
		if r != nil {
			s.roster.Store(r)
		}
	}
}

// WithRosterFile loads the squad from a YAML file instead of the bundled one.
func WithRosterFile(path string) Option {
	return func(s *Service) { s.rosterFile = path }
}

// WithPool uses p as the candidate pool.
func WithPool(p *roster.Pool) Option {
	return func(s *Service) {
		if p != nil {
			s.pool = p
		}
	}
}

// WithPoolFile loads the candidate pool from a YAML file.
func WithPoolFile(path string) Option {
	return func(s *Service) { s.poolFile = path }
}

// WithCache uses c for evaluations. The service closes it on Stop.
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithSubmissionStore uses c for submission markers. The service closes it
// on Stop unless it is also the evaluation cache.
func WithSubmissionStore(c cache.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.submissions = c
		}
	}
}

// WithCacheConfig selects the cache backend built by New.
func WithCacheConfig(cfg cache.Config) Option {
	return func(s *Service) { s.cacheCfg = cfg }
}

// WithCacheTTL sets how long evaluations stay cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithAnalysisTTL sets how long a squad report is reused.
func WithAnalysisTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.analysisTTL = ttl
		}
	}
}

// WithThresholds overrides the analyzer thresholds.
func WithThresholds(t squad.Thresholds) Option {
	return func(s *Service) { s.thresholds = &t }
}

// WithScoreCap overrides the upper bound of the final rating.
func WithScoreCap(ceil float64) Option {
	return func(s *Service) {
		if ceil > 0 {
			s.scoreCap = ceil
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
