// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config filled with defaults; Load layers overrides on top.
// - Load and Validate wrap failures in ErrLoadConfig and ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/okian/barcarate/internal/adapters/cache"
	"github.com/okian/barcarate/internal/domain/model"
	"github.com/okian/barcarate/internal/domain/squad"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: json or text.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory submission queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of evaluation workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxShortlistLimit caps every limit query parameter.
	MaxShortlistLimit int `koanf:"max_shortlist_limit"`

	// AnalysisTTL bounds how long a squad analysis is reused.
	AnalysisTTL time.Duration `koanf:"analysis_ttl"`

	// RosterFile and PoolFile override the embedded YAML data when set.
	RosterFile string `koanf:"roster_file"`
	PoolFile   string `koanf:"pool_file"`

	Cache      CacheConfig      `koanf:"cache"`
	CORS       CORSConfig       `koanf:"cors"`
	Tracing    TracingConfig    `koanf:"tracing"`
	Scoring    ScoringConfig    `koanf:"scoring"`
	Thresholds squad.Thresholds `koanf:"thresholds"`
}

// CacheConfig selects and sizes the evaluation cache.
type CacheConfig struct {
	Backend       string        `koanf:"backend"`
	TTL           time.Duration `koanf:"ttl"`
	MaxEntries    int           `koanf:"max_entries"`
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
}

// Factory returns the cache factory configuration.
func (c CacheConfig) Factory() cache.Config {
	return cache.Config{
		Backend:       c.Backend,
		MaxEntries:    c.MaxEntries,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
	}
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// TracingConfig controls the OpenTelemetry tracer provider.
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	SampleRatio float64 `koanf:"sample_ratio"`
}

// ScoringConfig tunes the scoring engine.
type ScoringConfig struct {
	ScoreCap float64 `koanf:"score_cap"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "json",
		Addr:              ":9080",
		QueueSize:         10_000,
		WorkerCount:       runtime.NumCPU() * 2,
		MaxShortlistLimit: 100,
		AnalysisTTL:       time.Minute,
		Cache: CacheConfig{
			Backend:    cache.BackendMemory,
			TTL:        10 * time.Minute,
			MaxEntries: 10_000,
			RedisAddr:  "localhost:6379",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Tracing: TracingConfig{
			Enabled:     true,
			SampleRatio: 1.0,
		},
		Scoring: ScoringConfig{
			ScoreCap: 9.5,
		},
		Thresholds: squad.DefaultThresholds(),
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.MaxShortlistLimit < 1:
		return fmt.Errorf("%w: max_shortlist_limit must be positive, got %d", ErrInvalidConfig, c.MaxShortlistLimit)
	case c.AnalysisTTL < 0:
		return fmt.Errorf("%w: analysis_ttl must not be negative", ErrInvalidConfig)
	case c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1:
		return fmt.Errorf("%w: tracing.sample_ratio must be in [0, 1], got %v", ErrInvalidConfig, c.Tracing.SampleRatio)
	case c.Scoring.ScoreCap <= 1 || c.Scoring.ScoreCap > 10:
		return fmt.Errorf("%w: scoring.score_cap must be in (1, 10], got %v", ErrInvalidConfig, c.Scoring.ScoreCap)
	}

	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}

	switch strings.ToLower(c.Cache.Backend) {
	case cache.BackendMemory:
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("%w: cache.redis_addr is required for the redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown cache.backend %q", ErrInvalidConfig, c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("%w: cache.ttl must be positive", ErrInvalidConfig)
	}
	for pos, age := range c.Thresholds.Succession {
		if !pos.Valid() {
			return fmt.Errorf("%w: thresholds.succession: unknown position %q", ErrInvalidConfig, pos)
		}
		if age < 1 {
			return fmt.Errorf("%w: thresholds.succession.%s must be positive, got %d", ErrInvalidConfig, pos, age)
		}
	}
	return nil
}

// mergeSuccession applies per-position succession ages over t. Keys are
// position codes in any case.
func mergeSuccession(t *squad.Thresholds, overrides map[string]int) error {
	if len(overrides) == 0 {
		return nil
	}
	merged := make(map[model.Position]int, len(t.Succession)+len(overrides))
	for pos, age := range t.Succession {
		merged[pos] = age
	}
	for key, age := range overrides {
		pos, err := model.ParsePosition(key)
		if err != nil {
			return fmt.Errorf("%w: thresholds.succession: %w", ErrInvalidConfig, err)
		}
		merged[pos] = age
	}
	t.Succession = merged
	return nil
}
