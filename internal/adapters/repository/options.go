package repository

import "time"

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *TreapStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

// WithRosterVersion sets the roster version candidates must be scored
// against. Empty accepts any.
func WithRosterVersion(version string) Option {
	return func(s *TreapStore) { s.rosterVersion = version }
}

// WithKeyFunc replaces the identity function used to key players.
func WithKeyFunc(key func(string) string) Option {
	return func(s *TreapStore) {
		if key != nil {
			s.key = key
		}
	}
}
