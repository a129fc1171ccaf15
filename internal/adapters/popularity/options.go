// Package popularity tracks how often each pattern is requested.
package popularity

import "time"

// Option applies a configuration option to the TreapTracker.
type Option func(*TreapTracker)

// WithSnapshotInterval sets how often the tracker publishes a snapshot.
func WithSnapshotInterval(interval time.Duration) Option {
	return func(t *TreapTracker) {
		if interval > 0 {
			t.snapshotInterval = interval
		}
	}
}

// WithTopCacheSize sets how many entries each snapshot caches.
func WithTopCacheSize(size int) Option {
	return func(t *TreapTracker) {
		if size > 0 {
			t.topCacheSize = size
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(t *TreapTracker) {
		if interval > 0 {
			t.metricsUpdateInterval = interval
		}
	}
}
