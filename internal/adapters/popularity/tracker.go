// Package popularity tracks how often each pattern is requested.
package popularity

import (
	"context"
	"time"
)

// Entry represents one pattern's request tally.
type Entry struct {
	Rank     int       `json:"rank"`
	Pattern  string    `json:"pattern"`
	Hits     int64     `json:"hits"`
	Blended  int64     `json:"blended"`
	LastSeen time.Time `json:"last_seen"`
}

// Tracker provides read/write access to per-pattern request tallies.
type Tracker interface {
	// Bump increments the tally for pattern and returns the new count.
	// A blended hit is one that carried a temperature context.
	Bump(ctx context.Context, pattern string, at time.Time, blended bool) int64

	// Rank returns the current rank and tally for a pattern.
	// Returns ErrNotFound if the pattern has never been requested.
	Rank(ctx context.Context, pattern string) (Entry, error)

	// TopN returns the top-N entries ordered by hits desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of distinct patterns tracked.
	Count(ctx context.Context) int
}
