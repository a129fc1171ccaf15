// Package popularity tracks how often each pattern is requested.
package popularity

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hobbyloop/skein/pkg/metrics"
)

// Treap-based, in-memory Tracker implementation.
//
// Ordering: hits DESC, then pattern name ASC (deterministic). The BST
// comparator's "less" means ranks earlier, so in-order traversal yields
// the tally from most to least requested.

// Default tracker configuration constants.
const (
	defaultSnapshotInterval      = 1 * time.Second
	defaultTopCacheSize          = 100
	defaultMetricsUpdateInterval = 5 * time.Second
)

// record stores the tally plus metadata for one pattern.
type record struct {
	hits     int64
	blended  int64
	lastSeen time.Time
}

// Snapshot represents an immutable snapshot of the tracker state.
type Snapshot struct {
	// Rank and hits in O(1) for reads
	RankByPattern map[string]int
	HitsByPattern map[string]int64

	// Fast Top-K cache, sorted descending
	TopCache []Entry
}

// treap node
type node struct {
	name  string
	hits  int64
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aHits, aName) should appear before (bHits, bName)
// in the tally (more requested ranks earlier).
func less(aHits int64, aName string, bHits int64, bName string) bool {
	if aHits != bHits {
		return aHits > bHits // more hits ranks earlier
	}
	return aName < bName // tie-breaker by name asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// hitsToPriority keeps frequently requested patterns near the root, so
// bumping a hot pattern and collecting the top entries touch few nodes.
func hitsToPriority(hits int64) uint64 {
	return uint64(hits)
}

func insert(n *node, name string, hits int64) *node {
	if n == nil {
		return &node{name: name, hits: hits, prio: hitsToPriority(hits), size: 1}
	}
	if less(hits, name, n.hits, n.name) {
		n.left = insert(n.left, name, hits)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, name, hits)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, name string, hits int64) *node {
	if n == nil {
		return nil
	}
	if hits == n.hits && name == n.name {
		// Merge children by rotating highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, name, hits)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, name, hits)
		}
	} else if less(hits, name, n.hits, n.name) {
		n.left = deleteNode(n.left, name, hits)
	} else {
		n.right = deleteNode(n.right, name, hits)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit entries in rank order (most hits first).
// The BST ordering already handles tie-breaking (name ASC), so an in-order
// traversal with an early stop is sufficient.
func collectTopN(n *node, limit int, records map[string]record, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}

	collectTopN(n.left, limit, records, out)

	if len(*out) < limit {
		if rec, exists := records[n.name]; exists {
			*out = append(*out, Entry{
				Pattern:  n.name,
				Hits:     rec.hits,
				Blended:  rec.blended,
				LastSeen: rec.lastSeen,
			})
		}
	}

	if len(*out) < limit {
		collectTopN(n.right, limit, records, out)
	}
}

// TreapTracker is the treap-backed Tracker used in production.
type TreapTracker struct {
	mu                    sync.RWMutex
	root                  *node
	byName                map[string]record
	snapshotInterval      time.Duration // how often to publish a snapshot
	topCacheSize          int           // entries cached per snapshot
	metricsUpdateInterval time.Duration

	// snapshot is an atomic pointer to the latest published Snapshot
	snapshot atomic.Pointer[Snapshot]

	// Periodic snapshot management
	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewTreapTracker constructs a treap tracker with configuration options.
func NewTreapTracker(ctx context.Context, opts ...Option) *TreapTracker {
	t := &TreapTracker{
		snapshotInterval:      defaultSnapshotInterval,
		topCacheSize:          defaultTopCacheSize,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		byName:                make(map[string]record),
	}

	for _, opt := range opts {
		opt(t)
	}

	t.stopChan = make(chan struct{})
	t.startPeriodicSnapshots(ctx)
	t.startMetricsUpdater(ctx)

	metrics.UpdateTrackedPatterns(0)

	return t
}

// startPeriodicSnapshots starts a background goroutine that publishes
// snapshots at the configured interval.
func (t *TreapTracker) startPeriodicSnapshots(ctx context.Context) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ticker := time.NewTicker(t.snapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.stopChan:
				return
			case <-ticker.C:
				t.publishSnapshot()
			}
		}
	}()
}

// publishSnapshot rebuilds and publishes a new snapshot.
func (t *TreapTracker) publishSnapshot() {
	start := time.Now()
	t.mu.RLock()
	t.publishSnapshotInternal()
	t.mu.RUnlock()

	ms := float64(time.Since(start).Milliseconds())
	metrics.RecordPopularitySnapshotRebuildDuration(ms)
	metrics.IncrementPopularitySnapshotCount()
}

// publishSnapshotInternal rebuilds and publishes a new snapshot (assumes
// the lock is held).
func (t *TreapTracker) publishSnapshotInternal() {
	topCache := make([]Entry, 0, t.topCacheSize)
	collectTopN(t.root, t.topCacheSize, t.byName, &topCache)

	rankByPattern := make(map[string]int, len(t.byName))
	hitsByPattern := make(map[string]int64, len(t.byName))

	allEntries := make([]Entry, 0, len(t.byName))
	collectAll(t.root, t.byName, &allEntries)
	assignRanksWithTies(allEntries)

	for _, entry := range allEntries {
		rankByPattern[entry.Pattern] = entry.Rank
		hitsByPattern[entry.Pattern] = entry.Hits
	}

	for i := range topCache {
		if rank, exists := rankByPattern[topCache[i].Pattern]; exists {
			topCache[i].Rank = rank
		}
	}

	t.snapshot.Store(&Snapshot{
		RankByPattern: rankByPattern,
		HitsByPattern: hitsByPattern,
		TopCache:      topCache,
	})
}

// Snapshot returns the most recently published snapshot, or nil when none
// has been published yet.
func (t *TreapTracker) Snapshot() *Snapshot {
	return t.snapshot.Load()
}

// Close gracefully shuts down the background goroutines.
func (t *TreapTracker) Close() error {
	select {
	case <-t.stopChan:
		// already closed
	default:
		close(t.stopChan)
	}
	t.wg.Wait()
	return nil
}

// Bump implements Tracker.Bump with O(log n) expected time on balanced
// input and O(depth) on the hot prefix.
func (t *TreapTracker) Bump(ctx context.Context, pattern string, at time.Time, blended bool) int64 {
	t.mu.Lock()
	rec, known := t.byName[pattern]
	if known {
		t.root = deleteNode(t.root, pattern, rec.hits)
	}
	rec.hits++
	if blended {
		rec.blended++
	}
	if at.After(rec.lastSeen) {
		rec.lastSeen = at
	}
	t.byName[pattern] = rec
	t.root = insert(t.root, pattern, rec.hits)
	hits := rec.hits
	tracked := len(t.byName)
	t.mu.Unlock()

	if !known {
		metrics.UpdateTrackedPatterns(tracked)
	}
	return hits
}

// Rank returns the current rank and tally for a pattern.
func (t *TreapTracker) Rank(ctx context.Context, pattern string) (Entry, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if _, ok := t.byName[pattern]; !ok {
		metrics.RecordErrorByComponent("popularity", "not_found")
		return Entry{}, ErrNotFound
	}

	allEntries := make([]Entry, 0, len(t.byName))
	collectAll(t.root, t.byName, &allEntries)
	sortEntries(allEntries)
	assignRanksWithTies(allEntries)

	for _, entry := range allEntries {
		if entry.Pattern == pattern {
			return entry, nil
		}
	}

	return Entry{}, ErrNotFound
}

// TopN returns the top N entries ordered by hits desc.
func (t *TreapTracker) TopN(ctx context.Context, n int) ([]Entry, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("popularity", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entry, 0, n)
	collectTopN(t.root, n, t.byName, &out)
	assignRanksWithTies(out)
	return out, nil
}

// Count returns the number of distinct patterns tracked.
func (t *TreapTracker) Count(ctx context.Context) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byName)
}

// startMetricsUpdater starts a background goroutine that refreshes tracker
// gauges at the configured interval.
func (t *TreapTracker) startMetricsUpdater(ctx context.Context) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ticker := time.NewTicker(t.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.stopChan:
				return
			case <-ticker.C:
				t.updateMetrics()
			}
		}
	}()
}

// updateMetrics refreshes tracker-related gauges.
func (t *TreapTracker) updateMetrics() {
	t.mu.RLock()
	tracked := len(t.byName)
	t.mu.RUnlock()

	metrics.UpdateTrackedPatterns(tracked)
}

// collectAll appends all entries in rank order (most hits first).
func collectAll(n *node, byName map[string]record, out *[]Entry) {
	if n == nil {
		return
	}
	collectAll(n.left, byName, out)
	if rec, ok := byName[n.name]; ok {
		*out = append(*out, Entry{
			Pattern:  n.name,
			Hits:     rec.hits,
			Blended:  rec.blended,
			LastSeen: rec.lastSeen,
		})
	}
	collectAll(n.right, byName, out)
}

// sortEntries sorts entries by hits (descending) and name (ascending) to
// match the treap ordering.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Hits != entries[j].Hits {
			return entries[i].Hits > entries[j].Hits
		}
		return entries[i].Pattern < entries[j].Pattern
	})
}

// assignRanksWithTies assigns ranks with proper tie handling. Patterns with
// the same tally share a rank, and the next distinct tally takes the next
// consecutive rank.
func assignRanksWithTies(entries []Entry) {
	if len(entries) == 0 {
		return
	}

	currentRank := 1
	for i := 0; i < len(entries); i++ {
		entries[i].Rank = currentRank

		sameHitsCount := 1
		for j := i + 1; j < len(entries) && entries[j].Hits == entries[i].Hits; j++ {
			entries[j].Rank = currentRank
			sameHitsCount++
		}

		currentRank++
		i += sameHitsCount - 1
	}
}
