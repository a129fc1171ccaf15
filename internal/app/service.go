// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hobbyloop/skein/internal/adapters/catalog"
	hitqueue "github.com/hobbyloop/skein/internal/adapters/mq/queue"
	workerpool "github.com/hobbyloop/skein/internal/adapters/mq/worker"
	"github.com/hobbyloop/skein/internal/adapters/popularity"
	"github.com/hobbyloop/skein/internal/climate"
	"github.com/hobbyloop/skein/internal/domain/model"
	"github.com/hobbyloop/skein/internal/domain/normalize"
	"github.com/hobbyloop/skein/internal/domain/rank"
	"github.com/hobbyloop/skein/internal/domain/scoring"
	"github.com/hobbyloop/skein/internal/domain/types"
	"github.com/hobbyloop/skein/pkg/logger"
	"github.com/hobbyloop/skein/pkg/metrics"
)

// Default popularity pipeline configuration.
const (
	defaultHitWorkers   = 2
	defaultHitQueueSize = 4096
	statsTopPatterns    = 10
	pipelineStopTimeout = 5 * time.Second
)

// Service wires the catalog, the ranker and the climate table behind
// the API dependencies.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    *catalog.Store
	ranker   *rank.Ranker
	climates *climate.Lookup

	// Popularity pipeline
	tracker  *popularity.TreapTracker
	hitQueue *hitqueue.InMemoryQueue
	hitPool  *workerpool.Pool

	// Configuration
	source       catalog.Source
	topN         int
	scoreWorkers int
	blendFactor  float64
	hitWorkers   int
	hitQueueSize int
	locations    map[string]climate.SeasonTemps

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the catalog source the service loads on Start.
func WithSource(src catalog.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithTopN sets how many matches a recommendation returns by default.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithScoreWorkers bounds the scoring fan-out. 0 sizes the pool from
// GOMAXPROCS; 1 scores serially.
func WithScoreWorkers(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.scoreWorkers = n
		}
	}
}

// WithBlendFactor sets the base-score weight used when blending with
// the temperature score.
func WithBlendFactor(f float64) Option {
	return func(s *Service) {
		if f > 0 && f <= 1 {
			s.blendFactor = f
		}
	}
}

// WithLocations adds or overrides rows of the climate table.
func WithLocations(locations map[string]climate.SeasonTemps) Option {
	return func(s *Service) {
		s.locations = locations
	}
}

// WithHitWorkers sets how many workers drain the hit queue.
func WithHitWorkers(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.hitWorkers = count
		}
	}
}

// WithHitQueueSize sets the capacity of the hit queue.
func WithHitQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.hitQueueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		topN:         rank.DefaultTopN,
		scoreWorkers: 0,
		blendFactor:  0.7,
		hitWorkers:   defaultHitWorkers,
		hitQueueSize: defaultHitQueueSize,
		logger:       nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the components and loads the catalog.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}

	s.logger.Info(ctx, "starting recommendation service...")

	if s.source == nil {
		return fmt.Errorf("no catalog source configured")
	}

	climateOpts := make([]climate.Option, 0, len(s.locations))
	for name, temps := range s.locations {
		climateOpts = append(climateOpts, climate.WithLocation(name, temps))
	}
	s.climates = climate.New(climateOpts...)

	s.ranker = rank.New(
		rank.WithScorer(scoring.NewCriteriaScorer(scoring.WithBlendFactor(s.blendFactor))),
		rank.WithWorkers(s.scoreWorkers),
		rank.WithTopN(s.topN),
	)

	s.store = catalog.NewStore()
	snap, err := s.store.Load(ctx, s.source)
	if err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	// Start the popularity pipeline once the catalog is in place so a
	// failed Start leaves no background work behind.
	s.tracker = popularity.NewTreapTracker(ctx)
	s.hitQueue = hitqueue.NewInMemoryQueue(
		hitqueue.WithCapacity(s.hitQueueSize),
		hitqueue.WithBufferSize(s.hitQueueSize),
	)
	s.hitPool = workerpool.NewPool(s.hitWorkers, s.hitQueue, s.tracker)
	s.hitPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "recommendation service started",
		logger.String("source", s.source.Kind()),
		logger.Int("patterns", len(snap.Patterns())),
		logger.Int("yarns", len(snap.Yarns())),
		logger.Int("scoreWorkers", s.scoreWorkers),
		logger.Int("topN", s.topN),
		logger.Int("hitWorkers", s.hitWorkers),
		logger.Int("hitQueueSize", s.hitQueueSize),
	)

	return nil
}

// Stop shuts the service down. Queued hits are drained before the
// workers exit; rankings in flight finish on their own.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping recommendation service...")

	// Drain the hit pipeline
	if s.hitPool != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), pipelineStopTimeout)
		_ = s.hitPool.Shutdown(shutdownCtx)
		cancel()
	}
	if s.hitQueue != nil {
		_ = s.hitQueue.Close()
	}
	if s.tracker != nil {
		_ = s.tracker.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "recommendation service stopped")
}

// Reload re-reads the catalog source and swaps the snapshot in one
// step. Readers keep the old snapshot until the swap.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return catalog.ErrNotLoaded
	}
	if _, err := s.store.Load(ctx, s.source); err != nil {
		return fmt.Errorf("reload catalog: %w", err)
	}
	return nil
}

// Recommend ranks the catalog's yarns against a pattern. A limit of 0
// falls back to the configured top-N.
func (s *Service) Recommend(ctx context.Context, patternName string, limit int) ([]types.Match, error) {
	snap, p, err := s.patternFor(patternName)
	if err != nil {
		return nil, err
	}

	matches := s.ranker.Rank(ctx, p, snap.Yarns(), limit)
	metrics.RecordRecommendationServed()
	s.recordHit(ctx, p.Name, false)
	return matches, nil
}

// RecommendAt ranks like Recommend and blends each base score with a
// temperature fit for the given degrees Celsius.
func (s *Service) RecommendAt(ctx context.Context, patternName string, tempC float64, limit int) ([]types.Match, error) {
	snap, p, err := s.patternFor(patternName)
	if err != nil {
		return nil, err
	}

	matches := s.ranker.RankAt(ctx, p, snap.Yarns(), tempC, limit)
	metrics.RecordRecommendationServed()
	s.recordHit(ctx, p.Name, true)
	return matches, nil
}

// recordHit queues one pattern request for the popularity tally. The
// enqueue never blocks; a full queue drops the hit.
func (s *Service) recordHit(ctx context.Context, pattern string, blended bool) {
	q := s.hitQueue
	if q == nil {
		return
	}
	q.Enqueue(ctx, types.Hit{Pattern: pattern, Blended: blended, At: time.Now()})
}

func (s *Service) patternFor(name string) (*catalog.Snapshot, model.Pattern, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, model.Pattern{}, err
	}
	p, err := snap.Pattern(name)
	if err != nil {
		return nil, model.Pattern{}, err
	}
	return snap, p, nil
}

func (s *Service) snapshot() (*catalog.Snapshot, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()

	if store == nil {
		return nil, catalog.ErrNotLoaded
	}
	return store.Snapshot()
}

// Patterns lists the catalog's patterns, narrowed by the filter.
func (s *Service) Patterns(ctx context.Context, f catalog.Filter) ([]model.Pattern, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Search(f), nil
}

// Pattern resolves a single pattern by name.
func (s *Service) Pattern(ctx context.Context, name string) (model.Pattern, error) {
	snap, err := s.snapshot()
	if err != nil {
		return model.Pattern{}, err
	}
	p, err := snap.Pattern(name)
	if err != nil {
		return model.Pattern{}, err
	}
	s.recordHit(ctx, p.Name, false)
	return p, nil
}

// YarnClimate derives the comfort range and season suitability of a
// yarn from its fiber content.
func (s *Service) YarnClimate(ctx context.Context, name string) (types.ClimateProfile, error) {
	snap, err := s.snapshot()
	if err != nil {
		return types.ClimateProfile{}, err
	}
	y, err := snap.Yarn(name)
	if err != nil {
		return types.ClimateProfile{}, err
	}

	return types.ClimateProfile{
		Yarn:   y.Name,
		Range:  normalize.ClassifyWarmth(y.Fibers),
		Season: normalize.Season(y.Fibers),
	}, nil
}

// TemperatureFor resolves a location and season to degrees Celsius.
// Unknown locations use the Custom fallback row.
func (s *Service) TemperatureFor(location string, season climate.Season) float64 {
	return s.climates.TempFor(location, season)
}

// KnownLocation reports whether the climate table has a row for the
// location.
func (s *Service) KnownLocation(location string) bool {
	return s.climates.Known(location)
}

// Locations lists the climate table's locations in table order.
func (s *Service) Locations() []string {
	return s.climates.Locations()
}

// SeasonNow returns the season of the current month.
func (s *Service) SeasonNow() climate.Season {
	return climate.SeasonOf(time.Now())
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"topN":         s.topN,
		"scoreWorkers": s.scoreWorkers,
		"blendFactor":  s.blendFactor,
	}

	if s.store != nil {
		if snap, err := s.store.Snapshot(); err == nil {
			stats["snapshotID"] = snap.ID().String()
			stats["source"] = snap.Source()
			stats["loadedAt"] = snap.LoadedAt().Format(time.RFC3339)
			stats["patterns"] = len(snap.Patterns())
			stats["yarns"] = len(snap.Yarns())

			// Update metrics
			metrics.UpdateCatalogPatterns(len(snap.Patterns()))
			metrics.UpdateCatalogYarns(len(snap.Yarns()))
		}
	}

	if s.tracker != nil {
		ctx := context.Background()
		stats["trackedPatterns"] = s.tracker.Count(ctx)
		stats["topPatterns"] = s.topPatterns(ctx, statsTopPatterns)
	}

	return stats
}

// topPatterns serves the most requested patterns, preferring the
// published snapshot over a fresh treap walk.
func (s *Service) topPatterns(ctx context.Context, n int) []popularity.Entry {
	if snap := s.tracker.Snapshot(); snap != nil {
		top := snap.TopCache
		if len(top) > n {
			top = top[:n]
		}
		return top
	}

	entries, err := s.tracker.TopN(ctx, n)
	if err != nil {
		return nil
	}
	return entries
}
