// Package rank orders a yarn catalog by match quality for one pattern.
package rank

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/hobbyloop/skein/internal/domain/model"
	"github.com/hobbyloop/skein/internal/domain/scoring"
	"github.com/hobbyloop/skein/internal/domain/types"
	"github.com/hobbyloop/skein/pkg/logger"
	"github.com/hobbyloop/skein/pkg/metrics"
)

// DefaultTopN is how many matches a ranking returns when the caller does
// not ask for a specific depth.
const DefaultTopN = 3

// Scorer computes one yarn's breakdown against a pattern.
type Scorer interface {
	Score(p model.Pattern, y model.Yarn) scoring.Breakdown
	ScoreAt(p model.Pattern, y model.Yarn, tempC float64) scoring.Breakdown
}

// Ranker scores every yarn in a snapshot against a pattern and returns the
// best matches in descending total order. Ties keep catalog order, so the
// same snapshot always produces the same ranking.
type Ranker struct {
	scorer  Scorer
	workers int
	topN    int
	logger  logger.Logger
}

// New creates a Ranker with configuration options.
func New(opts ...Option) *Ranker {
	r := &Ranker{
		scorer:  scoring.NewCriteriaScorer(),
		workers: 0, // sized from GOMAXPROCS per call
		topN:    DefaultTopN,
		logger:  logger.Get().Named("rank"),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Rank scores yarns on the catalog criteria only and returns the top
// matches. A topN of zero falls back to the configured default depth.
func (r *Ranker) Rank(ctx context.Context, p model.Pattern, yarns []model.Yarn, topN int) []types.Match {
	return r.run(ctx, yarns, topN, func(y model.Yarn) scoring.Breakdown {
		return r.scorer.Score(p, y)
	})
}

// RankAt additionally blends the ambient temperature into every score.
func (r *Ranker) RankAt(ctx context.Context, p model.Pattern, yarns []model.Yarn, tempC float64, topN int) []types.Match {
	return r.run(ctx, yarns, topN, func(y model.Yarn) scoring.Breakdown {
		return r.scorer.ScoreAt(p, y, tempC)
	})
}

func (r *Ranker) run(ctx context.Context, yarns []model.Yarn, topN int, score func(model.Yarn) scoring.Breakdown) []types.Match {
	if topN <= 0 {
		topN = r.topN
	}
	matches := make([]types.Match, len(yarns))
	if len(yarns) == 0 {
		return matches
	}

	start := time.Now()
	workers := r.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(yarns) {
		workers = len(yarns)
	}
	metrics.UpdateScoreWorkers(workers)

	if workers <= 1 {
		for i, y := range yarns {
			matches[i] = types.Match{Yarn: y, Breakdown: score(y)}
		}
	} else {
		// Read-only fan-out over the snapshot. Results land at their input
		// index, so the stable sort below still sees catalog order.
		idx := make(chan int)
		var wg sync.WaitGroup
		wg.Add(workers)
		for w := 0; w < workers; w++ {
			go func() {
				defer wg.Done()
				for i := range idx {
					matches[i] = types.Match{Yarn: yarns[i], Breakdown: score(yarns[i])}
				}
			}()
		}
		for i := range yarns {
			idx <- i
		}
		close(idx)
		wg.Wait()
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Breakdown.Total > matches[j].Breakdown.Total
	})
	if topN < len(matches) {
		matches = matches[:topN]
	}
	for i := range matches {
		matches[i].Rank = i + 1
	}

	elapsed := time.Since(start)
	metrics.RecordScoreLatency(float64(elapsed.Milliseconds()))
	metrics.RecordYarnsScored(len(yarns))
	r.logger.Debug(ctx, "ranked catalog",
		logger.Int("yarns", len(yarns)),
		logger.Int("returned", len(matches)),
		logger.Int("workers", workers),
		logger.Duration("took", elapsed),
	)

	return matches
}
