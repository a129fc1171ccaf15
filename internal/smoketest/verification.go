package smoketest

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/hobbyloop/skein/internal/domain/model"
	"github.com/hobbyloop/skein/internal/domain/rank"
	"github.com/hobbyloop/skein/internal/domain/types"
)

// verifyResults recomputes every retrieved ranking from the local catalog
// and compares it with what the server returned. The recompute assumes
// the server runs the default scorer configuration.
func verifyResults(ctx context.Context, config *Config, patterns []model.Pattern, yarns []model.Yarn, results []Recommendation, stats *Stats) error {
	log.Println("🔍 Verifying rankings against the local catalog...")

	if len(results) == 0 {
		return fmt.Errorf("no recommendations to verify")
	}

	byName := make(map[string]model.Pattern, len(patterns))
	for _, p := range patterns {
		byName[p.Name] = p
	}

	ranker := rank.New()
	verified := 0
	mismatches := 0

	for _, rec := range results {
		p, ok := byName[rec.Pattern]
		if !ok {
			mismatches++
			log.Printf("⚠️  Server recommended for %q, which the local catalog does not hold", rec.Pattern)
			continue
		}

		var want []types.Match
		if rec.Temperature != nil {
			want = ranker.RankAt(ctx, p, yarns, *rec.Temperature, config.Limit)
		} else {
			want = ranker.Rank(ctx, p, yarns, config.Limit)
		}

		if diff := compareMatches(rec.Matches, want); diff != "" {
			mismatches++
			log.Printf("⚠️  Ranking mismatch for %q: %s", rec.Pattern, diff)
			continue
		}
		verified++
	}

	stats.RankingsVerified = verified
	stats.RankingMismatches = mismatches

	if mismatches > 0 {
		return fmt.Errorf("%d of %d rankings differ from the local recompute", mismatches, len(results))
	}

	log.Printf("✅ All %d rankings match the local recompute", verified)
	return nil
}

// compareMatches reports the first difference between a server ranking
// and the local recompute, or "" when they agree.
func compareMatches(got, want []types.Match) string {
	if len(got) != len(want) {
		return fmt.Sprintf("expected %d matches, got %d", len(want), len(got))
	}

	for i := range want {
		if got[i].Yarn.Name != want[i].Yarn.Name {
			return fmt.Sprintf("position %d holds %q, expected %q", i+1, got[i].Yarn.Name, want[i].Yarn.Name)
		}
		if got[i].Rank != want[i].Rank {
			return fmt.Sprintf("%q carries rank %d, expected %d", got[i].Yarn.Name, got[i].Rank, want[i].Rank)
		}
		if math.Abs(got[i].Breakdown.Total-want[i].Breakdown.Total) > ScoreEpsilon {
			return fmt.Sprintf("%q scored %.6f, expected %.6f", got[i].Yarn.Name, got[i].Breakdown.Total, want[i].Breakdown.Total)
		}
	}

	return ""
}

// comparePatternListing checks that the server serves exactly the local
// catalog's patterns.
func comparePatternListing(local, server []model.Pattern) error {
	if len(local) != len(server) {
		return fmt.Errorf("local catalog holds %d patterns, server lists %d", len(local), len(server))
	}

	names := make(map[string]bool, len(server))
	for _, p := range server {
		names[p.Name] = true
	}
	for _, p := range local {
		if !names[p.Name] {
			return fmt.Errorf("server listing is missing %q", p.Name)
		}
	}

	return nil
}

// displayTopMatches shows the winning yarn from the plain ranking of each
// pattern.
func displayTopMatches(results []Recommendation, verbose bool) {
	log.Println("🏆 Top matches per pattern:")

	shown := 0
	for _, rec := range results {
		if rec.Temperature != nil || len(rec.Matches) == 0 {
			continue
		}
		if shown >= TopMatchDisplayCount && !verbose {
			break
		}

		top := rec.Matches[0]
		log.Printf("   %s: %s (%s) - Total: %.3f", rec.Pattern, top.Yarn.Name, top.Yarn.BrandName(), top.Breakdown.Total)
		shown++
	}

	if verbose {
		displayScoreStatistics(results)
	}
}

// displayScoreStatistics shows the spread of winning totals.
func displayScoreStatistics(results []Recommendation) {
	var totals []float64
	for _, rec := range results {
		if len(rec.Matches) > 0 {
			totals = append(totals, rec.Matches[0].Breakdown.Total)
		}
	}
	if len(totals) == 0 {
		return
	}

	sum := 0.0
	maxTotal := totals[0]
	minTotal := totals[0]
	for _, t := range totals {
		sum += t
		if t > maxTotal {
			maxTotal = t
		}
		if t < minTotal {
			minTotal = t
		}
	}

	log.Printf(`📊 Winning total statistics:
   Average: %.3f
   Maximum: %.3f
   Minimum: %.3f
`, sum/float64(len(totals)), maxTotal, minTotal)
}
