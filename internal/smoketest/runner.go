package smoketest

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hobbyloop/skein/internal/adapters/catalog"
	"github.com/hobbyloop/skein/internal/seed"
	"github.com/hobbyloop/skein/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the configured smoke mode.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting skein smoke run",
		logger.String("baseURL", config.BaseURL),
		logger.String("mode", config.Mode),
		logger.String("dir", config.Dir),
		logger.String("format", config.Format),
		logger.Int("patterns", config.PatternCount),
		logger.Int("yarns", config.YarnCount),
		logger.Int("limit", config.Limit),
		logger.Float64("temperature", config.Temperature),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	switch config.Mode {
	case ModeSeed:
		return runSeed(ctx, config, stats)
	case ModeVerify:
		return runVerify(ctx, config, stats)
	default:
		return fmt.Errorf("unknown mode: %q", config.Mode)
	}
}

// runSeed writes a synthetic catalog for the service to load.
func runSeed(ctx context.Context, config *Config, stats *Stats) error {
	if err := os.MkdirAll(config.Dir, directoryPermission); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	generator := seed.New(
		seed.WithPatterns(config.PatternCount),
		seed.WithYarns(config.YarnCount),
		seed.WithWorkers(config.Workers),
	)
	c, err := generator.Generate(ctx)
	if err != nil {
		return fmt.Errorf("catalog generation failed: %w", err)
	}

	database, patternsPath, yarnsPath, err := catalogPaths(config)
	if err != nil {
		return err
	}

	switch config.Format {
	case FormatJSON:
		err = seed.WriteJSON(ctx, c, patternsPath, yarnsPath)
	case FormatCSV:
		err = seed.WriteCSV(ctx, c, patternsPath, yarnsPath)
	case FormatSQLite:
		err = seed.WriteSQLite(ctx, c, database)
	}
	if err != nil {
		return fmt.Errorf("catalog write failed: %w", err)
	}

	stats.PatternsSeeded = len(c.Patterns)
	stats.YarnsSeeded = len(c.Yarns)
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	logger.Get().Info(ctx, "catalog seeded",
		logger.String("dir", config.Dir),
		logger.String("format", config.Format),
		logger.Int("patterns", stats.PatternsSeeded),
		logger.Int("yarns", stats.YarnsSeeded),
		logger.String("duration", stats.Duration.String()))
	return nil
}

// runVerify checks a running service against the seeded catalog.
func runVerify(ctx context.Context, config *Config, stats *Stats) error {
	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Load the catalog the service was pointed at
	snapshot, err := loadLocalCatalog(ctx, config)
	if err != nil {
		return fmt.Errorf("catalog load failed: %w", err)
	}

	// Step 3: Compare the server's pattern listing
	serverPatterns, err := listServerPatterns(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("pattern listing failed: %w", err)
	}
	if err := comparePatternListing(snapshot.Patterns(), serverPatterns); err != nil {
		return fmt.Errorf("pattern listing mismatch: %w", err)
	}
	log.Println("✅ Pattern listing matches the local catalog")

	// Step 4: Retrieve recommendations concurrently
	results, err := retrieveRecommendations(ctx, config, snapshot.Patterns(), stats)
	if err != nil {
		return fmt.Errorf("recommendation retrieval failed: %w", err)
	}

	// Step 5: Verify rankings against a local recompute
	if err := verifyResults(ctx, config, snapshot.Patterns(), snapshot.Yarns(), results, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	displayTopMatches(results, config.Verbose)

	// Step 6: Let the popularity tally settle, then show service stats
	logger.Get().Info(ctx, "waiting for the popularity tally to settle")
	time.Sleep(StatsSettleDelay)
	if serverStats, err := getServerStats(ctx, config); err != nil {
		logger.Get().Warn(ctx, "failed to fetch service stats", logger.Error(err))
	} else {
		logger.Get().Info(ctx, "service stats after the run", logger.Any("stats", serverStats))
	}

	// Step 7: Save retrieved recommendations to file
	if err := saveResultsToFile(ctx, config, results); err != nil {
		logger.Get().Warn(ctx, "failed to save recommendations to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "smoke run completed successfully")
	return nil
}

// loadLocalCatalog reads the seeded files the way the service does.
func loadLocalCatalog(ctx context.Context, config *Config) (*catalog.Snapshot, error) {
	database, patternsPath, yarnsPath, err := catalogPaths(config)
	if err != nil {
		return nil, err
	}

	src, err := catalog.SourceFor(database, patternsPath, yarnsPath)
	if err != nil {
		return nil, err
	}

	return catalog.Load(ctx, src)
}

// catalogPaths resolves the catalog file layout for the configured format.
func catalogPaths(config *Config) (database, patternsPath, yarnsPath string, err error) {
	switch config.Format {
	case FormatJSON:
		return "", filepath.Join(config.Dir, "patterns.json"), filepath.Join(config.Dir, "yarns.json"), nil
	case FormatCSV:
		return "", filepath.Join(config.Dir, "patterns.csv"), filepath.Join(config.Dir, "yarns.csv"), nil
	case FormatSQLite:
		return filepath.Join(config.Dir, "catalog.db"), "", "", nil
	default:
		return "", "", "", fmt.Errorf("unknown catalog format: %q", config.Format)
	}
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service serves Prometheus metrics here)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveResultsToFile saves the retrieved recommendations to a JSON file.
func saveResultsToFile(ctx context.Context, config *Config, results []Recommendation) error {
	if len(results) == 0 {
		return fmt.Errorf("no recommendations to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "smoke_results_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write results to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, rec := range results {
		jsonData, err := marshalJSON(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal recommendation %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write recommendation %d: %w", i, err)
		}

		// Add comma except for last entry
		if i < len(results)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "recommendations saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final smoke statistics.
func displayFinalStats(stats *Stats) {
	var successRate, requestsPerSecond float64

	total := stats.RecommendationsRetrieved + stats.RecommendationsFailed
	if total > 0 {
		successRate = float64(stats.RecommendationsRetrieved) / float64(total) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		requestsPerSecond = float64(total) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("patternsListed", stats.PatternsListed),
		logger.Int("recommendationsRetrieved", stats.RecommendationsRetrieved),
		logger.Int("recommendationsFailed", stats.RecommendationsFailed),
		logger.Int("rankingsVerified", stats.RankingsVerified),
		logger.Int("rankingMismatches", stats.RankingMismatches),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
