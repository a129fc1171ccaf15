package smoketest

import (
	"context"
	"log"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hobbyloop/skein/internal/domain/model"
)

// request is one /recommend call to make against the server.
type request struct {
	pattern string
	blended bool
}

// listServerPatterns fetches the pattern listing from the server.
func listServerPatterns(ctx context.Context, config *Config, stats *Stats) ([]model.Pattern, error) {
	log.Printf("📋 Listing patterns from %s...", config.BaseURL)

	client := newHTTPClient(config.Timeout)

	var patterns []model.Pattern
	if err := getJSON(ctx, client, config.BaseURL+"/patterns", &patterns); err != nil {
		return nil, err
	}

	stats.PatternsListed = len(patterns)
	log.Printf("✅ Server lists %d patterns", len(patterns))

	return patterns, nil
}

// retrieveRecommendations fetches recommendations for every pattern
// concurrently, once plain and once blended at the configured temperature.
func retrieveRecommendations(ctx context.Context, config *Config, patterns []model.Pattern, stats *Stats) ([]Recommendation, error) {
	requests := make([]request, 0, len(patterns)*2)
	for _, p := range patterns {
		requests = append(requests,
			request{pattern: p.Name},
			request{pattern: p.Name, blended: true})
	}

	log.Printf("🧶 Retrieving %d recommendations for %d patterns with %d workers...",
		len(requests), len(patterns), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Results storage
	results := make([]Recommendation, len(requests))
	var (
		retrieved int64
		failed    int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	requestChan := make(chan int, config.Workers*WorkerChannelMultiplier) // Send indices instead of requests
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for index := range requestChan {
				select {
				case <-ctx.Done():
					return
				default:
					req := requests[index]
					rec, err := retrieveSingleRecommendation(ctx, client, config, req)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to get recommendation for %s: %v", req.pattern, err)
						}
					} else {
						results[index] = rec
						atomic.AddInt64(&retrieved, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						ret := atomic.LoadInt64(&retrieved)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Recommendation progress: %d/%d retrieved (success: %d, failed: %d)",
								total, len(requests), ret, fail)
						} else {
							log.Printf("\r🧶 Recommendations: %d/%d retrieved (success: %d, failed: %d)",
								total, len(requests), ret, fail)
						}
					}
				}
			}
		}(i)
	}

	// Send request indices to workers
	go func() {
		defer close(requestChan)
		for i := range requests {
			select {
			case <-ctx.Done():
				return
			case requestChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		log.Println() // New line after progress indicator
	}

	// Filter out empty results (failed retrievals)
	valid := make([]Recommendation, 0, len(results))
	for _, rec := range results {
		if rec.Pattern != "" { // Empty pattern indicates failed retrieval
			valid = append(valid, rec)
		}
	}

	// Update stats
	stats.RecommendationsRetrieved = len(valid)
	stats.RecommendationsFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Recommendation retrieval completed:
   Retrieved: %d
   Failed: %d
`, len(valid), stats.RecommendationsFailed)

	return valid, nil
}

// retrieveSingleRecommendation fetches one recommendation.
func retrieveSingleRecommendation(ctx context.Context, client *HTTPClient, config *Config, req request) (Recommendation, error) {
	q := url.Values{}
	q.Set("pattern", req.pattern)
	if config.Limit > 0 {
		q.Set("limit", strconv.Itoa(config.Limit))
	}
	if req.blended {
		q.Set("temp", strconv.FormatFloat(config.Temperature, 'f', -1, 64))
	}

	var rec Recommendation
	if err := getJSON(ctx, client, config.BaseURL+"/recommend?"+q.Encode(), &rec); err != nil {
		return Recommendation{}, err
	}

	return rec, nil
}

// getServerStats fetches the service counters for display.
func getServerStats(ctx context.Context, config *Config) (map[string]interface{}, error) {
	client := newHTTPClient(config.Timeout)

	var serverStats map[string]interface{}
	if err := getJSON(ctx, client, config.BaseURL+"/stats", &serverStats); err != nil {
		return nil, err
	}

	return serverStats, nil
}
