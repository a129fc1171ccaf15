package smoketest

import (
	"time"

	"github.com/hobbyloop/skein/internal/domain/types"
)

// Run mode constants.
const (
	ModeVerify = "verify"
	ModeSeed   = "seed"
)

// Catalog format constants.
const (
	FormatJSON   = "json"
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// Config holds configuration for the smoke run
type Config struct {
	BaseURL      string        // Base URL of the service
	Mode         string        // Run mode: seed or verify
	Dir          string        // Directory holding the catalog files
	Format       string        // Catalog format: json, csv or sqlite
	PatternCount int           // Number of patterns to seed
	YarnCount    int           // Number of yarns to seed
	Limit        int           // Number of matches to request per pattern
	Temperature  float64       // Temperature for blended requests, degrees Celsius
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	OutputFile   string        // Output file for retrieved recommendations
	LogFile      string        // Log file for smoke output
	Verbose      bool          // Enable verbose logging
}

// Recommendation represents one /recommend response
type Recommendation struct {
	Pattern     string        `json:"pattern"`
	Temperature *float64      `json:"temperature,omitempty"`
	Location    string        `json:"location,omitempty"`
	Season      string        `json:"season,omitempty"`
	Matches     []types.Match `json:"matches"`
}

// Stats holds smoke run statistics
type Stats struct {
	PatternsSeeded           int
	YarnsSeeded              int
	PatternsListed           int
	RecommendationsRetrieved int
	RecommendationsFailed    int
	RankingsVerified         int
	RankingMismatches        int
	StartTime                time.Time
	EndTime                  time.Time
	Duration                 time.Duration
}
