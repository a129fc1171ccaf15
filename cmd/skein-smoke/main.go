package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/hobbyloop/skein/internal/smoketest"
)

// Default configuration constants.
const (
	defaultPatternCount = 12
	defaultYarnCount    = 20
	defaultLimit        = 20
	defaultTemperature  = 8.0
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 30 * time.Second
	defaultRunTimeout   = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		mode         = flag.String("mode", smoketest.ModeVerify, "Run mode: seed or verify")
		dir          = flag.String("dir", "./smokedata", "Directory for the catalog files")
		format       = flag.String("format", smoketest.FormatJSON, "Catalog format: json, csv or sqlite")
		patternCount = flag.Int("patterns", defaultPatternCount, "Number of patterns to seed")
		yarnCount    = flag.Int("yarns", defaultYarnCount, "Number of yarns to seed")
		limit        = flag.Int("limit", defaultLimit, "Number of matches to request per pattern")
		temperature  = flag.Float64("temperature", defaultTemperature, "Temperature in degrees Celsius for blended requests")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile   = flag.String("output", "", "Output file for retrieved recommendations (default: smoke_results_TIMESTAMP.json)")
		logFile      = flag.String("log", "", "Log file for smoke output (default: smoke_log_TIMESTAMP.log)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		smoketest.ShowHelp()
		return
	}

	// Setup logging
	if err := smoketest.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create smoke configuration
	config := &smoketest.Config{
		BaseURL:      *baseURL,
		Mode:         *mode,
		Dir:          *dir,
		Format:       *format,
		PatternCount: *patternCount,
		YarnCount:    *yarnCount,
		Limit:        *limit,
		Temperature:  *temperature,
		Workers:      *workers,
		Timeout:      *timeout,
		OutputFile:   *outputFile,
		LogFile:      *logFile,
		Verbose:      *verbose,
	}

	// Run the smoke mode
	if err := smoketest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Smoke run failed: " + err.Error() + "\n")
		return
	}
}
