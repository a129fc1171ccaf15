package smoketest

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/hobbyloop/skein/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "smoke_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	os.Stdout.WriteString(`Skein Smoke Tool
================

Seeds a synthetic yarn catalog and verifies a running recommendation
service against a local recompute of every ranking.

Usage:
  go run cmd/skein-smoke/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -mode string
        Run mode: "seed" writes catalog files, "verify" checks a running
        service against them (default "verify")
  -dir string
        Directory for the catalog files (default "./smokedata")
  -format string
        Catalog format: json, csv or sqlite (default "json")
  -patterns int
        Number of patterns to seed (default 12)
  -yarns int
        Number of yarns to seed (default 20)
  -limit int
        Number of matches to request per pattern (default 20)
  -temperature float
        Temperature in °C for blended requests (default 8)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for retrieved recommendations (default: smoke_results_TIMESTAMP.json)
  -log string
        Log file for smoke output (default: smoke_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed a JSON catalog, then start the service against it
  go run cmd/skein-smoke/main.go -mode seed -dir ./smokedata -format json

  # Verify a running service against the seeded catalog
  go run cmd/skein-smoke/main.go -mode verify -dir ./smokedata -format json

  # Seed a bigger SQLite catalog
  go run cmd/skein-smoke/main.go -mode seed -format sqlite -patterns 50 -yarns 200

  # Verify with a custom blend temperature and verbose output
  go run cmd/skein-smoke/main.go -verbose -temperature -2.5
`)
}
