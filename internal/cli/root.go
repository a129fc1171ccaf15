// Package cli implements the skeinctl terminal client for the
// recommendation service.
package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

// Default client configuration constants.
const (
	defaultBaseURL = "http://localhost:9080"
	defaultTimeout = 30 * time.Second
)

var (
	baseURL     string
	httpTimeout time.Duration
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "skeinctl",
	Short: "Terminal client for the skein yarn recommendation service",
	Long: `skeinctl talks to a running skein service and renders pattern listings,
yarn recommendations and climate profiles in the terminal.

The seed command works offline: it writes a synthetic catalog in the
layout the service loads at startup.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", defaultBaseURL, "Base URL of the service")
	rootCmd.PersistentFlags().DurationVar(&httpTimeout, "timeout", defaultTimeout, "HTTP request timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
