package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hobbyloop/skein/internal/seed"
)

// File permission constants.
const (
	seedDirPermission = 0o750
)

var (
	seedDir      string
	seedFormat   string
	seedPatterns int
	seedYarns    int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write a synthetic catalog for the service to load",
	Long: `Generates a synthetic pattern and yarn catalog and writes it in the
layout the service loads at startup. Runs offline; point the service at
the directory afterwards.

Examples:
  # A small JSON catalog
  skeinctl seed --dir ./smokedata --format json

  # A bigger SQLite catalog
  skeinctl seed --dir ./smokedata --format sqlite --patterns 50 --yarns 200`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedDir, "dir", "./smokedata", "Directory for the catalog files")
	seedCmd.Flags().StringVar(&seedFormat, "format", "json", "Catalog format: json, csv or sqlite")
	seedCmd.Flags().IntVar(&seedPatterns, "patterns", 12, "Number of patterns to generate")
	seedCmd.Flags().IntVar(&seedYarns, "yarns", 20, "Number of yarns to generate")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := os.MkdirAll(seedDir, seedDirPermission); err != nil {
		return errors.Wrapf(err, "failed to create catalog directory: %s", seedDir)
	}

	c, err := seed.New(
		seed.WithPatterns(seedPatterns),
		seed.WithYarns(seedYarns),
	).Generate(ctx)
	if err != nil {
		return err
	}

	var files []string
	switch seedFormat {
	case "json":
		patternsPath := filepath.Join(seedDir, "patterns.json")
		yarnsPath := filepath.Join(seedDir, "yarns.json")
		err = seed.WriteJSON(ctx, c, patternsPath, yarnsPath)
		files = []string{patternsPath, yarnsPath}
	case "csv":
		patternsPath := filepath.Join(seedDir, "patterns.csv")
		yarnsPath := filepath.Join(seedDir, "yarns.csv")
		err = seed.WriteCSV(ctx, c, patternsPath, yarnsPath)
		files = []string{patternsPath, yarnsPath}
	case "sqlite":
		database := filepath.Join(seedDir, "catalog.db")
		err = seed.WriteSQLite(ctx, c, database)
		files = []string{database}
	default:
		return fmt.Errorf("unknown catalog format: %q", seedFormat)
	}
	if err != nil {
		return err
	}

	styles := newPrintStyles()
	fmt.Println(styles.header.Render(
		fmt.Sprintf("Seeded %d patterns and %d yarns", len(c.Patterns), len(c.Yarns))))
	for _, f := range files {
		fmt.Printf("  %s\n", styles.name.Render(f))
	}

	if verbose {
		for _, p := range c.Patterns {
			fmt.Printf("  %s\n", styles.dim.Render(p.Name))
		}
	}

	return nil
}
