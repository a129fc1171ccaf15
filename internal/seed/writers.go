package seed

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/hobbyloop/skein/internal/adapters/catalog"
)

const catalogFilePermission = 0o600

// Column headers written by WriteCSV. They repeat the published
// spreadsheets verbatim, misspellings included, so the CSV reader maps
// them without special cases.
var (
	patternHeader = []string{
		"Pattern Name",
		"Yarn Weight",
		"Hook Size (mm)",
		"Recommended Composition",
		"Difficulty Level",
		"Pattern Structure",
		"Stitches Required",
		"Materials Needed",
		"Recommended Colors",
		"Source File",
	}
	yarnHeader = []string{
		"Name of the product",
		"Brand",
		"Yarn thikness",
		"Price (€)",
		"Rating (★)",
		"Needle/Hook Size (mm)",
		"Cotton (%)",
		"Linen (%)",
		"Bamboo/Viscouse (%)",
		"Acrylic (%)",
		"Wool (%)",
		"Mohair/Alpaca (%)",
	}
)

// WriteJSON writes the catalog as two indented JSON arrays, one file per
// side, in the layout the JSON source reads.
func WriteJSON(ctx context.Context, c *Catalog, patternsPath, yarnsPath string) error {
	if err := validate(ctx, c); err != nil {
		return err
	}

	patterns, err := json.MarshalIndent(c.Patterns, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal patterns")
	}
	if err := os.WriteFile(patternsPath, patterns, catalogFilePermission); err != nil {
		return errors.Wrapf(err, "failed to write catalog file: %s", patternsPath)
	}

	yarns, err := json.MarshalIndent(c.Yarns, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal yarns")
	}
	if err := os.WriteFile(yarnsPath, yarns, catalogFilePermission); err != nil {
		return errors.Wrapf(err, "failed to write catalog file: %s", yarnsPath)
	}

	return nil
}

// WriteCSV writes the catalog as two CSV files with the spreadsheet
// headers the CSV source expects.
func WriteCSV(ctx context.Context, c *Catalog, patternsPath, yarnsPath string) error {
	if err := validate(ctx, c); err != nil {
		return err
	}

	patternRows := make([][]string, 0, len(c.Patterns)+1)
	patternRows = append(patternRows, patternHeader)
	for _, p := range c.Patterns {
		patternRows = append(patternRows, []string{
			p.Name,
			p.YarnWeight,
			p.HookSize.String(),
			p.Composition,
			p.Difficulty,
			p.Structure,
			p.Stitches,
			p.Materials,
			p.Colors,
			p.SourceFile,
		})
	}
	if err := writeCSVFile(patternsPath, patternRows); err != nil {
		return err
	}

	yarnRows := make([][]string, 0, len(c.Yarns)+1)
	yarnRows = append(yarnRows, yarnHeader)
	for _, y := range c.Yarns {
		yarnRows = append(yarnRows, []string{
			y.Name,
			y.Brand,
			y.Thickness,
			y.Price.String(),
			y.Rating.String(),
			y.HookSize.String(),
			pct(y.Fibers.Cotton),
			pct(y.Fibers.Linen),
			pct(y.Fibers.Bamboo),
			pct(y.Fibers.Acrylic),
			pct(y.Fibers.Wool),
			pct(y.Fibers.Mohair),
		})
	}

	return writeCSVFile(yarnsPath, yarnRows)
}

// writeCSVFile writes rows to path as a CSV file.
func writeCSVFile(path string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return errors.Wrapf(err, "failed to write catalog file: %s", path)
	}
	if err := os.WriteFile(path, buf.Bytes(), catalogFilePermission); err != nil {
		return errors.Wrapf(err, "failed to write catalog file: %s", path)
	}
	return nil
}

// WriteSQLite writes the catalog into a fresh SQLite database using the
// schema the SQLite source queries.
func WriteSQLite(ctx context.Context, c *Catalog, path string) error {
	if err := validate(ctx, c); err != nil {
		return err
	}

	// Start from a fresh file so reruns never collide on primary keys.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to replace catalog database: %s", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return errors.Wrapf(err, "failed to create catalog database: %s", path)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, catalog.SQLiteSchema); err != nil {
		return errors.Wrapf(err, "failed to create catalog schema: %s", path)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin catalog transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const insertPattern = `INSERT INTO patterns
		(name, yarn_weight, hook_size_mm, composition, difficulty, structure, stitches, materials, colors, source_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, p := range c.Patterns {
		if _, err := tx.ExecContext(ctx, insertPattern,
			p.Name, p.YarnWeight, string(p.HookSize), p.Composition, p.Difficulty,
			p.Structure, p.Stitches, p.Materials, p.Colors, p.SourceFile,
		); err != nil {
			return errors.Wrapf(err, "failed to insert pattern: %s", p.Name)
		}
	}

	const insertYarn = `INSERT INTO yarns
		(name, brand, price, rating, thickness, hook_size_mm, cotton, linen, bamboo, acrylic, wool, mohair)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, y := range c.Yarns {
		if _, err := tx.ExecContext(ctx, insertYarn,
			y.Name, y.Brand, string(y.Price), string(y.Rating), y.Thickness, string(y.HookSize),
			y.Fibers.Cotton, y.Fibers.Linen, y.Fibers.Bamboo, y.Fibers.Acrylic, y.Fibers.Wool, y.Fibers.Mohair,
		); err != nil {
			return errors.Wrapf(err, "failed to insert yarn: %s", y.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "failed to commit catalog: %s", path)
	}

	return nil
}

func validate(ctx context.Context, c *Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c == nil || len(c.Patterns) == 0 || len(c.Yarns) == 0 {
		return ErrEmptyCatalog
	}
	return nil
}

// pct formats a fiber share; zero shares write as blank cells like the
// source spreadsheets.
func pct(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
