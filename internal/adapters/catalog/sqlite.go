package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/hobbyloop/skein/internal/domain/model"
)

// SQLiteSchema creates the patterns and yarns tables read by
// SQLiteSource. Price, rating and hook size are TEXT so that blank and
// malformed spreadsheet cells survive a round trip through the database.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS patterns (
  name TEXT PRIMARY KEY,
  yarn_weight TEXT NOT NULL DEFAULT '',
  hook_size_mm TEXT NOT NULL DEFAULT '',
  composition TEXT NOT NULL DEFAULT '',
  difficulty TEXT NOT NULL DEFAULT '',
  structure TEXT NOT NULL DEFAULT '',
  stitches TEXT NOT NULL DEFAULT '',
  materials TEXT NOT NULL DEFAULT '',
  colors TEXT NOT NULL DEFAULT '',
  source_file TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS yarns (
  name TEXT PRIMARY KEY,
  brand TEXT NOT NULL DEFAULT '',
  price TEXT NOT NULL DEFAULT '',
  rating TEXT NOT NULL DEFAULT '',
  thickness TEXT NOT NULL DEFAULT '',
  hook_size_mm TEXT NOT NULL DEFAULT '',
  cotton REAL NOT NULL DEFAULT 0,
  linen REAL NOT NULL DEFAULT 0,
  bamboo REAL NOT NULL DEFAULT 0,
  acrylic REAL NOT NULL DEFAULT 0,
  wool REAL NOT NULL DEFAULT 0,
  mohair REAL NOT NULL DEFAULT 0
);
`

// SQLiteSource reads patterns and yarns from a SQLite database. The
// database is opened read-only; rows come back in insertion order.
type SQLiteSource struct {
	path string
}

// NewSQLiteSource constructs a source over the given database file.
func NewSQLiteSource(path string) *SQLiteSource {
	return &SQLiteSource{path: path}
}

// Kind implements Source.
func (s *SQLiteSource) Kind() string { return "sqlite" }

func (s *SQLiteSource) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", s.path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open catalog database: %s", s.path)
	}
	return db, nil
}

// Patterns implements Source.
func (s *SQLiteSource) Patterns(ctx context.Context) ([]model.Pattern, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
SELECT name, yarn_weight, hook_size_mm, composition, difficulty, structure, stitches, materials, colors, source_file
FROM patterns
ORDER BY rowid
`)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query patterns: %s", s.path)
	}
	defer rows.Close()

	var out []model.Pattern
	for rows.Next() {
		var p model.Pattern
		var hookSize string
		if err := rows.Scan(
			&p.Name, &p.YarnWeight, &hookSize, &p.Composition, &p.Difficulty,
			&p.Structure, &p.Stitches, &p.Materials, &p.Colors, &p.SourceFile,
		); err != nil {
			return nil, errors.Wrapf(err, "failed to scan pattern row: %s", s.path)
		}
		p.HookSize = model.Cell(hookSize)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read patterns: %s", s.path)
	}
	return out, nil
}

// Yarns implements Source.
func (s *SQLiteSource) Yarns(ctx context.Context) ([]model.Yarn, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
SELECT name, brand, price, rating, thickness, hook_size_mm, cotton, linen, bamboo, acrylic, wool, mohair
FROM yarns
ORDER BY rowid
`)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query yarns: %s", s.path)
	}
	defer rows.Close()

	var out []model.Yarn
	for rows.Next() {
		var y model.Yarn
		var price, rating, hookSize string
		if err := rows.Scan(
			&y.Name, &y.Brand, &price, &rating, &y.Thickness, &hookSize,
			&y.Fibers.Cotton, &y.Fibers.Linen, &y.Fibers.Bamboo,
			&y.Fibers.Acrylic, &y.Fibers.Wool, &y.Fibers.Mohair,
		); err != nil {
			return nil, errors.Wrapf(err, "failed to scan yarn row: %s", s.path)
		}
		y.Price = model.Cell(price)
		y.Rating = model.Cell(rating)
		y.HookSize = model.Cell(hookSize)
		out = append(out, y)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read yarns: %s", s.path)
	}
	return out, nil
}
