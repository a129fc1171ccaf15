package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hobbyloop/skein/internal/adapters/catalog"
	"github.com/hobbyloop/skein/internal/domain/rank"
	"github.com/hobbyloop/skein/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestGenerator_Generate(t *testing.T) {
	g := New(WithPatterns(30), WithYarns(40), WithWorkers(4))

	c, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(c.Patterns) != 30 {
		t.Fatalf("expected 30 patterns, got %d", len(c.Patterns))
	}
	if len(c.Yarns) != 40 {
		t.Fatalf("expected 40 yarns, got %d", len(c.Yarns))
	}

	names := make(map[string]bool)
	for _, p := range c.Patterns {
		if p.Name == "" {
			t.Error("expected pattern name to be set")
		}
		if names[p.Name] {
			t.Errorf("duplicate name %q", p.Name)
		}
		names[p.Name] = true

		if p.YarnWeight == "" {
			t.Errorf("expected yarn weight for %q", p.Name)
		}
		if p.Difficulty == "" {
			t.Errorf("expected difficulty for %q", p.Name)
		}
	}

	for _, y := range c.Yarns {
		if y.Name == "" {
			t.Error("expected yarn name to be set")
		}
		if names[y.Name] {
			t.Errorf("duplicate name %q", y.Name)
		}
		names[y.Name] = true

		if y.Thickness == "" {
			t.Errorf("expected thickness for %q", y.Name)
		}
		total := y.Fibers.Cotton + y.Fibers.Linen + y.Fibers.Bamboo +
			y.Fibers.Acrylic + y.Fibers.Wool + y.Fibers.Mohair
		if total != 100 {
			t.Errorf("expected fiber shares of %q to sum to 100, got %v", y.Name, total)
		}
		if v, ok := y.HookSize.Float(); ok && (v < 1 || v > 20) {
			t.Errorf("hook size of %q out of range: %v", y.Name, v)
		}
	}
}

func TestGenerator_Defaults(t *testing.T) {
	c, err := New().Generate(context.Background())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(c.Patterns) != defaultPatternCount {
		t.Errorf("expected %d patterns, got %d", defaultPatternCount, len(c.Patterns))
	}
	if len(c.Yarns) != defaultYarnCount {
		t.Errorf("expected %d yarns, got %d", defaultYarnCount, len(c.Yarns))
	}
}

func TestGenerator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New().Generate(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestGenerator_Rankable(t *testing.T) {
	ctx := context.Background()
	c := generateCatalog(t, ctx)

	ranker := rank.New()
	for _, p := range c.Patterns {
		matches := ranker.Rank(ctx, p, c.Yarns, 3)
		if len(matches) != 3 {
			t.Fatalf("expected 3 matches for %q, got %d", p.Name, len(matches))
		}
		for i, m := range matches {
			if m.Rank != i+1 {
				t.Errorf("match %d of %q has rank %d", i, p.Name, m.Rank)
			}
			if i > 0 && m.Breakdown.Total > matches[i-1].Breakdown.Total {
				t.Errorf("matches for %q out of score order at %d", p.Name, i)
			}
		}
	}
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := generateCatalog(t, ctx)

	dir := t.TempDir()
	patternsPath := filepath.Join(dir, "patterns.json")
	yarnsPath := filepath.Join(dir, "yarns.json")
	if err := WriteJSON(ctx, c, patternsPath, yarnsPath); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	src := catalog.NewJSONSource(patternsPath, yarnsPath)
	assertRoundTrip(t, ctx, src, c)
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := generateCatalog(t, ctx)

	dir := t.TempDir()
	patternsPath := filepath.Join(dir, "patterns.csv")
	yarnsPath := filepath.Join(dir, "yarns.csv")
	if err := WriteCSV(ctx, c, patternsPath, yarnsPath); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	src := catalog.NewCSVSource(patternsPath, yarnsPath)
	assertRoundTrip(t, ctx, src, c)
}

func TestWriteSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := generateCatalog(t, ctx)

	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.db")
	if err := WriteSQLite(ctx, c, path); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	// A second write replaces the database instead of duplicating rows.
	if err := WriteSQLite(ctx, c, path); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}

	src := catalog.NewSQLiteSource(path)
	assertRoundTrip(t, ctx, src, c)
}

func TestWriters_EmptyCatalog(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	empty := &Catalog{}

	err := WriteJSON(ctx, empty, filepath.Join(dir, "p.json"), filepath.Join(dir, "y.json"))
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}
	err = WriteCSV(ctx, empty, filepath.Join(dir, "p.csv"), filepath.Join(dir, "y.csv"))
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}
	err = WriteSQLite(ctx, empty, filepath.Join(dir, "catalog.db"))
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}
}

func generateCatalog(t *testing.T, ctx context.Context) *Catalog {
	t.Helper()

	c, err := New(WithPatterns(6), WithYarns(8)).Generate(ctx)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	return c
}

// assertRoundTrip loads the written catalog back through a source and
// expects every row to survive unchanged.
func assertRoundTrip(t *testing.T, ctx context.Context, src catalog.Source, want *Catalog) {
	t.Helper()

	patterns, err := src.Patterns(ctx)
	if err != nil {
		t.Fatalf("load patterns failed: %v", err)
	}
	if len(patterns) != len(want.Patterns) {
		t.Fatalf("expected %d patterns, got %d", len(want.Patterns), len(patterns))
	}
	for i := range patterns {
		if patterns[i] != want.Patterns[i] {
			t.Errorf("pattern %d changed in transit:\n got %+v\nwant %+v", i, patterns[i], want.Patterns[i])
		}
	}

	yarns, err := src.Yarns(ctx)
	if err != nil {
		t.Fatalf("load yarns failed: %v", err)
	}
	if len(yarns) != len(want.Yarns) {
		t.Fatalf("expected %d yarns, got %d", len(want.Yarns), len(yarns))
	}
	for i := range yarns {
		if yarns[i] != want.Yarns[i] {
			t.Errorf("yarn %d changed in transit:\n got %+v\nwant %+v", i, yarns[i], want.Yarns[i])
		}
	}
}
