package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hobbyloop/skein/internal/domain/model"
	"github.com/hobbyloop/skein/pkg/metrics"
)

// Source reads patterns and yarns from a backing format.
type Source interface {
	// Kind names the format, "json", "csv" or "sqlite".
	Kind() string
	// Patterns reads every pattern in source order.
	Patterns(ctx context.Context) ([]model.Pattern, error)
	// Yarns reads every yarn in source order.
	Yarns(ctx context.Context) ([]model.Yarn, error)
}

// Load builds a snapshot from the source, recording load metrics per
// source kind.
func Load(ctx context.Context, src Source) (*Snapshot, error) {
	start := time.Now()

	patterns, err := src.Patterns(ctx)
	if err != nil {
		metrics.RecordCatalogLoadError(src.Kind())
		return nil, fmt.Errorf("read patterns from %s source: %w", src.Kind(), err)
	}
	yarns, err := src.Yarns(ctx)
	if err != nil {
		metrics.RecordCatalogLoadError(src.Kind())
		return nil, fmt.Errorf("read yarns from %s source: %w", src.Kind(), err)
	}

	metrics.RecordCatalogLoad(src.Kind())
	metrics.RecordCatalogLoadDuration(src.Kind(), float64(time.Since(start).Milliseconds()))
	return NewSnapshot(src.Kind(), patterns, yarns), nil
}

// SourceFor selects a source implementation from file extensions. A
// non-empty database path wins and names a SQLite file; otherwise the
// pattern and yarn paths must both be .json or both .csv.
func SourceFor(database, patternsPath, yarnsPath string) (Source, error) {
	if database != "" {
		return NewSQLiteSource(database), nil
	}

	pExt := strings.ToLower(filepath.Ext(patternsPath))
	yExt := strings.ToLower(filepath.Ext(yarnsPath))
	if pExt != yExt {
		return nil, fmt.Errorf("%w: %q vs %q", ErrMismatchedCatalogs, patternsPath, yarnsPath)
	}

	switch pExt {
	case ".json":
		return NewJSONSource(patternsPath, yarnsPath), nil
	case ".csv":
		return NewCSVSource(patternsPath, yarnsPath), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, pExt)
	}
}
