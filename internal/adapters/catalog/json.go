package catalog

import (
	"context"
	"os"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/hobbyloop/skein/internal/domain/model"
)

// JSONSource reads patterns and yarns from two JSON files, each holding
// an array of objects with the domain model's field names.
type JSONSource struct {
	patternsPath string
	yarnsPath    string
}

// NewJSONSource constructs a source over the given file paths.
func NewJSONSource(patternsPath, yarnsPath string) *JSONSource {
	return &JSONSource{patternsPath: patternsPath, yarnsPath: yarnsPath}
}

// Kind implements Source.
func (s *JSONSource) Kind() string { return "json" }

// Patterns implements Source.
func (s *JSONSource) Patterns(ctx context.Context) ([]model.Pattern, error) {
	var out []model.Pattern
	if err := readJSONFile(ctx, s.patternsPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Yarns implements Source.
func (s *JSONSource) Yarns(ctx context.Context) ([]model.Yarn, error) {
	var out []model.Yarn
	if err := readJSONFile(ctx, s.yarnsPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func readJSONFile(ctx context.Context, path string, v interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read catalog file: %s", path)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(err, "failed to parse catalog JSON: %s", path)
	}
	return nil
}
