package catalog

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/hobbyloop/skein/internal/domain/model"
	"github.com/hobbyloop/skein/internal/domain/normalize"
	"github.com/hobbyloop/skein/pkg/metrics"
)

// stripAccents removes combining marks so that "Häkelgarn" and
// "Hakelgarn" resolve to the same key.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldKey canonicalizes a name for lookups: trimmed, lowercased and
// accent-folded. Falls back to plain lowercasing when the transform
// rejects the input.
func foldKey(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	folded, _, err := transform.String(stripAccents, lowered)
	if err != nil {
		return lowered
	}
	return folded
}

// Snapshot is one immutable load of the catalog. Lookups are index
// driven and safe for concurrent use; the backing slices are shared,
// callers must not mutate returned values in place.
type Snapshot struct {
	id        uuid.UUID
	loadedAt  time.Time
	source    string
	patterns  []model.Pattern
	yarns     []model.Yarn
	byPattern map[string]int
	byYarn    map[string]int
}

// NewSnapshot indexes the given patterns and yarns. Duplicate names
// keep the first occurrence, matching source order.
func NewSnapshot(source string, patterns []model.Pattern, yarns []model.Yarn) *Snapshot {
	s := &Snapshot{
		id:        uuid.New(),
		loadedAt:  time.Now().UTC(),
		source:    source,
		patterns:  patterns,
		yarns:     yarns,
		byPattern: make(map[string]int, len(patterns)),
		byYarn:    make(map[string]int, len(yarns)),
	}

	for i, p := range patterns {
		key := foldKey(p.Name)
		if _, ok := s.byPattern[key]; !ok {
			s.byPattern[key] = i
		}
	}
	for i, y := range yarns {
		key := foldKey(y.Name)
		if _, ok := s.byYarn[key]; !ok {
			s.byYarn[key] = i
		}
	}

	return s
}

// ID identifies this load.
func (s *Snapshot) ID() uuid.UUID { return s.id }

// LoadedAt reports when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Source names the loader that produced the snapshot, "json", "csv"
// or "sqlite".
func (s *Snapshot) Source() string { return s.source }

// Patterns returns every pattern in source order. The slice is shared.
func (s *Snapshot) Patterns() []model.Pattern { return s.patterns }

// Yarns returns every yarn in source order. The slice is shared.
func (s *Snapshot) Yarns() []model.Yarn { return s.yarns }

// Pattern resolves a pattern by name, ignoring case, surrounding
// whitespace and diacritics.
func (s *Snapshot) Pattern(name string) (model.Pattern, error) {
	if i, ok := s.byPattern[foldKey(name)]; ok {
		return s.patterns[i], nil
	}
	metrics.RecordPatternLookupMiss()
	return model.Pattern{}, fmt.Errorf("%w: %q", ErrPatternNotFound, name)
}

// Yarn resolves a yarn by name with the same folding rules as Pattern.
func (s *Snapshot) Yarn(name string) (model.Yarn, error) {
	if i, ok := s.byYarn[foldKey(name)]; ok {
		return s.yarns[i], nil
	}
	return model.Yarn{}, fmt.Errorf("%w: %q", ErrYarnNotFound, name)
}

// Filter narrows a pattern search. The zero value matches everything.
type Filter struct {
	// Difficulty matches the pattern's difficulty level, ignoring case.
	Difficulty string
	// Weight matches after canonicalization on both sides, so "light"
	// finds patterns declared as "Sport".
	Weight string
	// Query is a case and accent insensitive substring match against
	// the pattern name.
	Query string
}

func (f Filter) matches(p model.Pattern) bool {
	if f.Difficulty != "" && !strings.EqualFold(strings.TrimSpace(f.Difficulty), strings.TrimSpace(p.Difficulty)) {
		return false
	}
	if f.Weight != "" && normalize.Weight(f.Weight) != normalize.Weight(p.YarnWeight) {
		return false
	}
	if f.Query != "" && !strings.Contains(foldKey(p.Name), foldKey(f.Query)) {
		return false
	}
	return true
}

// Search returns the patterns matching the filter, preserving source
// order. The result is always non-nil.
func (s *Snapshot) Search(f Filter) []model.Pattern {
	out := make([]model.Pattern, 0, len(s.patterns))
	for _, p := range s.patterns {
		if f.matches(p) {
			out = append(out, p)
		}
	}
	return out
}
