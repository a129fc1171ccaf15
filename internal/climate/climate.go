// Package climate supplies ambient temperature context for ranking from a
// built-in location and season table.
package climate

import (
	"fmt"
	"strings"
	"time"

	"github.com/hobbyloop/skein/pkg/metrics"
)

// Season of the year used by the temperature table.
type Season string

// Seasons in table order.
const (
	Winter Season = "winter"
	Spring Season = "spring"
	Summer Season = "summer"
	Fall   Season = "fall"
)

// CustomLocation is the fallback row used for locations the table does not
// know.
const CustomLocation = "Custom"

// SeasonTemps is one location row: average temperature per season in
// degrees Celsius.
type SeasonTemps struct {
	Winter float64 `json:"winter"`
	Spring float64 `json:"spring"`
	Summer float64 `json:"summer"`
	Fall   float64 `json:"fall"`
}

// For returns the row's temperature for a season.
func (t SeasonTemps) For(s Season) float64 {
	switch s {
	case Winter:
		return t.Winter
	case Spring:
		return t.Spring
	case Summer:
		return t.Summer
	default:
		return t.Fall
	}
}

// defaultTable mirrors the averages the recommender ships with.
var defaultTable = []struct {
	name  string
	temps SeasonTemps
}{
	{"Sweden (Stockholm)", SeasonTemps{Winter: -3, Spring: 5, Summer: 18, Fall: 8}},
	{"Spain (Madrid)", SeasonTemps{Winter: 6, Spring: 14, Summer: 25, Fall: 15}},
	{"UK (London)", SeasonTemps{Winter: 5, Spring: 11, Summer: 18, Fall: 12}},
	{"USA (New York)", SeasonTemps{Winter: 0, Spring: 12, Summer: 24, Fall: 13}},
	{"Canada (Toronto)", SeasonTemps{Winter: -4, Spring: 9, Summer: 22, Fall: 10}},
	{"Australia (Sydney)", SeasonTemps{Winter: 13, Spring: 18, Summer: 23, Fall: 19}},
	{"Germany (Berlin)", SeasonTemps{Winter: 0, Spring: 9, Summer: 19, Fall: 10}},
	{"France (Paris)", SeasonTemps{Winter: 4, Spring: 11, Summer: 20, Fall: 12}},
	{"Italy (Rome)", SeasonTemps{Winter: 8, Spring: 14, Summer: 25, Fall: 17}},
	{"Netherlands (Amsterdam)", SeasonTemps{Winter: 3, Spring: 10, Summer: 17, Fall: 11}},
	{CustomLocation, SeasonTemps{Winter: 10, Spring: 15, Summer: 20, Fall: 12}},
}

// Lookup resolves (location, season) to an average temperature. Rows can
// be added or overridden through options; the built-in table is always the
// starting point.
type Lookup struct {
	order []string
	temps map[string]SeasonTemps
}

// Option applies a configuration option to the Lookup.
type Option func(*Lookup)

// WithLocation adds or overrides one location row.
func WithLocation(name string, temps SeasonTemps) Option {
	return func(l *Lookup) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := l.temps[name]; !ok {
			l.order = append(l.order, name)
		}
		l.temps[name] = temps
	}
}

// New creates a Lookup seeded with the built-in table.
func New(opts ...Option) *Lookup {
	l := &Lookup{
		order: make([]string, 0, len(defaultTable)),
		temps: make(map[string]SeasonTemps, len(defaultTable)),
	}
	for _, e := range defaultTable {
		l.order = append(l.order, e.name)
		l.temps[e.name] = e.temps
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// TempFor returns the average temperature for a location and season.
// Unknown locations fall back to the Custom row.
func (l *Lookup) TempFor(location string, s Season) float64 {
	t, ok := l.temps[location]
	if !ok {
		location = CustomLocation
		t = l.temps[CustomLocation]
	}
	metrics.RecordClimateLookup(location)
	return t.For(s)
}

// Known reports whether the location has its own table row.
func (l *Lookup) Known(location string) bool {
	_, ok := l.temps[location]
	return ok
}

// Locations lists the table rows in declaration order.
func (l *Lookup) Locations() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Temps returns the row for a location, falling back to the Custom row.
func (l *Lookup) Temps(location string) SeasonTemps {
	if t, ok := l.temps[location]; ok {
		return t
	}
	return l.temps[CustomLocation]
}

// SeasonOf maps a point in time to its meteorological season.
func SeasonOf(t time.Time) Season {
	switch t.Month() {
	case time.December, time.January, time.February:
		return Winter
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	default:
		return Fall
	}
}

// ParseSeason parses a season name, case-insensitively. Autumn is accepted
// as an alias for fall.
func ParseSeason(raw string) (Season, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "winter":
		return Winter, nil
	case "spring":
		return Spring, nil
	case "summer":
		return Summer, nil
	case "fall", "autumn":
		return Fall, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSeason, raw)
	}
}
