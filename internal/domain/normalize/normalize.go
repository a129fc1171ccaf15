// Package normalize canonicalizes free-text catalog attributes into the
// fixed vocabularies the scorers compare against.
package normalize

import (
	"strings"

	"github.com/hobbyloop/skein/internal/domain/model"
)

// Canonical yarn weight categories produced by Weight.
const (
	WeightSport      = "sport"
	WeightDK         = "DK"
	WeightWorsted    = "worsted"
	WeightBulky      = "bulky"
	WeightSuperBulky = "super bulky"
)

// weightRules maps raw-label substrings to canonical categories. The slice
// is ordered and the first matching rule wins; a raw label may contain more
// than one key, so declaration order is the documented tie-break.
var weightRules = []struct {
	key      string
	category string
}{
	{"light", WeightSport},
	{"light/sport", WeightSport},
	{"dk", WeightDK},
	{"medium", WeightWorsted},
	{"aran", WeightWorsted},
	{"heavy", WeightBulky},
	{"super bulky", WeightSuperBulky},
	{"jumbo", WeightSuperBulky},
}

// Weight canonicalizes a free-text yarn weight label. Blank input returns
// "", which downstream scorers treat as no match rather than an error.
// Labels no rule covers pass through lower-cased so exotic categories still
// compare equal to themselves. Idempotent.
func Weight(raw string) string {
	w := strings.ToLower(strings.TrimSpace(raw))
	if w == "" {
		return ""
	}
	for _, r := range weightRules {
		if strings.Contains(w, r.key) {
			return r.category
		}
	}
	return w
}

// Kind identifies the warmth class a fiber mix falls into.
type Kind string

// Warmth classes with their display labels.
const (
	KindWarm      Kind = "Warm (Wool/Alpaca)"
	KindCool      Kind = "Cool (Cotton/Linen)"
	KindAllSeason Kind = "All-season (Acrylic)"
	KindBlend     Kind = "Blend"
)

// ClimateRange is the ambient temperature band a yarn is comfortable in,
// in degrees Celsius.
type ClimateRange struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Ideal float64 `json:"ideal"`
	Kind  Kind    `json:"type"`
}

// ClassifyWarmth derives the comfort range for a fiber mix. Cool fibers are
// cotton, linen and bamboo; warm fibers are wool and mohair/alpaca. The
// checks run in a fixed order: a warm majority wins over a cool majority,
// and acrylic dominance only applies when neither holds.
func ClassifyWarmth(f model.Fibers) ClimateRange {
	cool := f.Cotton + f.Linen + f.Bamboo
	warm := f.Wool + f.Mohair

	switch {
	case warm > 50:
		return ClimateRange{Min: -10, Max: 15, Ideal: 5, Kind: KindWarm}
	case cool > 50:
		return ClimateRange{Min: 15, Max: 35, Ideal: 22, Kind: KindCool}
	case f.Acrylic > 70:
		return ClimateRange{Min: 5, Max: 20, Ideal: 12, Kind: KindAllSeason}
	default:
		return ClimateRange{Min: 5, Max: 25, Ideal: 15, Kind: KindBlend}
	}
}

// Season suitability labels.
const (
	SeasonSummer     = "Summer"
	SeasonWinter     = "Winter"
	SeasonAllSeason  = "All-Season"
	SeasonSpringFall = "Spring/Fall"
)

// Season labels which part of the year a fiber mix suits. The thresholds
// overlap ClassifyWarmth's inputs but are not the same cut-offs; the two
// classifiers answer different questions and must stay independent.
func Season(f model.Fibers) string {
	summer := f.Cotton + f.Linen + f.Bamboo
	winter := f.Wool + f.Mohair

	switch {
	case summer > 50:
		return SeasonSummer
	case winter > 50:
		return SeasonWinter
	case f.Acrylic > 70:
		return SeasonAllSeason
	default:
		return SeasonSpringFall
	}
}
