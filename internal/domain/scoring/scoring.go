// Package scoring computes per-criterion and composite match scores for
// yarns against a pattern.
package scoring

import (
	"math"
	"strings"

	"github.com/hobbyloop/skein/internal/domain/model"
	"github.com/hobbyloop/skein/internal/domain/normalize"
)

// Declared maxima for each scoring criterion.
const (
	MaxWeight      = 30
	MaxHook        = 20
	MaxComposition = 20
	MaxRating      = 15
	MaxPrice       = 15
	MaxTemperature = 30

	// baseMaxTotal is the denominator of the base percentage.
	baseMaxTotal = MaxWeight + MaxHook + MaxComposition + MaxRating + MaxPrice

	// unparseableCredit is awarded when a rating or price is present in the
	// catalog but cannot be parsed. Absent values earn nothing.
	unparseableCredit = 7.5

	// defaultBlendFactor is the share of the base composite kept when the
	// temperature score is folded in.
	defaultBlendFactor = 0.7
)

// weightNeighbors lists, per pattern category, the yarn categories close
// enough for partial credit. Keyed by the pattern side; the relation is not
// symmetric (super bulky has no entry of its own).
var weightNeighbors = []struct {
	pattern  string
	adjacent []string
}{
	{normalize.WeightSport, []string{normalize.WeightDK}},
	{normalize.WeightDK, []string{normalize.WeightSport, normalize.WeightWorsted}},
	{normalize.WeightWorsted, []string{normalize.WeightDK, normalize.WeightBulky}},
	{normalize.WeightBulky, []string{normalize.WeightWorsted, normalize.WeightSuperBulky}},
}

// compositionRules pairs a keyword in the pattern's composition text with
// the fiber share that must dominate for full credit. Checked in order; the
// first rule whose keyword appears and whose fiber exceeds half wins.
var compositionRules = []struct {
	keyword string
	percent func(model.Fibers) float64
}{
	{"cotton", func(f model.Fibers) float64 { return f.Cotton }},
	{"acrylic", func(f model.Fibers) float64 { return f.Acrylic }},
	{"wool", func(f model.Fibers) float64 { return f.Wool }},
}

// WeightScore scores how well the yarn's declared thickness satisfies the
// pattern's required weight. Exact containment in either direction earns
// full points, neighboring categories earn half, and a missing value on
// either side earns nothing.
func WeightScore(patternWeight, yarnWeight string) float64 {
	p := normalize.Weight(patternWeight)
	y := normalize.Weight(yarnWeight)
	if p == "" || y == "" {
		return 0
	}
	lp, ly := strings.ToLower(p), strings.ToLower(y)
	if strings.Contains(lp, ly) || strings.Contains(ly, lp) {
		return MaxWeight
	}
	for _, n := range weightNeighbors {
		if n.pattern != p {
			continue
		}
		for _, adj := range n.adjacent {
			if adj == y {
				return MaxWeight / 2
			}
		}
	}
	return 0
}

// HookScore scores hook size proximity in millimeters. Values that are
// missing or fail to parse contribute nothing.
func HookScore(patternHook, yarnHook model.Cell) float64 {
	p, ok := patternHook.Float()
	if !ok {
		return 0
	}
	y, ok := yarnHook.Float()
	if !ok {
		return 0
	}
	switch d := math.Abs(p - y); {
	case d == 0:
		return MaxHook
	case d <= 0.5:
		return 15
	case d <= 1.0:
		return 10
	default:
		return 0
	}
}

// CompositionScore scores whether the yarn's dominant fiber satisfies the
// pattern's recommended composition text. Patterns that declare no
// preference ("not specified") earn partial credit with any yarn.
func CompositionScore(recommended string, f model.Fibers) float64 {
	text := strings.ToLower(recommended)
	for _, r := range compositionRules {
		if strings.Contains(text, r.keyword) && r.percent(f) > 50 {
			return MaxComposition
		}
	}
	if strings.Contains(text, "not specified") {
		return MaxComposition / 2
	}
	return 0
}

// RatingScore converts a 0-5 star rating into points, clamped to the
// criterion range.
func RatingScore(rating model.Cell) float64 {
	if rating.Missing() {
		return 0
	}
	r, ok := rating.Float()
	if !ok {
		return unparseableCredit
	}
	return clamp(r/5*MaxRating, MaxRating)
}

// PriceScore rewards cheaper yarns, banded on the catalog's euro pricing.
func PriceScore(price model.Cell) float64 {
	if price.Missing() {
		return 0
	}
	p, ok := price.Float()
	if !ok {
		return unparseableCredit
	}
	switch {
	case p < 3:
		return MaxPrice
	case p < 5:
		return 10
	case p < 8:
		return 5
	default:
		return 0
	}
}

// TemperatureScore scores how well a yarn's comfort range suits the ambient
// temperature on a 0-30 scale. Inside the range the penalty grows with the
// distance from the ideal; outside it grows twice as fast from the nearest
// bound.
func TemperatureScore(r normalize.ClimateRange, tempC float64) float64 {
	if tempC >= r.Min && tempC <= r.Max {
		return clamp(MaxTemperature-1.5*math.Abs(tempC-r.Ideal), MaxTemperature)
	}
	dist := r.Min - tempC
	if tempC > r.Max {
		dist = tempC - r.Max
	}
	return clamp(MaxTemperature-3*dist, MaxTemperature)
}

func clamp(v, upper float64) float64 {
	if v < 0 {
		return 0
	}
	if v > upper {
		return upper
	}
	return v
}

// Breakdown itemizes one yarn's match by criterion. Base is the percentage
// over the five catalog criteria. When a temperature context is supplied,
// Total = blend*Base + Temperature; the temperature points stay on their
// own 0-30 scale rather than being renormalized. Without temperature, Total
// equals Base and Blended is false.
type Breakdown struct {
	Weight      float64 `json:"weight"`
	Hook        float64 `json:"hook"`
	Composition float64 `json:"composition"`
	Rating      float64 `json:"rating"`
	Price       float64 `json:"price"`
	Base        float64 `json:"base"`
	Temperature float64 `json:"temperature"`
	Blended     bool    `json:"blended"`
	Total       float64 `json:"total"`
}

// Scorer computes match breakdowns for yarns against a pattern. Scorers are
// total functions: malformed catalog data degrades the affected criterion
// and never surfaces as an error. Implementations must be safe for
// concurrent use.
type Scorer interface {
	// Score computes the five-criterion base breakdown.
	Score(p model.Pattern, y model.Yarn) Breakdown
	// ScoreAt additionally blends the ambient temperature in.
	ScoreAt(p model.Pattern, y model.Yarn, tempC float64) Breakdown
}

// Option applies a configuration option to the CriteriaScorer.
type Option func(*CriteriaScorer)

// WithBlendFactor sets the share of the base composite kept when blending
// in the temperature score. Values outside (0, 1] are ignored.
func WithBlendFactor(f float64) Option {
	return func(s *CriteriaScorer) {
		if f > 0 && f <= 1 {
			s.blendFactor = f
		}
	}
}

// CriteriaScorer implements Scorer over the five catalog criteria with the
// optional temperature blend.
type CriteriaScorer struct {
	blendFactor float64
}

// NewCriteriaScorer creates a scorer with configuration options.
func NewCriteriaScorer(opts ...Option) *CriteriaScorer {
	s := &CriteriaScorer{
		blendFactor: defaultBlendFactor,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the base breakdown without a temperature context.
func (s *CriteriaScorer) Score(p model.Pattern, y model.Yarn) Breakdown {
	b := Breakdown{
		Weight:      WeightScore(p.YarnWeight, y.Thickness),
		Hook:        HookScore(p.HookSize, y.HookSize),
		Composition: CompositionScore(p.Composition, y.Fibers),
		Rating:      RatingScore(y.Rating),
		Price:       PriceScore(y.Price),
	}
	sum := b.Weight + b.Hook + b.Composition + b.Rating + b.Price
	b.Base = sum / baseMaxTotal * 100
	b.Total = b.Base
	return b
}

// ScoreAt blends the ambient temperature into the base breakdown.
func (s *CriteriaScorer) ScoreAt(p model.Pattern, y model.Yarn, tempC float64) Breakdown {
	b := s.Score(p, y)
	b.Temperature = TemperatureScore(normalize.ClassifyWarmth(y.Fibers), tempC)
	b.Blended = true
	b.Total = s.blendFactor*b.Base + b.Temperature
	return b
}
