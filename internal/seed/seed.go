// Package seed generates synthetic pattern and yarn catalogs for smoke
// runs and load experiments. Rows follow the messy shape of the real
// spreadsheet exports: numeric cells are text, some are blank and a few
// hold words instead of numbers.
package seed

import (
	"context"
	"crypto/rand"
	"math"
	"math/big"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hobbyloop/skein/internal/domain/dedupe"
	"github.com/hobbyloop/skein/internal/domain/model"
)

// Default generator configuration constants.
const (
	defaultPatternCount = 12
	defaultYarnCount    = 20
	defaultWorkers      = 4
	nameSuffixLength    = 8
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	brandBlankOdds     = 10
	hookBlankOdds      = 12
)

// Constants for yarn price cases.
const (
	casePriceBargain  = 0
	casePriceBudget   = 1
	casePriceValue    = 2
	casePriceEveryday = 3
	casePriceUpper    = 4
	casePricePremium  = 5
	casePriceBlank    = 6
	casePriceWorded   = 7

	priceCaseCount = 8
)

// Constants for yarn price ranges, in currency units per ball.
const (
	priceBargainMin    = 0.9
	priceBargainRange  = 0.6
	priceBudgetMin     = 1.5
	priceBudgetRange   = 1.5
	priceValueMin      = 3.0
	priceValueRange    = 1.0
	priceEverydayMin   = 4.0
	priceEverydayRange = 1.0
	priceUpperMin      = 5.0
	priceUpperRange    = 3.0
	pricePremiumMin    = 8.0
	pricePremiumRange  = 4.0
)

// Constants for yarn rating cases.
const (
	caseRatingLoved     = 0
	caseRatingLovedAlso = 1
	caseRatingSolid     = 2
	caseRatingSolidAlso = 3
	caseRatingMixed     = 4
	caseRatingPoor      = 5
	caseRatingBlank     = 6
	caseRatingWorded    = 7

	ratingCaseCount = 8
)

// Constants for yarn rating ranges, in stars.
const (
	ratingLovedMin   = 4.0
	ratingLovedRange = 1.0
	ratingSolidMin   = 3.0
	ratingSolidRange = 1.0
	ratingMixedMin   = 2.0
	ratingMixedRange = 1.0
	ratingPoorMin    = 1.0
	ratingPoorRange  = 1.0
)

// Constants for fiber profile cases.
const (
	caseFiberWool       = 0
	caseFiberCotton     = 1
	caseFiberAcrylic    = 2
	caseFiberWorkhorse  = 3
	caseFiberLuxury     = 4
	caseFiberPlant      = 5
	caseFiberLinen      = 6
	caseFiberAllRounder = 7

	fiberCaseCount = 8
)

// Constants for fiber profile shares, in percent.
const (
	fiberWoolMin        = 60.0
	fiberWoolRange      = 30.0
	fiberCottonMin      = 70.0
	fiberCottonRange    = 30.0
	fiberAcrylicMin     = 60.0
	fiberAcrylicRange   = 40.0
	fiberWorkhorseMin   = 40.0
	fiberWorkhorseRange = 20.0
	fiberMohairMin      = 20.0
	fiberMohairRange    = 20.0
	fiberBambooMin      = 30.0
	fiberBambooRange    = 20.0
	fiberLinenMin       = 40.0
	fiberLinenRange     = 30.0

	fullShare         = 100.0
	allRounderCotton  = 30.0
	allRounderAcrylic = 40.0
	allRounderWool    = 30.0
)

// Constants for pattern difficulty cases.
const (
	difficultyCaseCount = 5
)

// weightClasses pairs a catalog weight label with its hook range in
// millimeters. Labels repeat the free-text spellings of the source
// spreadsheets rather than canonical categories.
var weightClasses = []struct {
	label   string
	hookMin float64
	hookMax float64
}{
	{"Sport", 3.0, 4.0},
	{"Light (DK)", 3.5, 4.5},
	{"DK", 3.5, 4.5},
	{"Medium (Worsted)", 4.5, 5.5},
	{"Aran", 5.0, 6.0},
	{"Heavy (Bulky)", 6.0, 8.0},
	{"Super Bulky", 8.0, 10.0},
	{"Jumbo", 10.0, 15.0},
}

// Name and phrase pools for generated rows.
var (
	yarnBases  = []string{"Merino", "Alpaca", "Cotton", "Bamboo", "Linen", "Mohair", "Highland", "Tweed", "Velvet", "Boucle"}
	yarnMoods  = []string{"Cloud", "Breeze", "Mist", "Glow", "Dream", "Whisper", "Frost", "Meadow", "Ember", "Drift"}
	yarnBrands = []string{"Drops", "Katia", "Hobbii", "Scheepjes", "Lana Grossa", "Rico", "Malabrigo", "Cascade"}

	patternMoods    = []string{"Cozy", "Breezy", "Chunky", "Delicate", "Rustic", "Vintage", "Modern", "Simple"}
	patternSubjects = []string{"Winter Scarf", "Market Bag", "Baby Blanket", "Beanie", "Cardigan", "Amigurumi Fox", "Triangle Shawl", "Coaster Set", "Cushion Cover", "Summer Top"}

	patternStructures = []string{
		"Worked flat in rows",
		"Worked in the round",
		"Granny squares joined as you go",
		"Top-down with raglan increases",
	}
	patternStitches = []string{
		"ch, sc, dc",
		"ch, sc, inc, dec",
		"ch, dc, tr, picot",
		"ch, hdc, blo sc",
	}
	patternColors = []string{
		"Cream, Sage",
		"Mustard, Teal",
		"Natural White",
		"Terracotta, Blush",
		"Denim, Stone",
	}
	patternCompositions = []string{
		"Cotton 100%",
		"Wool 70%, Acrylic 30%",
		"Merino Wool",
		"Acrylic, easy care",
		"Cotton or bamboo blend",
		"Wool 80%, Mohair 20%",
		"not specified",
		"",
	}
)

// Catalog is one generated set of patterns and yarns.
type Catalog struct {
	Patterns []model.Pattern
	Yarns    []model.Yarn
}

// Generator builds synthetic catalogs with varied, spreadsheet-shaped
// values.
type Generator struct {
	patternCount int
	yarnCount    int
	workers      int
}

// New constructs a Generator with default configuration.
func New(opts ...Option) *Generator {
	g := &Generator{
		patternCount: defaultPatternCount,
		yarnCount:    defaultYarnCount,
		workers:      defaultWorkers,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate builds a catalog. Names are unique within the catalog; every
// other attribute is drawn independently per row.
func (g *Generator) Generate(ctx context.Context) (*Catalog, error) {
	seen := dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(g.patternCount + g.yarnCount),
	)

	// Names are drawn up front so uniqueness never depends on worker
	// scheduling.
	patternNames := make([]string, g.patternCount)
	for i := range patternNames {
		patternNames[i] = uniqueName(ctx, seen, pick(patternMoods)+" "+pick(patternSubjects))
	}
	yarnNames := make([]string, g.yarnCount)
	for i := range yarnNames {
		yarnNames[i] = uniqueName(ctx, seen, pick(yarnBases)+" "+pick(yarnMoods))
	}

	patterns := make([]model.Pattern, g.patternCount)
	if err := g.fill(ctx, g.patternCount, func(i int) {
		patterns[i] = generatePattern(patternNames[i])
	}); err != nil {
		return nil, err
	}

	yarns := make([]model.Yarn, g.yarnCount)
	if err := g.fill(ctx, g.yarnCount, func(i int) {
		yarns[i] = generateYarn(yarnNames[i])
	}); err != nil {
		return nil, err
	}

	return &Catalog{Patterns: patterns, Yarns: yarns}, nil
}

// fill runs build(i) for every index using a bounded worker pool. Each
// index is written by exactly one worker, so no further locking is
// needed.
func (g *Generator) fill(ctx context.Context, count int, build func(i int)) error {
	workers := g.workers
	if workers > count {
		workers = count
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int, count)
	for i := 0; i < count; i++ {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
					build(i)
				}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "catalog generation cancelled")
	}
	return nil
}

// uniqueName returns base, or base plus a short suffix when the catalog
// already holds that name.
func uniqueName(ctx context.Context, seen dedupe.Deduper, base string) string {
	name := base
	for seen.SeenAndRecord(ctx, name) {
		name = base + " " + uuid.New().String()[:nameSuffixLength]
	}
	return name
}

// generatePattern builds a single pattern row.
func generatePattern(name string) model.Pattern {
	class := weightClasses[randIndex(len(weightClasses))]
	hook := generateHook(class.hookMin, class.hookMax)

	materials := "Yarn, tapestry needle, scissors"
	if !hook.Missing() {
		materials = "Yarn, " + hook.String() + " mm hook, tapestry needle, scissors"
	}

	return model.Pattern{
		Name:        name,
		YarnWeight:  class.label,
		HookSize:    hook,
		Composition: pick(patternCompositions),
		Difficulty:  generateDifficulty(),
		Structure:   pick(patternStructures),
		Stitches:    pick(patternStitches),
		Materials:   materials,
		Colors:      pick(patternColors),
	}
}

// generateYarn builds a single yarn row.
func generateYarn(name string) model.Yarn {
	class := weightClasses[randIndex(len(weightClasses))]

	return model.Yarn{
		Name:      name,
		Brand:     generateBrand(),
		Price:     generatePrice(),
		Rating:    generateRating(),
		Thickness: class.label,
		HookSize:  generateHook(class.hookMin, class.hookMax),
		Fibers:    generateFibers(),
	}
}

// generateDifficulty draws a difficulty level, weighted toward the
// beginner end the way published pattern collections are.
func generateDifficulty() string {
	switch randIndex(difficultyCaseCount) {
	case 0, 1:
		return "Beginner"
	case 2, 3:
		return "Intermediate"
	default:
		return "Advanced"
	}
}

// generateBrand draws a brand name; the occasional row has none.
func generateBrand() string {
	if randIndex(brandBlankOdds) == 0 {
		return ""
	}
	return pick(yarnBrands)
}

// generateHook draws a hook size within the class range, rounded to half
// millimeters; the occasional cell is blank.
func generateHook(minMM, maxMM float64) model.Cell {
	if randIndex(hookBlankOdds) == 0 {
		return ""
	}
	v := minMM + getRandomFloat()*(maxMM-minMM)
	v = math.Round(v*2) / 2
	return model.Cell(strconv.FormatFloat(v, 'f', -1, 64))
}

// generatePrice draws a price cell with the spread of a real shop
// catalog, including blank and worded cells.
func generatePrice() model.Cell {
	switch randIndex(priceCaseCount) {
	case casePriceBargain:
		return formatCell(priceBargainMin+getRandomFloat()*priceBargainRange, 2)
	case casePriceBudget:
		return formatCell(priceBudgetMin+getRandomFloat()*priceBudgetRange, 2)
	case casePriceValue:
		return formatCell(priceValueMin+getRandomFloat()*priceValueRange, 2)
	case casePriceEveryday:
		return formatCell(priceEverydayMin+getRandomFloat()*priceEverydayRange, 2)
	case casePriceUpper:
		return formatCell(priceUpperMin+getRandomFloat()*priceUpperRange, 2)
	case casePricePremium:
		return formatCell(pricePremiumMin+getRandomFloat()*pricePremiumRange, 2)
	case casePriceBlank:
		return ""
	case casePriceWorded:
		return "on request"
	default:
		return formatCell(priceValueMin+getRandomFloat()*priceValueRange, 2)
	}
}

// generateRating draws a star rating cell, mostly favorable the way shop
// reviews skew, including blank and worded cells.
func generateRating() model.Cell {
	switch randIndex(ratingCaseCount) {
	case caseRatingLoved, caseRatingLovedAlso:
		return formatCell(ratingLovedMin+getRandomFloat()*ratingLovedRange, 1)
	case caseRatingSolid, caseRatingSolidAlso:
		return formatCell(ratingSolidMin+getRandomFloat()*ratingSolidRange, 1)
	case caseRatingMixed:
		return formatCell(ratingMixedMin+getRandomFloat()*ratingMixedRange, 1)
	case caseRatingPoor:
		return formatCell(ratingPoorMin+getRandomFloat()*ratingPoorRange, 1)
	case caseRatingBlank:
		return ""
	case caseRatingWorded:
		return "five stars"
	default:
		return formatCell(ratingSolidMin+getRandomFloat()*ratingSolidRange, 1)
	}
}

// generateFibers draws one fiber profile. Shares are whole percentages
// and sum to 100.
func generateFibers() model.Fibers {
	switch randIndex(fiberCaseCount) {
	case caseFiberWool:
		wool := math.Round(fiberWoolMin + getRandomFloat()*fiberWoolRange)
		return model.Fibers{Wool: wool, Acrylic: fullShare - wool}
	case caseFiberCotton:
		cotton := math.Round(fiberCottonMin + getRandomFloat()*fiberCottonRange)
		return model.Fibers{Cotton: cotton, Linen: fullShare - cotton}
	case caseFiberAcrylic:
		acrylic := math.Round(fiberAcrylicMin + getRandomFloat()*fiberAcrylicRange)
		return model.Fibers{Acrylic: acrylic, Wool: fullShare - acrylic}
	case caseFiberWorkhorse:
		wool := math.Round(fiberWorkhorseMin + getRandomFloat()*fiberWorkhorseRange)
		return model.Fibers{Wool: wool, Acrylic: fullShare - wool}
	case caseFiberLuxury:
		mohair := math.Round(fiberMohairMin + getRandomFloat()*fiberMohairRange)
		return model.Fibers{Mohair: mohair, Wool: fullShare - mohair}
	case caseFiberPlant:
		bamboo := math.Round(fiberBambooMin + getRandomFloat()*fiberBambooRange)
		return model.Fibers{Bamboo: bamboo, Cotton: fullShare - bamboo}
	case caseFiberLinen:
		linen := math.Round(fiberLinenMin + getRandomFloat()*fiberLinenRange)
		return model.Fibers{Linen: linen, Cotton: fullShare - linen}
	default:
		return model.Fibers{Cotton: allRounderCotton, Acrylic: allRounderAcrylic, Wool: allRounderWool}
	}
}

func formatCell(v float64, decimals int) model.Cell {
	return model.Cell(strconv.FormatFloat(v, 'f', decimals, 64))
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randIndex returns a random index in [0, n).
func randIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

func pick(list []string) string {
	return list[randIndex(len(list))]
}
