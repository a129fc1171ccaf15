package catalog

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/hobbyloop/skein/internal/domain/model"
)

// Column headers of the published spreadsheets. "Yarn thikness" and
// "Bamboo/Viscouse (%)" are misspelled in the source files and are
// matched verbatim.
const (
	colPatternName = "Pattern Name"
	colYarnWeight  = "Yarn Weight"
	colHookSize    = "Hook Size (mm)"
	colComposition = "Recommended Composition"
	colDifficulty  = "Difficulty Level"
	colStructure   = "Pattern Structure"
	colStitches    = "Stitches Required"
	colMaterials   = "Materials Needed"
	colColors      = "Recommended Colors"
	colSourceFile  = "Source File"

	colProductName = "Name of the product"
	colBrand       = "Brand"
	colThickness   = "Yarn thikness"
	colPrice       = "Price (€)"
	colRating      = "Rating (★)"
	colNeedleSize  = "Needle/Hook Size (mm)"
	colCotton      = "Cotton (%)"
	colLinen       = "Linen (%)"
	colBamboo      = "Bamboo/Viscouse (%)"
	colAcrylic     = "Acrylic (%)"
	colWool        = "Wool (%)"
	colMohair      = "Mohair/Alpaca (%)"
)

// CSVSource reads patterns and yarns from two header-mapped CSV files
// exported from the source spreadsheets. Column order is free; unknown
// columns are ignored.
type CSVSource struct {
	patternsPath string
	yarnsPath    string
}

// NewCSVSource constructs a source over the given file paths.
func NewCSVSource(patternsPath, yarnsPath string) *CSVSource {
	return &CSVSource{patternsPath: patternsPath, yarnsPath: yarnsPath}
}

// Kind implements Source.
func (s *CSVSource) Kind() string { return "csv" }

// Patterns implements Source.
func (s *CSVSource) Patterns(ctx context.Context) ([]model.Pattern, error) {
	header, rows, err := readCSVFile(ctx, s.patternsPath)
	if err != nil {
		return nil, err
	}
	if _, ok := header[colPatternName]; !ok {
		return nil, errors.Errorf("missing %q column: %s", colPatternName, s.patternsPath)
	}

	out := make([]model.Pattern, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.Pattern{
			Name:        field(row, header, colPatternName),
			YarnWeight:  field(row, header, colYarnWeight),
			HookSize:    model.Cell(field(row, header, colHookSize)),
			Composition: field(row, header, colComposition),
			Difficulty:  field(row, header, colDifficulty),
			Structure:   field(row, header, colStructure),
			Stitches:    field(row, header, colStitches),
			Materials:   field(row, header, colMaterials),
			Colors:      field(row, header, colColors),
			SourceFile:  field(row, header, colSourceFile),
		})
	}
	return out, nil
}

// Yarns implements Source.
func (s *CSVSource) Yarns(ctx context.Context) ([]model.Yarn, error) {
	header, rows, err := readCSVFile(ctx, s.yarnsPath)
	if err != nil {
		return nil, err
	}
	if _, ok := header[colProductName]; !ok {
		return nil, errors.Errorf("missing %q column: %s", colProductName, s.yarnsPath)
	}

	out := make([]model.Yarn, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.Yarn{
			Name:      field(row, header, colProductName),
			Brand:     field(row, header, colBrand),
			Price:     model.Cell(field(row, header, colPrice)),
			Rating:    model.Cell(field(row, header, colRating)),
			Thickness: field(row, header, colThickness),
			HookSize:  model.Cell(field(row, header, colNeedleSize)),
			Fibers: model.Fibers{
				Cotton:  percent(field(row, header, colCotton)),
				Linen:   percent(field(row, header, colLinen)),
				Bamboo:  percent(field(row, header, colBamboo)),
				Acrylic: percent(field(row, header, colAcrylic)),
				Wool:    percent(field(row, header, colWool)),
				Mohair:  percent(field(row, header, colMohair)),
			},
		})
	}
	return out, nil
}

// readCSVFile returns the header index and the data rows. Ragged rows
// are tolerated; missing cells read as empty.
func readCSVFile(ctx context.Context, path string) (map[string]int, [][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to read catalog file: %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to parse catalog CSV: %s", path)
	}
	if len(records) == 0 {
		return nil, nil, errors.Errorf("empty catalog CSV: %s", path)
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.TrimSpace(name)] = i
	}
	return header, records[1:], nil
}

func field(row []string, header map[string]int, name string) string {
	i, ok := header[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// percent parses a fiber percentage cell. Blank and malformed cells
// count as zero, the same as an undeclared fiber.
func percent(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
