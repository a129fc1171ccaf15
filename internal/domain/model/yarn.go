// Package model contains domain models passed between layers.
package model

import (
	"math"
	"strconv"
	"strings"
)

// UnknownBrand is the sentinel used when a yarn row carries no brand.
const UnknownBrand = "Unknown"

// Cell is a single value from a catalog source, kept as raw text.
// Spreadsheet exports carry blanks, currency symbols and stray words in
// numeric columns; keeping the text lets each scorer distinguish "missing"
// from "present but unparseable" (the two are scored differently).
type Cell string

// Missing reports whether the cell is empty after trimming.
func (c Cell) Missing() bool {
	return strings.TrimSpace(string(c)) == ""
}

// Float parses the cell as a finite float64. It returns false for missing,
// non-numeric and non-finite values.
func (c Cell) Float() (float64, bool) {
	s := strings.TrimSpace(string(c))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (c Cell) String() string {
	return strings.TrimSpace(string(c))
}

// UnmarshalJSON accepts strings, numbers and null, so hand-edited catalogs
// can write "price": 2.5 as well as "price": "2.5".
func (c *Cell) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*c = ""
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		*c = Cell(u)
		return nil
	}
	*c = Cell(s)
	return nil
}

// Fibers holds the declared fiber percentages of a yarn. Each value is an
// independent 0-100 percentage; rows are not guaranteed to sum to 100.
type Fibers struct {
	Cotton  float64 `json:"cotton"`
	Linen   float64 `json:"linen"`
	Bamboo  float64 `json:"bamboo"`  // bamboo/viscose
	Acrylic float64 `json:"acrylic"`
	Wool    float64 `json:"wool"`
	Mohair  float64 `json:"mohair"` // mohair/alpaca
}

// Yarn represents one product row of the yarn catalog.
type Yarn struct {
	Name      string `json:"name"`
	Brand     string `json:"brand,omitempty"`
	Price     Cell   `json:"price,omitempty"`    // currency units per ball
	Rating    Cell   `json:"rating,omitempty"`   // 0-5 stars
	Thickness string `json:"thickness"`          // declared weight category, free text
	HookSize  Cell   `json:"hook_size,omitempty"` // recommended hook/needle, millimeters
	Fibers    Fibers `json:"fibers"`
}

// BrandName returns the brand, or UnknownBrand when the row has none.
func (y Yarn) BrandName() string {
	if strings.TrimSpace(y.Brand) == "" {
		return UnknownBrand
	}
	return y.Brand
}
