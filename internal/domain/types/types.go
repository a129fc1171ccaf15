// Package types contains common types shared across the application layers.
package types

import (
	"time"

	"github.com/hobbyloop/skein/internal/domain/model"
	"github.com/hobbyloop/skein/internal/domain/normalize"
	"github.com/hobbyloop/skein/internal/domain/scoring"
)

// Match is one ranked recommendation: a catalog yarn together with the
// score breakdown that earned its position. Rank is 1-based.
type Match struct {
	Rank      int               `json:"rank"`
	Yarn      model.Yarn        `json:"yarn"`
	Breakdown scoring.Breakdown `json:"breakdown"`
}

// ClimateProfile describes the temperature suitability derived from a
// yarn's fiber mix, for display alongside recommendations.
type ClimateProfile struct {
	Yarn   string                 `json:"yarn"`
	Range  normalize.ClimateRange `json:"range"`
	Season string                 `json:"season"`
}

// Hit is one observed pattern request, queued for popularity tracking.
// Blended marks requests that carried a temperature context.
type Hit struct {
	Pattern string    `json:"pattern"`
	Blended bool      `json:"blended"`
	At      time.Time `json:"at"`
}
