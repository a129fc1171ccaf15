package climate

import (
	"errors"
)

// Sentinel kinds for climate errors.
var (
	ErrUnknownSeason = errors.New("unknown season")
)
