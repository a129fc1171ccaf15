package popularity

import "errors"

// Sentinel kinds for popularity errors.
var (
	ErrNotFound     = errors.New("pattern not tracked")
	ErrInvalidLimit = errors.New("invalid top limit")
)
