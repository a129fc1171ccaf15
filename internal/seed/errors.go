package seed

import "errors"

// Sentinel kinds for seed errors.
var (
	ErrEmptyCatalog = errors.New("empty catalog")
)
