package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrPatternNotFound    = errors.New("pattern not found")
	ErrYarnNotFound       = errors.New("yarn not found")
	ErrNotLoaded          = errors.New("catalog not loaded")
	ErrUnsupportedFormat  = errors.New("unsupported catalog format")
	ErrMismatchedCatalogs = errors.New("pattern and yarn catalogs use different formats")
)
