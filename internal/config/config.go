// Package config defines service configuration and loading.
//
// Conventions:
// - New() returns defaults; Load(ctx) layers file and env on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"

	"github.com/hobbyloop/skein/internal/climate"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output from key=value text to JSON.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CatalogPatterns and CatalogYarns point at the pattern and yarn
	// files. Both must share an extension, .json or .csv.
	CatalogPatterns string `koanf:"catalog_patterns"`
	CatalogYarns    string `koanf:"catalog_yarns"`

	// CatalogDatabase, when set, names a SQLite file holding both
	// tables and takes precedence over the file paths.
	CatalogDatabase string `koanf:"catalog_database"`

	// TopN sets how many matches a recommendation returns by default.
	TopN int `koanf:"top_n"`

	// MaxLimit caps GET /recommend?limit.
	MaxLimit int `koanf:"max_limit"`

	// ScoreWorkers bounds the scoring fan-out. 0 sizes the pool from
	// GOMAXPROCS; 1 scores serially.
	ScoreWorkers int `koanf:"score_workers"`

	// BlendFactor weighs the base score when blending with the
	// temperature score, in (0, 1].
	BlendFactor float64 `koanf:"blend_factor"`

	// HitWorkers sets how many workers drain the popularity hit queue.
	HitWorkers int `koanf:"hit_workers"`

	// HitQueueSize bounds the popularity hit queue. A full queue drops
	// hits rather than blocking requests.
	HitQueueSize int `koanf:"hit_queue_size"`

	// Climate adds or overrides location rows in the built-in
	// temperature table. File-only; location names carry spaces.
	Climate map[string]climate.SeasonTemps `koanf:"climate"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogJSON:         false,
		Addr:            ":9080",
		CatalogPatterns: "data/patterns.json",
		CatalogYarns:    "data/yarns.json",
		CatalogDatabase: "",
		TopN:            3,
		MaxLimit:        25,
		ScoreWorkers:    0,
		BlendFactor:     0.7,
		HitWorkers:      2,
		HitQueueSize:    4096,
	}
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.CatalogDatabase == "" && (c.CatalogPatterns == "" || c.CatalogYarns == "") {
		return fmt.Errorf("%w: catalog paths must not be empty", ErrInvalidConfig)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("%w: top_n must be positive", ErrInvalidConfig)
	}
	if c.MaxLimit < c.TopN {
		return fmt.Errorf("%w: max_limit must be at least top_n", ErrInvalidConfig)
	}
	if c.ScoreWorkers < 0 {
		return fmt.Errorf("%w: score_workers must not be negative", ErrInvalidConfig)
	}
	if c.BlendFactor <= 0 || c.BlendFactor > 1 {
		return fmt.Errorf("%w: blend_factor must be in (0, 1]", ErrInvalidConfig)
	}
	if c.HitWorkers <= 0 {
		return fmt.Errorf("%w: hit_workers must be positive", ErrInvalidConfig)
	}
	if c.HitQueueSize <= 0 {
		return fmt.Errorf("%w: hit_queue_size must be positive", ErrInvalidConfig)
	}
	return nil
}
