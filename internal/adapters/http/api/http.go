// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/hobbyloop/skein/internal/adapters/catalog"
	"github.com/hobbyloop/skein/internal/climate"
	"github.com/hobbyloop/skein/internal/domain/model"
	"github.com/hobbyloop/skein/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Recommend ranks the catalog's yarns against a pattern.
	Recommend(ctx context.Context, pattern string, limit int) ([]Match, error)
	// RecommendAt blends each base score with a temperature fit.
	RecommendAt(ctx context.Context, pattern string, tempC float64, limit int) ([]Match, error)

	// Read operations expose catalog data.
	Patterns(ctx context.Context, f catalog.Filter) ([]model.Pattern, error)
	Pattern(ctx context.Context, name string) (model.Pattern, error)
	YarnClimate(ctx context.Context, name string) (types.ClimateProfile, error)

	// Climate resolution for location-based recommendations.
	TemperatureFor(location string, season climate.Season) float64
	Locations() []string
	SeasonNow() climate.Season
}

// Match mirrors the read shape returned by recommendation queries.
type Match = types.Match

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	recommendHandler *RecommendHandler
	patternsHandler  *PatternsHandler
	climateHandler   *YarnClimateHandler
	rootHandler      *RootHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		recommendHandler: NewRecommendHandler(deps, maxLimit),
		patternsHandler:  NewPatternsHandler(deps),
		climateHandler:   NewYarnClimateHandler(deps),
		rootHandler:      NewRootHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/recommend", MetricsMiddleware(s.recommendHandler.HandleRecommend, "recommend"))
	mux.HandleFunc("/patterns", MetricsMiddleware(s.patternsHandler.HandleListPatterns, "patterns"))
	mux.HandleFunc("/patterns/", MetricsMiddleware(s.patternsHandler.HandleGetPattern, "pattern_detail"))
	mux.HandleFunc("/yarns/", MetricsMiddleware(s.climateHandler.HandleYarnClimate, "yarn_climate"))
	mux.HandleFunc("/", s.rootHandler.HandleRoot)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// translateError maps upstream errors to an HTTP status and error code.
func translateError(err error) (int, string) {
	switch {
	case errors.Is(err, catalog.ErrPatternNotFound), errors.Is(err, catalog.ErrYarnNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, catalog.ErrNotLoaded):
		return http.StatusServiceUnavailable, "catalog_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
