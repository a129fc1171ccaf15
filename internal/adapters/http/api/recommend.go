// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/hobbyloop/skein/internal/climate"
)

// RecommendDependencies defines the interface for recommendation operations.
type RecommendDependencies interface {
	Recommend(ctx context.Context, pattern string, limit int) ([]Match, error)
	RecommendAt(ctx context.Context, pattern string, tempC float64, limit int) ([]Match, error)
	TemperatureFor(location string, season climate.Season) float64
	SeasonNow() climate.Season
}

// RecommendHandler handles recommendation requests.
type RecommendHandler struct {
	deps     RecommendDependencies
	maxLimit int
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(deps RecommendDependencies, maxLimit int) *RecommendHandler {
	return &RecommendHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// recommendResponse mirrors the OpenAPI schema for GET /recommend.
// Temperature is nil when scoring ran without a temperature context.
type recommendResponse struct {
	Pattern     string   `json:"pattern"`
	Temperature *float64 `json:"temperature,omitempty"`
	Location    string   `json:"location,omitempty"`
	Season      string   `json:"season,omitempty"`
	Matches     []Match  `json:"matches"`
}

// HandleRecommend handles GET /recommend requests.
// Query parameters:
//
//	pattern  required pattern name
//	temp     degrees Celsius, mutually exclusive with location
//	location climate table row, optionally refined by season
//	season   winter|spring|summer|fall, only valid with location
//	limit    optional result cap, defaults to the configured top-N
func (h *RecommendHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	pattern := strings.TrimSpace(q.Get("pattern"))
	if pattern == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing pattern", ErrBadRequest))
		return
	}

	limit := 0
	if limitStr := q.Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: limit exceeds %d", ErrBadRequest, h.maxLimit))
			return
		}
		limit = n
	}

	tempStr := q.Get("temp")
	location := strings.TrimSpace(q.Get("location"))
	seasonStr := q.Get("season")

	if tempStr != "" && location != "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: temp and location are mutually exclusive", ErrBadRequest))
		return
	}
	if seasonStr != "" && location == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: season requires location", ErrBadRequest))
		return
	}

	resp := recommendResponse{Pattern: pattern}

	var (
		matches []Match
		err     error
	)
	switch {
	case tempStr != "":
		temp, parseErr := strconv.ParseFloat(tempStr, 64)
		if parseErr != nil || math.IsNaN(temp) || math.IsInf(temp, 0) {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: temp must be a finite number", ErrBadRequest))
			return
		}
		resp.Temperature = &temp
		matches, err = h.deps.RecommendAt(r.Context(), pattern, temp, limit)

	case location != "":
		season := h.deps.SeasonNow()
		if seasonStr != "" {
			season, err = climate.ParseSeason(seasonStr)
			if err != nil {
				writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %s", ErrBadRequest, err))
				return
			}
		}
		temp := h.deps.TemperatureFor(location, season)
		resp.Temperature = &temp
		resp.Location = location
		resp.Season = string(season)
		matches, err = h.deps.RecommendAt(r.Context(), pattern, temp, limit)

	default:
		matches, err = h.deps.Recommend(r.Context(), pattern, limit)
	}

	if err != nil {
		status, code := translateError(err)
		writeError(w, status, code, err)
		return
	}

	resp.Matches = matches
	writeJSON(w, http.StatusOK, resp)
}
