// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hobbyloop/skein/internal/adapters/catalog"
	"github.com/hobbyloop/skein/internal/domain/model"
)

// PatternDependencies defines the interface for pattern operations.
type PatternDependencies interface {
	Patterns(ctx context.Context, f catalog.Filter) ([]model.Pattern, error)
	Pattern(ctx context.Context, name string) (model.Pattern, error)
}

// PatternsHandler handles pattern listing and detail requests.
type PatternsHandler struct {
	deps PatternDependencies
}

// NewPatternsHandler creates a new patterns handler.
func NewPatternsHandler(deps PatternDependencies) *PatternsHandler {
	return &PatternsHandler{deps: deps}
}

// HandleListPatterns handles GET /patterns requests.
// Optional query parameters: difficulty, weight, q (name substring).
func (h *PatternsHandler) HandleListPatterns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	filter := catalog.Filter{
		Difficulty: q.Get("difficulty"),
		Weight:     q.Get("weight"),
		Query:      q.Get("q"),
	}

	patterns, err := h.deps.Patterns(r.Context(), filter)
	if err != nil {
		status, code := translateError(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, patterns)
}

// HandleGetPattern handles GET /patterns/{name} requests.
func (h *PatternsHandler) HandleGetPattern(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /patterns/
	name := strings.TrimPrefix(r.URL.Path, "/patterns/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing pattern name", ErrBadRequest))
		return
	}

	pattern, err := h.deps.Pattern(r.Context(), name)
	if err != nil {
		status, code := translateError(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, pattern)
}
