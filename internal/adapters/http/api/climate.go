// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hobbyloop/skein/internal/domain/types"
)

// YarnClimateDependencies defines the interface for yarn climate lookups.
type YarnClimateDependencies interface {
	YarnClimate(ctx context.Context, name string) (types.ClimateProfile, error)
}

// YarnClimateHandler handles yarn climate profile requests.
type YarnClimateHandler struct {
	deps YarnClimateDependencies
}

// NewYarnClimateHandler creates a new yarn climate handler.
func NewYarnClimateHandler(deps YarnClimateDependencies) *YarnClimateHandler {
	return &YarnClimateHandler{deps: deps}
}

// HandleYarnClimate handles GET /yarns/{name}/climate requests.
func (h *YarnClimateHandler) HandleYarnClimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter between /yarns/ and /climate
	path := strings.TrimPrefix(r.URL.Path, "/yarns/")
	name, ok := strings.CutSuffix(path, "/climate")
	if !ok || name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: expected /yarns/{name}/climate", ErrBadRequest))
		return
	}

	profile, err := h.deps.YarnClimate(r.Context(), name)
	if err != nil {
		status, code := translateError(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
