// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// LocationsProvider defines the interface for listing climate locations.
type LocationsProvider interface {
	Locations() []string
}

// RootHandler handles root path requests.
type RootHandler struct {
	locations LocationsProvider
}

// NewRootHandler creates a new root handler.
func NewRootHandler(locations LocationsProvider) *RootHandler {
	return &RootHandler{locations: locations}
}

// rootResponse is the service index served at /.
type rootResponse struct {
	Service   string   `json:"service"`
	Endpoints []string `json:"endpoints"`
	Locations []string `json:"locations"`
}

// HandleRoot handles GET / requests with a small service index. Any
// other unmatched path falls through to a 404.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, http.StatusOK, rootResponse{
		Service: "skein",
		Endpoints: []string{
			"/recommend?pattern=NAME[&temp=C|&location=L[&season=S]][&limit=N]",
			"/patterns[?difficulty=D&weight=W&q=Q]",
			"/patterns/{name}",
			"/yarns/{name}/climate",
			"/stats",
			"/healthz",
			"/api-docs",
			"/openapi.yaml",
		},
		Locations: h.locations.Locations(),
	})
}
