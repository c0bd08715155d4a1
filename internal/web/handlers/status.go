package handlers

import (
	"net/http"

	"github.com/lookalike-app/lookalike/internal/catalog"
)

// StatusHandler reports the catalog state.
type StatusHandler struct {
	catalog *catalog.Catalog
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(cat *catalog.Catalog) *StatusHandler {
	return &StatusHandler{catalog: cat}
}

// Get returns identity counts and the last scan timestamp.
func (h *StatusHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Status())
}
