package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lookalike-app/lookalike/internal/catalog"
)

// ImagesHandler serves the representative images of known identities.
// Only paths recorded in the catalog are served, so arbitrary filesystem
// access through this endpoint is not possible.
type ImagesHandler struct {
	catalog *catalog.Catalog
}

// NewImagesHandler creates a new images handler.
func NewImagesHandler(cat *catalog.Catalog) *ImagesHandler {
	return &ImagesHandler{catalog: cat}
}

// Get serves the representative image for the named identity.
func (h *ImagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "missing identity name")
		return
	}

	identity := h.catalog.Snapshot().Lookup(name)
	if identity == nil || identity.ImagePath == "" {
		respondError(w, http.StatusNotFound, "image not found")
		return
	}

	http.ServeFile(w, r, identity.ImagePath)
}
