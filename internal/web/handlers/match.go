package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/lookalike-app/lookalike/internal/constants"
	"github.com/lookalike-app/lookalike/internal/embed"
	"github.com/lookalike-app/lookalike/internal/locate"
	"github.com/lookalike-app/lookalike/internal/match"
	"github.com/lookalike-app/lookalike/internal/scanner"
)

// MatchHandler handles the photo upload and lookalike query endpoint.
type MatchHandler struct {
	engine    *match.Engine
	oracle    scanner.Oracle
	maxUpload int64
	topK      int
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(engine *match.Engine, oracle scanner.Oracle, maxUpload int64, topK int) *MatchHandler {
	if maxUpload <= 0 {
		maxUpload = constants.MaxUploadSize
	}
	if topK < 1 {
		topK = constants.DefaultTopK
	}
	return &MatchHandler{
		engine:    engine,
		oracle:    oracle,
		maxUpload: maxUpload,
		topK:      topK,
	}
}

// MatchEntry is one ranked match in the response, with the image exposed
// through the image-serving endpoint rather than as a filesystem path.
type MatchEntry struct {
	Name       string  `json:"name"`
	ImageURL   string  `json:"image_url,omitempty"`
	Distance   float64 `json:"distance"`
	Similarity float64 `json:"similarity_score"`
}

// MatchResponse represents the lookalike query response.
type MatchResponse struct {
	Matches []MatchEntry `json:"matches"`
}

// Match accepts a multipart photo upload, embeds the face, and responds with
// the ranked lookalikes.
func (h *MatchHandler) Match(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form (photo too large?)")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no photo uploaded")
		return
	}
	defer file.Close()

	if !locate.IsSupportedImage(header.Filename) {
		respondError(w, http.StatusBadRequest, "invalid file type")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read uploaded photo")
		return
	}

	resized, err := embed.ResizeImage(data, constants.MaxImageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, "uploaded file is not a valid image")
		return
	}

	embedding, err := h.oracle.ComputeFaceEmbedding(r.Context(), resized)
	if errors.Is(err, embed.ErrNoFace) {
		respondError(w, http.StatusBadRequest, "no face found in the uploaded photo")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("embedding failed: %v", err))
		return
	}

	results, err := h.engine.Match(embedding, h.topK)
	if errors.Is(err, match.ErrEmptyCatalog) {
		respondError(w, http.StatusConflict, "celebrity database is empty, scan a directory first")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entries := make([]MatchEntry, len(results))
	for i, res := range results {
		entries[i] = MatchEntry{
			Name:       res.Name,
			Distance:   res.Distance,
			Similarity: res.Similarity,
		}
		if res.ImagePath != "" {
			entries[i].ImageURL = "/api/v1/images/" + url.PathEscape(res.Name)
		}
	}

	respondJSON(w, http.StatusOK, MatchResponse{Matches: entries})
}
