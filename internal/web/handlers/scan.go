package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lookalike-app/lookalike/internal/scanner"
)

// ScanHandler handles directory scan endpoints.
type ScanHandler struct {
	scanner *scanner.Scanner
}

// NewScanHandler creates a new scan handler.
func NewScanHandler(sc *scanner.Scanner) *ScanHandler {
	return &ScanHandler{scanner: sc}
}

// ScanStartRequest represents a request to start a directory scan.
type ScanStartRequest struct {
	DirectoryPath string `json:"directory_path"`
}

// Start launches a background scan of the given directory.
func (h *ScanHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req ScanStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	root := strings.TrimSpace(req.DirectoryPath)
	if root == "" {
		respondError(w, http.StatusBadRequest, "directory path is required")
		return
	}

	job, err := h.scanner.Start(root)
	switch {
	case errors.Is(err, scanner.ErrScanConflict):
		respondError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, scanner.ErrInvalidRoot):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.ID(),
		"status": string(job.GetStatus()),
	})
}

// Status reports the most recent scan job, or idle before the first scan.
func (h *ScanHandler) Status(w http.ResponseWriter, r *http.Request) {
	job := h.scanner.ActiveJob()
	if job == nil {
		respondJSON(w, http.StatusOK, map[string]string{"status": "idle"})
		return
	}
	respondJSON(w, http.StatusOK, job.View())
}

// Events streams scan job events via SSE.
func (h *ScanHandler) Events(w http.ResponseWriter, r *http.Request) {
	streamSSEEvents(w, r,
		func(id string) SSEJob {
			if job := h.scanner.Job(id); job != nil {
				return job
			}
			return nil
		},
		func(job SSEJob) any {
			return job.(*scanner.ScanJob).View()
		},
	)
}

// Cancel requests cancellation of a running scan job.
func (h *ScanHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		respondError(w, http.StatusBadRequest, "missing job ID")
		return
	}

	job := h.scanner.Job(jobID)
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	job.Cancel()
	respondJSON(w, http.StatusOK, map[string]bool{"cancelled": true})
}
