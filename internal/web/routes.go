package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lookalike-app/lookalike/internal/web/handlers"
	"github.com/lookalike-app/lookalike/internal/web/static"
)

func (s *Server) setupRoutes() {
	scanHandler := handlers.NewScanHandler(s.scanner)
	matchHandler := handlers.NewMatchHandler(s.engine, s.oracle, s.config.Server.MaxUploadBytes(), s.config.Match.TopK)
	statusHandler := handlers.NewStatusHandler(s.catalog)
	imagesHandler := handlers.NewImagesHandler(s.catalog)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Directory scan (long-running, polled)
		r.Post("/scan", scanHandler.Start)
		r.Get("/scan/status", scanHandler.Status)
		r.Get("/scan/{jobId}/events", scanHandler.Events)
		r.Delete("/scan/{jobId}", scanHandler.Cancel)

		// Lookalike query
		r.Post("/match", matchHandler.Match)

		// Catalog status
		r.Get("/status", statusHandler.Get)

		// Representative images
		r.Get("/images/{name}", imagesHandler.Get)
	})

	// Browser UI
	s.router.Get("/*", serveIndex)
}

// serveIndex serves the embedded single-page UI.
func serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(static.Index())
}
