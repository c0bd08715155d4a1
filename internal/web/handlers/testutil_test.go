package handlers

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lookalike-app/lookalike/internal/catalog"
	"github.com/lookalike-app/lookalike/internal/match"
	"github.com/lookalike-app/lookalike/internal/scanner"
)

// oracleFunc adapts a function to the scanner.Oracle interface.
type oracleFunc func(ctx context.Context, imageData []byte) ([]float32, error)

func (f oracleFunc) ComputeFaceEmbedding(ctx context.Context, imageData []byte) ([]float32, error) {
	return f(ctx, imageData)
}

// testEnv bundles the core components behind a wired router.
type testEnv struct {
	catalog *catalog.Catalog
	scanner *scanner.Scanner
	router  *chi.Mux
}

// newTestEnv builds a router with the API routes wired the same way the
// server does, around the given oracle.
func newTestEnv(t *testing.T, oracle scanner.Oracle) *testEnv {
	t.Helper()

	cat := catalog.New(0)
	sc := scanner.New(cat, oracle, 2)
	engine := match.New(cat)

	scanHandler := NewScanHandler(sc)
	matchHandler := NewMatchHandler(engine, oracle, 16<<20, 10)
	statusHandler := NewStatusHandler(cat)
	imagesHandler := NewImagesHandler(cat)

	r := chi.NewRouter()
	r.Get("/api/v1/health", HealthCheck)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/scan", scanHandler.Start)
		r.Get("/scan/status", scanHandler.Status)
		r.Delete("/scan/{jobId}", scanHandler.Cancel)
		r.Post("/match", matchHandler.Match)
		r.Get("/status", statusHandler.Get)
		r.Get("/images/{name}", imagesHandler.Get)
	})

	return &testEnv{catalog: cat, scanner: sc, router: r}
}

// staticOracle returns the same embedding for every image.
func staticOracle(embedding []float32) oracleFunc {
	return func(ctx context.Context, imageData []byte) ([]float32, error) {
		return embedding, nil
	}
}

// pngBytes encodes a small solid-color PNG.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{G: 150, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// multipartPhoto builds a multipart body with one part under the given field
// and filename.
func multipartPhoto(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, writer.FormDataContentType()
}

// waitForScan blocks until the active scan job reaches a terminal state.
func waitForScan(t *testing.T, sc *scanner.Scanner) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job := sc.ActiveJob()
		if job != nil && job.GetStatus().Terminal() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("scan did not finish")
}

// checkStatus fails the test when the recorder status differs.
func checkStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
}
