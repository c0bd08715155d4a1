package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lookalike-app/lookalike/internal/catalog"
)

func TestImagesUnknownIdentity(t *testing.T) {
	env := newTestEnv(t, staticOracle([]float32{0.1}))
	seedCatalog(env)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/images/Nobody", nil))

	checkStatus(t, rec.Code, http.StatusNotFound)
}

func TestImagesIdentityWithoutImage(t *testing.T) {
	env := newTestEnv(t, staticOracle([]float32{0.1}))
	env.catalog.Replace([]catalog.Identity{{Name: "No Photo"}}, time.Now())

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/images/No%20Photo", nil))

	checkStatus(t, rec.Code, http.StatusNotFound)
}

func TestImagesServesFile(t *testing.T) {
	env := newTestEnv(t, staticOracle([]float32{0.1}))

	img := pngBytes(t)
	path := filepath.Join(t.TempDir(), "folder.png")
	if err := os.WriteFile(path, img, 0o644); err != nil {
		t.Fatal(err)
	}
	env.catalog.Replace([]catalog.Identity{
		{Name: "Alice Adams", ImagePath: path, Embedding: []float32{0.1, 0.2}},
	}, time.Now())

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/images/Alice%20Adams", nil))

	checkStatus(t, rec.Code, http.StatusOK)
	if !bytes.Equal(rec.Body.Bytes(), img) {
		t.Error("served image does not match the file on disk")
	}

	// Lookup is case- and diacritic-insensitive, same as matching.
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/images/alice%20adams", nil))
	checkStatus(t, rec.Code, http.StatusOK)
}
