package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusEmptyCatalog(t *testing.T) {
	env := newTestEnv(t, staticOracle([]float32{0.1}))

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	checkStatus(t, rec.Code, http.StatusOK)

	var status struct {
		IdentityCount int `json:"identity_count"`
		EmbeddedCount int `json:"embedded_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if status.IdentityCount != 0 || status.EmbeddedCount != 0 {
		t.Errorf("expected empty counts, got %+v", status)
	}
}

func TestStatusAfterSeed(t *testing.T) {
	env := newTestEnv(t, staticOracle([]float32{0.1}))
	seedCatalog(env)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	checkStatus(t, rec.Code, http.StatusOK)

	var status struct {
		IdentityCount int    `json:"identity_count"`
		EmbeddedCount int    `json:"embedded_count"`
		LastScanAt    string `json:"last_scan_at"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if status.IdentityCount != 2 || status.EmbeddedCount != 2 {
		t.Errorf("unexpected counts: %+v", status)
	}
	if status.LastScanAt == "" {
		t.Error("expected last_scan_at after seeding")
	}
}
