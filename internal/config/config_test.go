package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.MaxUploadBytes() != 16<<20 {
		t.Errorf("max upload = %d, want 16 MiB", cfg.Server.MaxUploadBytes())
	}
	if cfg.Oracle.URL != "http://localhost:8000" {
		t.Errorf("oracle URL = %q", cfg.Oracle.URL)
	}
	if cfg.Oracle.Timeout() != 60*time.Second {
		t.Errorf("oracle timeout = %v, want 60s", cfg.Oracle.Timeout())
	}
	if cfg.Scan.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.Scan.Workers)
	}
	if cfg.Scan.SnapshotPath != "" {
		t.Errorf("snapshot path = %q, want empty", cfg.Scan.SnapshotPath)
	}
	if cfg.Match.TopK != 10 {
		t.Errorf("top k = %d, want 10", cfg.Match.TopK)
	}
	if cfg.Match.HNSWThreshold != 1000 {
		t.Errorf("hnsw threshold = %d, want 1000", cfg.Match.HNSWThreshold)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WEB_HOST", "127.0.0.1")
	t.Setenv("WEB_PORT", "9999")
	t.Setenv("EMBEDDING_URL", "http://oracle:8000")
	t.Setenv("EMBEDDING_TIMEOUT", "5")
	t.Setenv("SCAN_WORKERS", "8")
	t.Setenv("SNAPSHOT_PATH", "/var/lib/lookalike/catalog.gob")
	t.Setenv("MATCH_TOP_K", "3")

	cfg := Load()

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("host = %q", cfg.Server.Host)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Oracle.URL != "http://oracle:8000" {
		t.Errorf("oracle URL = %q", cfg.Oracle.URL)
	}
	if cfg.Oracle.Timeout() != 5*time.Second {
		t.Errorf("oracle timeout = %v", cfg.Oracle.Timeout())
	}
	if cfg.Scan.Workers != 8 {
		t.Errorf("workers = %d", cfg.Scan.Workers)
	}
	if cfg.Scan.SnapshotPath != "/var/lib/lookalike/catalog.gob" {
		t.Errorf("snapshot path = %q", cfg.Scan.SnapshotPath)
	}
	if cfg.Match.TopK != 3 {
		t.Errorf("top k = %d", cfg.Match.TopK)
	}
}

func TestLoadInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("WEB_PORT", "not-a-number")
	t.Setenv("SCAN_WORKERS", "-2")

	cfg := Load()
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want default 8080 for invalid value", cfg.Server.Port)
	}
	if cfg.Scan.Workers != 4 {
		t.Errorf("workers = %d, want default 4 for negative value", cfg.Scan.Workers)
	}
}
