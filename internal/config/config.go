package config

import (
	_ "embed"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Server ServerConfig `yaml:"server"`
	Oracle OracleConfig `yaml:"oracle"`
	Scan   ScanConfig   `yaml:"scan"`
	Match  MatchConfig  `yaml:"match"`
}

type ServerConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	MaxUploadMiB int    `yaml:"max_upload_mib"`
}

// MaxUploadBytes returns the upload cap in bytes.
func (c *ServerConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMiB) << 20
}

type OracleConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-request timeout for the embedding server.
func (c *OracleConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type ScanConfig struct {
	Workers      int    `yaml:"workers"`
	SnapshotPath string `yaml:"snapshot_path"` // optional gob snapshot of the last scan
}

type MatchConfig struct {
	TopK int `yaml:"top_k"`

	// HNSWThreshold is the catalog size above which an HNSW index is built.
	// Below it a brute-force scan is faster than index construction.
	HNSWThreshold int `yaml:"hnsw_threshold"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envString reads an environment variable, falling back to the default when unset.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// Load builds the configuration from the embedded defaults overridden by
// environment variables.
func Load() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		// Embedded file, so this should never happen in practice.
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	cfg.Server.Host = envString("WEB_HOST", cfg.Server.Host)
	cfg.Server.Port = envInt("WEB_PORT", cfg.Server.Port)
	cfg.Server.MaxUploadMiB = envInt("MAX_UPLOAD_MIB", cfg.Server.MaxUploadMiB)

	cfg.Oracle.URL = envString("EMBEDDING_URL", cfg.Oracle.URL)
	cfg.Oracle.TimeoutSeconds = envInt("EMBEDDING_TIMEOUT", cfg.Oracle.TimeoutSeconds)

	cfg.Scan.Workers = envInt("SCAN_WORKERS", cfg.Scan.Workers)
	cfg.Scan.SnapshotPath = envString("SNAPSHOT_PATH", cfg.Scan.SnapshotPath)

	cfg.Match.TopK = envInt("MATCH_TOP_K", cfg.Match.TopK)
	cfg.Match.HNSWThreshold = envInt("HNSW_THRESHOLD", cfg.Match.HNSWThreshold)

	return cfg
}
