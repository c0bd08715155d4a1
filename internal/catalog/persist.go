package catalog

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"time"
)

// snapshotFileVersion guards against loading snapshots written by an
// incompatible build.
const snapshotFileVersion = 1

// snapshotFile is the on-disk gob layout for a saved snapshot.
type snapshotFile struct {
	Version    int
	BuiltAt    time.Time
	Identities []Identity
}

// SaveSnapshot writes the current snapshot to path as gob, so a later
// process (or the match CLI) can reuse the scan without re-embedding.
func (c *Catalog) SaveSnapshot(path string) error {
	snap := c.Snapshot()

	var buf bytes.Buffer
	file := snapshotFile{
		Version:    snapshotFileVersion,
		BuiltAt:    snap.BuiltAt,
		Identities: snap.Identities,
	}
	if err := gob.NewEncoder(&buf).Encode(&file); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	return nil
}

// LoadSnapshot reads a saved snapshot from path and installs it as the
// current identity set.
func (c *Catalog) LoadSnapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var file snapshotFile
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&file); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if file.Version != snapshotFileVersion {
		return fmt.Errorf("snapshot version mismatch: got %d, want %d", file.Version, snapshotFileVersion)
	}

	c.Replace(file.Identities, file.BuiltAt)
	return nil
}
