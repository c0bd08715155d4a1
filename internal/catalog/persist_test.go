package catalog

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.gob")

	src := New(0)
	at := time.Now().Truncate(time.Second)
	src.Replace(testIdentities(), at)

	if err := src.SaveSnapshot(path); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	dst := New(0)
	if err := dst.LoadSnapshot(path); err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	snap := dst.Snapshot()
	if len(snap.Identities) != 3 {
		t.Fatalf("expected 3 identities, got %d", len(snap.Identities))
	}
	if !snap.BuiltAt.Equal(at) {
		t.Errorf("BuiltAt = %v, want %v", snap.BuiltAt, at)
	}

	alice := snap.Lookup("Alice Adams")
	if alice == nil {
		t.Fatal("expected Alice Adams after reload")
	}
	if !alice.HasEmbedding() {
		t.Error("expected embedding to survive the round trip")
	}
	if alice.Embedding[0] != 0.1 || alice.Embedding[1] != 0.2 {
		t.Errorf("embedding = %v, want [0.1 0.2]", alice.Embedding)
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	cat := New(0)
	if err := cat.LoadSnapshot(filepath.Join(t.TempDir(), "missing.gob")); err == nil {
		t.Error("expected error for missing snapshot file")
	}
}
