package locate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeFiles creates empty files (and their parent directories) under root.
func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("img"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestIsSupportedImage(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"photo.png", true},
		{"photo.gif", true},
		{"photo.bmp", true},
		{"photo.WEBP", true},
		{"photo.txt", false},
		{"photo.mp4", false},
		{"photo", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSupportedImage(tt.name); got != tt.expected {
				t.Errorf("IsSupportedImage(%q) = %v, want %v", tt.name, got, tt.expected)
			}
		})
	}
}

func TestFindRepresentativeFolderCover(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "aaa-poster.jpg", "folder.jpg", "random.png")

	path, err := FindRepresentative(dir)
	if err != nil {
		t.Fatalf("FindRepresentative failed: %v", err)
	}
	if filepath.Base(path) != "folder.jpg" {
		t.Errorf("got %q, want folder.jpg (cover beats poster)", filepath.Base(path))
	}
	if !filepath.IsAbs(path) {
		t.Errorf("expected absolute path, got %q", path)
	}
}

func TestFindRepresentativeCoverCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "Folder.JPG")

	path, err := FindRepresentative(dir)
	if err != nil {
		t.Fatalf("FindRepresentative failed: %v", err)
	}
	if filepath.Base(path) != "Folder.JPG" {
		t.Errorf("got %q, want Folder.JPG", filepath.Base(path))
	}
}

func TestFindRepresentativePosterFallback(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "zzz.jpg", "movie-poster.png")

	path, err := FindRepresentative(dir)
	if err != nil {
		t.Fatalf("FindRepresentative failed: %v", err)
	}
	if filepath.Base(path) != "movie-poster.png" {
		t.Errorf("got %q, want movie-poster.png", filepath.Base(path))
	}
}

func TestFindRepresentativePosterDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b-poster.jpg", "a-poster.jpg", "c-poster.jpg")

	// Lexicographically first poster wins, every run.
	for i := 0; i < 3; i++ {
		path, err := FindRepresentative(dir)
		if err != nil {
			t.Fatalf("FindRepresentative failed: %v", err)
		}
		if filepath.Base(path) != "a-poster.jpg" {
			t.Fatalf("got %q, want a-poster.jpg", filepath.Base(path))
		}
	}
}

func TestFindRepresentativeNestedPoster(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "movies/2001/space-poster.jpg", "notes.txt")

	path, err := FindRepresentative(dir)
	if err != nil {
		t.Fatalf("FindRepresentative failed: %v", err)
	}
	if filepath.Base(path) != "space-poster.jpg" {
		t.Errorf("got %q, want nested space-poster.jpg", filepath.Base(path))
	}
}

func TestFindRepresentativeWalkOrder(t *testing.T) {
	dir := t.TempDir()
	// The walk is depth-first in sorted entry order: the directory "albums"
	// sorts before the file "b-poster.jpg", so the nested poster wins.
	writeFiles(t, dir, "albums/x-poster.jpg", "b-poster.jpg")

	path, err := FindRepresentative(dir)
	if err != nil {
		t.Fatalf("FindRepresentative failed: %v", err)
	}
	if filepath.Base(path) != "x-poster.jpg" {
		t.Errorf("got %q, want x-poster.jpg", filepath.Base(path))
	}
}

func TestFindRepresentativeNoImage(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "notes.txt", "poster.jpg", "folder.txt", "sub/plain.jpg")

	// poster.jpg lacks the "-poster" suffix and plain images don't count.
	_, err := FindRepresentative(dir)
	if !errors.Is(err, ErrNoImage) {
		t.Errorf("expected ErrNoImage, got %v", err)
	}
}

func TestFindRepresentativeMissingDir(t *testing.T) {
	_, err := FindRepresentative(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("expected error for missing directory")
	}
	if errors.Is(err, ErrNoImage) {
		t.Error("missing directory should not read as ErrNoImage")
	}
}

func TestFindRepresentativeSymlinkLoop(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "sub/notes.txt")
	if err := os.Symlink(dir, filepath.Join(dir, "sub", "loop")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	// Must terminate and report no image rather than loop forever.
	_, err := FindRepresentative(dir)
	if !errors.Is(err, ErrNoImage) {
		t.Errorf("expected ErrNoImage, got %v", err)
	}
}
