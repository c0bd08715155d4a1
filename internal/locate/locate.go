// Package locate picks the single representative image for an identity
// folder. The search order matches the archive convention: a folder.<ext>
// cover in the identity root wins, otherwise the first *-poster.<ext> found
// by a lexicographic recursive walk.
package locate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoImage is returned when an identity folder has neither a folder cover
// nor a poster file.
var ErrNoImage = errors.New("no representative image found")

// maxWalkDepth bounds the poster walk in case the visited-path tracking
// misses a pathological symlink layout.
const maxWalkDepth = 32

// imageExts are the accepted image container extensions, lowercase with dot.
var imageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".bmp":  {},
	".webp": {},
}

// IsSupportedImage reports whether the filename carries an accepted image
// extension (case-insensitive).
func IsSupportedImage(name string) bool {
	_, ok := imageExts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// FindRepresentative selects at most one image for the identity folder.
// Returns the absolute path of the chosen file or ErrNoImage.
func FindRepresentative(identityDir string) (string, error) {
	entries, err := os.ReadDir(identityDir)
	if err != nil {
		return "", err
	}

	// Primary rule: a file literally named folder.<ext> directly inside the
	// identity folder.
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isFolderCover(entry.Name()) {
			return filepath.Abs(filepath.Join(identityDir, entry.Name()))
		}
	}

	// Fallback rule: first *-poster.<ext> in lexicographic walk order.
	// os.ReadDir returns entries sorted by filename, which keeps repeated
	// runs deterministic regardless of filesystem iteration order.
	visited := make(map[string]struct{})
	if path := findPoster(identityDir, visited, 0); path != "" {
		return filepath.Abs(path)
	}

	return "", ErrNoImage
}

// isFolderCover matches "folder.<ext>" case-insensitively.
func isFolderCover(name string) bool {
	lower := strings.ToLower(name)
	ext := filepath.Ext(lower)
	if _, ok := imageExts[ext]; !ok {
		return false
	}
	return strings.TrimSuffix(lower, ext) == "folder"
}

// isPoster matches "*-poster.<ext>" case-insensitively.
func isPoster(name string) bool {
	lower := strings.ToLower(name)
	ext := filepath.Ext(lower)
	if _, ok := imageExts[ext]; !ok {
		return false
	}
	return strings.HasSuffix(strings.TrimSuffix(lower, ext), "-poster")
}

// findPoster walks dir depth-first in sorted entry order and returns the
// first poster path found, or "". Symlinked directories are resolved and
// tracked by real path so loops terminate.
func findPoster(dir string, visited map[string]struct{}, depth int) string {
	if depth > maxWalkDepth {
		return ""
	}

	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return ""
	}
	if _, seen := visited[real]; seen {
		return ""
	}
	visited[real] = struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() || isSymlinkDir(path, entry) {
			if found := findPoster(path, visited, depth+1); found != "" {
				return found
			}
			continue
		}
		if isPoster(entry.Name()) {
			return path
		}
	}

	return ""
}

// isSymlinkDir reports whether a symlink entry points at a directory.
func isSymlinkDir(path string, entry os.DirEntry) bool {
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
