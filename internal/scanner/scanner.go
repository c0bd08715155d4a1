// Package scanner orchestrates directory scans: it enumerates identity
// folders under a root, locates one representative image per identity,
// asks the embedding oracle for a face vector, and replaces the catalog
// snapshot wholesale once every identity has been visited.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lookalike-app/lookalike/internal/catalog"
	"github.com/lookalike-app/lookalike/internal/constants"
	"github.com/lookalike-app/lookalike/internal/embed"
	"github.com/lookalike-app/lookalike/internal/locate"
)

var (
	// ErrScanConflict is returned when a scan is started while one is running.
	ErrScanConflict = errors.New("a scan is already running")

	// ErrInvalidRoot is returned when the root path is missing or not a directory.
	ErrInvalidRoot = errors.New("root path does not exist or is not a directory")
)

// Oracle is the external face-embedding capability. Implementations map an
// image to zero-or-one embedding vectors; "no usable face" is reported as
// embed.ErrNoFace regardless of the underlying reason.
type Oracle interface {
	ComputeFaceEmbedding(ctx context.Context, imageData []byte) ([]float32, error)
}

// Scanner runs directory scans against a catalog. One scan at a time.
type Scanner struct {
	catalog *catalog.Catalog
	oracle  Oracle
	jobs    *JobManager
	workers int
}

// New creates a scanner writing into cat. workers bounds per-scan
// concurrency; values below one fall back to the default pool size.
func New(cat *catalog.Catalog, oracle Oracle, workers int) *Scanner {
	if workers < 1 {
		workers = constants.DefaultScanWorkers
	}
	return &Scanner{
		catalog: cat,
		oracle:  oracle,
		jobs:    NewJobManager(),
		workers: workers,
	}
}

// ActiveJob returns the most recent scan job, or nil before the first scan.
func (s *Scanner) ActiveJob() *ScanJob {
	return s.jobs.ActiveJob()
}

// Job returns the job with the given ID, or nil.
func (s *Scanner) Job(id string) *ScanJob {
	return s.jobs.Job(id)
}

// Start validates root and launches a background scan. It returns
// immediately with the created job; progress is polled via the job.
// Fails with ErrInvalidRoot for a bad path and ErrScanConflict when a scan
// is already running (the running scan is unaffected).
func (s *Scanner) Start(root string) (*ScanJob, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRoot, root)
	}

	job := newScanJob(uuid.New().String(), root)
	if err := s.jobs.BeginJob(job); err != nil {
		return nil, err
	}

	go s.run(job)
	return job, nil
}

// identitySlot collects the per-identity outcome; slots are written by
// workers at distinct indexes and assembled in folder order afterwards, so
// the error list stays deterministic.
type identitySlot struct {
	identity catalog.Identity
	scanErr  *ScanError
}

func (s *Scanner) run(job *ScanJob) {
	ctx, cancel := context.WithCancel(context.Background())
	job.setCancel(cancel)
	defer cancel()

	job.setRunning()

	entries, err := os.ReadDir(job.Root())
	if err != nil {
		job.fail(fmt.Sprintf("failed to read root directory: %v", err))
		return
	}

	// Identity folders are the immediate subdirectories; plain files at the
	// top level are not identities.
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	job.setTotal(len(dirs))

	slots := make([]identitySlot, len(dirs))
	var processed, success int64

	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i, dir := range dirs {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(i int, dir string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			slots[i] = s.processIdentity(ctx, filepath.Join(job.Root(), dir), dir)
			if slots[i].scanErr == nil {
				atomic.AddInt64(&success, 1)
			}
			count := atomic.AddInt64(&processed, 1)
			job.progress(int(count), int(atomic.LoadInt64(&success)))
		}(i, dir)
	}

	wg.Wait()

	if ctx.Err() != nil {
		job.cancelled()
		return
	}

	// A root that vanished mid-scan fails the job; the previous catalog
	// snapshot stays in place rather than being partially replaced.
	if _, err := os.Stat(job.Root()); err != nil {
		job.fail(fmt.Sprintf("root path became unreadable: %v", err))
		return
	}

	identities, scanErrors := assemble(slots)
	s.catalog.Replace(identities, time.Now())
	job.complete(int(success), scanErrors)
}

// assemble flattens worker slots in folder order, dropping duplicates that
// normalize to the same identity name.
func assemble(slots []identitySlot) ([]catalog.Identity, []ScanError) {
	identities := make([]catalog.Identity, 0, len(slots))
	var scanErrors []ScanError
	seen := make(map[string]struct{}, len(slots))

	for i := range slots {
		slot := &slots[i]
		if slot.identity.Name == "" {
			continue // worker never ran (cancelled scans bail out earlier)
		}
		key := catalog.NameKey(slot.identity.Name)
		if _, dup := seen[key]; dup {
			scanErrors = append(scanErrors, ScanError{Name: slot.identity.Name, Reason: "duplicate identity name"})
			continue
		}
		seen[key] = struct{}{}
		identities = append(identities, slot.identity)
		if slot.scanErr != nil {
			scanErrors = append(scanErrors, *slot.scanErr)
		}
	}
	return identities, scanErrors
}

// processIdentity handles one identity folder. The identity record is always
// returned; scanErr is non-nil when it could not be embedded. Per-identity
// failures never abort the scan.
func (s *Scanner) processIdentity(ctx context.Context, dir, folderName string) identitySlot {
	identity := catalog.Identity{Name: catalog.DisplayName(folderName)}

	imagePath, err := locate.FindRepresentative(dir)
	if err != nil {
		reason := "no representative image found"
		if !errors.Is(err, locate.ErrNoImage) {
			reason = fmt.Sprintf("unreadable identity folder: %v", err)
		}
		return identitySlot{identity: identity, scanErr: &ScanError{Name: identity.Name, Reason: reason}}
	}
	identity.ImagePath = imagePath

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return identitySlot{identity: identity, scanErr: &ScanError{Name: identity.Name, Reason: fmt.Sprintf("unreadable image file: %v", err)}}
	}

	resized, err := embed.ResizeImage(data, constants.MaxImageSize)
	if err != nil {
		return identitySlot{identity: identity, scanErr: &ScanError{Name: identity.Name, Reason: fmt.Sprintf("corrupt image: %v", err)}}
	}

	embedding, err := s.oracle.ComputeFaceEmbedding(ctx, resized)
	if err != nil {
		reason := "no face detected"
		if !errors.Is(err, embed.ErrNoFace) {
			reason = fmt.Sprintf("embedding failed: %v", err)
		}
		return identitySlot{identity: identity, scanErr: &ScanError{Name: identity.Name, Reason: reason}}
	}

	identity.Embedding = embedding
	return identitySlot{identity: identity}
}
