// Package catalog holds the in-memory celebrity database: one immutable
// snapshot of identities, atomically replaced by each completed scan.
// Readers always observe either the previous or the fully-built set.
package catalog

import (
	"sort"
	"sync/atomic"
	"time"
)

// Catalog owns the current identity snapshot. Process-wide singleton state;
// a single writer (the scanner) swaps snapshots, any number of readers poll.
type Catalog struct {
	indexThreshold int
	snap           atomic.Pointer[Snapshot]
}

// Snapshot is an immutable view of the identity set produced by one scan.
type Snapshot struct {
	Identities []Identity // sorted ascending by Name
	BuiltAt    time.Time

	byKey map[string]*Identity
	index *vectorIndex // nil below the index threshold
}

// Status describes the catalog for polling endpoints.
type Status struct {
	IdentityCount int       `json:"identity_count"`
	EmbeddedCount int       `json:"embedded_count"`
	LastScanAt    time.Time `json:"last_scan_at,omitzero"`
}

// New creates an empty catalog. indexThreshold is the minimum number of
// embedded identities before an HNSW index is built for snapshots; zero or
// negative disables indexing entirely.
func New(indexThreshold int) *Catalog {
	c := &Catalog{indexThreshold: indexThreshold}
	c.snap.Store(buildSnapshot(nil, time.Time{}, 0))
	return c
}

// Snapshot returns the current immutable snapshot.
func (c *Catalog) Snapshot() *Snapshot {
	return c.snap.Load()
}

// Replace atomically installs a new identity set built at the given time.
// The previous snapshot stays valid for readers that already hold it.
func (c *Catalog) Replace(identities []Identity, at time.Time) *Snapshot {
	snap := buildSnapshot(identities, at, c.indexThreshold)
	c.snap.Store(snap)
	return snap
}

// Status reports counts from the current snapshot.
func (c *Catalog) Status() Status {
	snap := c.Snapshot()
	return Status{
		IdentityCount: len(snap.Identities),
		EmbeddedCount: snap.EmbeddedCount(),
		LastScanAt:    snap.BuiltAt,
	}
}

func buildSnapshot(identities []Identity, at time.Time, indexThreshold int) *Snapshot {
	sorted := make([]Identity, len(identities))
	copy(sorted, identities)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	snap := &Snapshot{
		Identities: sorted,
		BuiltAt:    at,
		byKey:      make(map[string]*Identity, len(sorted)),
	}
	embedded := 0
	for i := range sorted {
		snap.byKey[NameKey(sorted[i].Name)] = &sorted[i]
		if sorted[i].HasEmbedding() {
			embedded++
		}
	}

	if indexThreshold > 0 && embedded >= indexThreshold {
		snap.index = newVectorIndex(sorted)
	}

	return snap
}

// Lookup finds an identity by name, matching case- and diacritic-insensitively.
func (s *Snapshot) Lookup(name string) *Identity {
	return s.byKey[NameKey(name)]
}

// EmbeddedCount returns the number of identities usable for matching.
func (s *Snapshot) EmbeddedCount() int {
	n := 0
	for i := range s.Identities {
		if s.Identities[i].HasEmbedding() {
			n++
		}
	}
	return n
}

// Indexed reports whether this snapshot carries an HNSW index.
func (s *Snapshot) Indexed() bool {
	return s.index != nil
}

// SearchIndex returns the positions (into Identities) of the approximate k
// nearest embedded identities. ok is false when no index was built and the
// caller should fall back to a brute-force scan.
func (s *Snapshot) SearchIndex(query []float32, k int) (positions []int, ok bool) {
	if s.index == nil {
		return nil, false
	}
	return s.index.search(query, k), true
}
