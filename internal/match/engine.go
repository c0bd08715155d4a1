// Package match ranks catalog identities against a query face embedding.
package match

import (
	"errors"
	"sort"

	"github.com/lookalike-app/lookalike/internal/catalog"
	"github.com/lookalike-app/lookalike/internal/constants"
)

// ErrEmptyCatalog is returned when a match is attempted before any identity
// with an embedding exists. Distinct from a legitimately empty result set.
var ErrEmptyCatalog = errors.New("no identities with embeddings in the catalog")

// Result is one ranked match for a query embedding.
type Result struct {
	Name       string  `json:"name"`
	ImagePath  string  `json:"image_path"`
	Distance   float64 `json:"distance"`
	Similarity float64 `json:"similarity_score"`
}

// Engine ranks identities by Euclidean distance in the oracle's vector
// space. Queries are read-only over a catalog snapshot and safe to run
// concurrently with each other and with an in-progress scan.
type Engine struct {
	catalog *catalog.Catalog
}

// New creates a match engine reading from cat.
func New(cat *catalog.Catalog) *Engine {
	return &Engine{catalog: cat}
}

// Match returns up to k identities ranked ascending by distance to query.
// Equal distances order by name ascending for determinism. k below one
// falls back to the default.
func (e *Engine) Match(query []float32, k int) ([]Result, error) {
	return MatchSnapshot(e.catalog.Snapshot(), query, k)
}

// MatchSnapshot ranks against an explicit snapshot. Used directly by the
// CLI, which matches a freshly loaded snapshot without a long-lived catalog.
func MatchSnapshot(snap *catalog.Snapshot, query []float32, k int) ([]Result, error) {
	if k < 1 {
		k = constants.DefaultTopK
	}
	if snap.EmbeddedCount() == 0 {
		return nil, ErrEmptyCatalog
	}

	var candidates []*catalog.Identity
	if positions, ok := snap.SearchIndex(query, k*constants.HNSWSearchMultiplier); ok {
		// Re-rank the approximate candidates with exact distances.
		candidates = make([]*catalog.Identity, 0, len(positions))
		for _, pos := range positions {
			candidates = append(candidates, &snap.Identities[pos])
		}
	} else {
		candidates = make([]*catalog.Identity, 0, len(snap.Identities))
		for i := range snap.Identities {
			if snap.Identities[i].HasEmbedding() {
				candidates = append(candidates, &snap.Identities[i])
			}
		}
	}

	results := make([]Result, 0, len(candidates))
	for _, id := range candidates {
		distance := catalog.EuclideanDistance(query, id.Embedding)
		results = append(results, Result{
			Name:       id.Name,
			ImagePath:  id.ImagePath,
			Distance:   distance,
			Similarity: Similarity(distance),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Name < results[j].Name
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Similarity converts a distance into a bounded percentage. Monotonic
// decreasing in distance: 0 maps to 100, distances of 1 or more to 0.
func Similarity(distance float64) float64 {
	score := 100 - distance*100
	if score < 0 {
		return 0
	}
	return score
}
