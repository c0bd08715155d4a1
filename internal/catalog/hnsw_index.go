package catalog

import (
	"github.com/coder/hnsw"
)

// HNSW parameters for face embedding vectors.
const (
	// hnswMaxNeighbors (M) is the maximum number of neighbors per node.
	// Higher values improve recall but increase memory and build time.
	hnswMaxNeighbors = 16
)

// vectorIndex wraps an HNSW graph over a snapshot's embedded identities.
// Keys are positions into the snapshot's Identities slice. The index is
// built once per snapshot and never mutated, so searches need no locking.
type vectorIndex struct {
	graph *hnsw.Graph[int]
}

func newVectorIndex(identities []Identity) *vectorIndex {
	g := hnsw.NewGraph[int]()
	g.M = hnswMaxNeighbors
	g.Ml = 1.0 / float64(hnswMaxNeighbors)
	g.Distance = hnsw.EuclideanDistance

	for i := range identities {
		if !identities[i].HasEmbedding() {
			continue
		}
		g.Add(hnsw.MakeNode(i, identities[i].Embedding))
	}

	return &vectorIndex{graph: g}
}

// search returns the positions of the approximate k nearest neighbors.
// Exact distances are recomputed by the caller during re-ranking.
func (v *vectorIndex) search(query []float32, k int) []int {
	neighbors := v.graph.Search(query, k)
	positions := make([]int, len(neighbors))
	for i, n := range neighbors {
		positions[i] = n.Key
	}
	return positions
}
