// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Scan constants
const (
	// DefaultScanWorkers is the default number of parallel workers for a directory scan
	DefaultScanWorkers = 4

	// MaxImageSize is the maximum dimension (width or height) sent to the embedding server
	MaxImageSize = 1920
)

// Match constants
const (
	// DefaultTopK is the default number of ranked matches returned per query
	DefaultTopK = 10

	// HNSWSearchMultiplier is the factor to request more candidates from HNSW
	// so exact re-ranking still has enough after tie-breaking
	HNSWSearchMultiplier = 3
)

// Event channel constants
const (
	// EventChannelBuffer is the buffer size for job event channels
	EventChannelBuffer = 100
)

// File upload constants
const (
	// MaxUploadSize is the maximum photo upload size in bytes (16 MiB)
	MaxUploadSize = 16 << 20
)
