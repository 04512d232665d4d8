package repository

import "time"

// DatasetRepository tracks snapshot metadata and the cached stock map.
// The cache exists only for fast reload: every recomputation overwrites it
// and nothing ever reads it as authoritative ahead of a recompute.
type DatasetRepository interface {
	// GeneratedAt returns the dataset generation timestamp (zero when the
	// dataset has never been touched).
	GeneratedAt() (time.Time, error)
	// Touch stamps the dataset as regenerated at t.
	Touch(t time.Time) error
	ReplaceStock(stock map[string]int) error
	CachedStock() (map[string]int, error)
}
