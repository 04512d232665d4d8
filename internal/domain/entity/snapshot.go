package entity

import "time"

// BackupPayload bundles the whole dataset with a generation timestamp. It is
// the unit of local persistence and of remote synchronization: conflict
// detection compares whole snapshots, never individual records.
type BackupPayload struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Sales       []Sale           `json:"sales"`
	Catalog     []CatalogProduct `json:"catalog"`
	Stock       map[string]int   `json:"stock"`
}
