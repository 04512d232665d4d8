package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SyncStatus is the reconciler's externally visible state.
type SyncStatus struct {
	State      string     `json:"state"` // synced, conflict, disabled
	Enabled    bool       `json:"enabled"`
	Baseline   *time.Time `json:"baseline,omitempty"` // last known remote server timestamp
	LastError  string     `json:"last_error,omitempty"`
	LastPushAt *time.Time `json:"last_push_at,omitempty"`
}

// SnapshotSummary condenses one side of a diverged dataset so the operator
// can choose which one to keep.
type SnapshotSummary struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Orders      int             `json:"orders"`
	Lines       int             `json:"lines"`
	Revenue     decimal.Decimal `json:"revenue"`
	NetMargin   decimal.Decimal `json:"net_margin"`
}

// SyncComparison puts the local and remote summaries side by side.
type SyncComparison struct {
	Local  SnapshotSummary `json:"local"`
	Remote SnapshotSummary `json:"remote"`
}

// ResolveRequest is the operator's explicit conflict decision.
type ResolveRequest struct {
	Keep string `json:"keep"` // "local" or "remote"
}
