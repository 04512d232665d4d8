package syncer

import (
	"context"
	"time"

	"github.com/yohand-byte/sales-margin-tracker/internal/domain/entity"
)

// RemoteStore is the remote snapshot contract: one row per opaque store
// identifier, no history. Read returns domain.ErrNotFound when the store has
// no snapshot yet; the returned time is the server-side update timestamp,
// which is the only thing conflict detection compares.
type RemoteStore interface {
	Read(ctx context.Context) (*entity.BackupPayload, time.Time, error)
	Write(ctx context.Context, payload *entity.BackupPayload) (time.Time, error)
}

// LocalStore is the local side: build the current dataset as a snapshot, or
// adopt a remote one wholesale.
type LocalStore interface {
	Build(ctx context.Context) (*entity.BackupPayload, error)
	Replace(ctx context.Context, payload *entity.BackupPayload) error
}
