// Package syncer reconciles the local dataset against its remote backup.
//
// The model is deliberately coarse: whole-snapshot, last-writer-wins, with a
// manual tie-break when two devices wrote concurrently. There is no record
// merge, no version vector, no lock. The only concurrency signal is the
// remote store's server-side update timestamp: if it moved past the baseline
// we recorded at our last successful exchange, a peer wrote in between and
// automatic syncing suspends until the operator picks a side.
package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yohand-byte/sales-margin-tracker/internal/application/dto"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/entity"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/orders"
	"github.com/yohand-byte/sales-margin-tracker/pkg/logger"
)

// State of the reconciler.
type State int

const (
	StateDisabled State = iota
	StateSynced
	StateConflict
)

func (s State) String() string {
	switch s {
	case StateSynced:
		return "synced"
	case StateConflict:
		return "conflict"
	default:
		return "disabled"
	}
}

// Options tunes the reconciler.
type Options struct {
	Enabled       bool
	Debounce      time.Duration // wait after a mutation before pushing
	CheckInterval time.Duration // periodic remote timestamp re-check
}

// Reconciler drives the sync state machine. All methods are safe for
// concurrent use; network work happens under the mutex, which serializes
// pushes and keeps the baseline coherent.
type Reconciler struct {
	remote RemoteStore
	local  LocalStore
	log    *logger.Logger
	opts   Options

	mu       sync.Mutex
	state    State
	baseline time.Time // remote server timestamp at last successful exchange
	lastErr  string
	lastPush *time.Time
	timer    *time.Timer
}

// NewReconciler builds the reconciler. Call Init before relying on it.
func NewReconciler(remote RemoteStore, local LocalStore, opts Options, log *logger.Logger) *Reconciler {
	if opts.Debounce <= 0 {
		opts.Debounce = 1200 * time.Millisecond
	}
	return &Reconciler{remote: remote, local: local, log: log, opts: opts, state: StateDisabled}
}

// Init runs the startup reconciliation:
//   - remote empty            -> publish local, Synced
//   - remote strictly newer   -> adopt remote wholesale, Synced
//   - local newer or equal    -> publish local, Synced
//
// Network failures surface as a status string and leave local state alone.
func (r *Reconciler) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.opts.Enabled {
		r.state = StateDisabled
		return nil
	}
	return r.reconcileLocked(ctx)
}

func (r *Reconciler) reconcileLocked(ctx context.Context) error {
	local, err := r.local.Build(ctx)
	if err != nil {
		return r.failLocked("build local snapshot", err)
	}

	remotePayload, serverTS, err := r.remote.Read(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// First device to ever sync this store.
		return r.pushLocked(ctx, local)
	case err != nil:
		return r.failLocked("read remote snapshot", err)
	}

	if !r.baseline.IsZero() && !serverTS.Equal(r.baseline) {
		// A peer wrote since our last exchange: never guess, ask.
		return r.conflictLocked(serverTS)
	}

	if remotePayload.GeneratedAt.After(local.GeneratedAt) {
		if err := r.local.Replace(ctx, remotePayload); err != nil {
			return r.failLocked("adopt remote snapshot", err)
		}
		r.baseline = serverTS
		r.state = StateSynced
		r.lastErr = ""
		r.log.Info().Time("remote_generated_at", remotePayload.GeneratedAt).Msg("adopted remote snapshot")
		return nil
	}
	return r.pushLocked(ctx, local)
}

// NotifyMutation schedules a debounced push after a committed local
// mutation. It never blocks and is a no-op while disabled or in conflict.
func (r *Reconciler) NotifyMutation() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.opts.Enabled || r.state == StateConflict {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.opts.Debounce, func() {
		if err := r.Push(context.Background()); err != nil {
			r.log.Warn().Err(err).Msg("debounced push failed")
		}
	})
}

// Push re-checks the remote timestamp against the baseline and publishes the
// local snapshot. If the remote moved, it flips to Conflict instead of
// pushing blindly.
func (r *Reconciler) Push(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.opts.Enabled {
		return domain.ErrSyncDisabled
	}
	if r.state == StateConflict {
		return domain.ErrSyncConflict
	}

	_, serverTS, err := r.remote.Read(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// Remote vanished (or first push); publishing is safe.
	case err != nil:
		return r.failLocked("read remote snapshot", err)
	default:
		if !r.baseline.IsZero() && !serverTS.Equal(r.baseline) {
			return r.conflictLocked(serverTS)
		}
	}

	local, err := r.local.Build(ctx)
	if err != nil {
		return r.failLocked("build local snapshot", err)
	}
	return r.pushLocked(ctx, local)
}

func (r *Reconciler) pushLocked(ctx context.Context, local *entity.BackupPayload) error {
	newTS, err := r.remote.Write(ctx, local)
	if err != nil {
		return r.failLocked("write remote snapshot", err)
	}
	now := time.Now().UTC()
	r.baseline = newTS
	r.lastPush = &now
	r.state = StateSynced
	r.lastErr = ""
	r.log.Info().Time("server_ts", newTS).Msg("published local snapshot")
	return nil
}

// Resolve applies the operator's conflict decision: "local" pushes the local
// snapshot over the remote, "remote" adopts the remote wholesale.
func (r *Reconciler) Resolve(ctx context.Context, keep string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.opts.Enabled {
		return domain.ErrSyncDisabled
	}

	switch keep {
	case "local":
		local, err := r.local.Build(ctx)
		if err != nil {
			return r.failLocked("build local snapshot", err)
		}
		return r.pushLocked(ctx, local)
	case "remote":
		remotePayload, serverTS, err := r.remote.Read(ctx)
		if err != nil {
			return r.failLocked("read remote snapshot", err)
		}
		if err := r.local.Replace(ctx, remotePayload); err != nil {
			return r.failLocked("adopt remote snapshot", err)
		}
		r.baseline = serverTS
		r.state = StateSynced
		r.lastErr = ""
		r.log.Info().Msg("conflict resolved: kept remote")
		return nil
	default:
		return domain.Validationf(`keep must be "local" or "remote"`)
	}
}

// Comparison summarizes both sides of the dataset so the operator can decide
// which one survives.
func (r *Reconciler) Comparison(ctx context.Context) (*dto.SyncComparison, error) {
	if !r.opts.Enabled {
		return nil, domain.ErrSyncDisabled
	}
	local, err := r.local.Build(ctx)
	if err != nil {
		return nil, err
	}
	remotePayload, _, err := r.remote.Read(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.SyncComparison{
		Local:  Summarize(local),
		Remote: Summarize(remotePayload),
	}, nil
}

// Summarize condenses a snapshot to the figures shown in the conflict UI.
func Summarize(payload *entity.BackupPayload) dto.SnapshotSummary {
	rows := orders.Aggregate(payload.Sales, payload.Stock)
	revenue := decimal.Zero
	margin := decimal.Zero
	for _, row := range rows {
		revenue = revenue.Add(row.TransactionValue)
		margin = margin.Add(row.NetMargin)
	}
	return dto.SnapshotSummary{
		GeneratedAt: payload.GeneratedAt,
		Orders:      len(rows),
		Lines:       len(payload.Sales),
		Revenue:     revenue,
		NetMargin:   margin,
	}
}

// Status reports the externally visible state.
func (r *Reconciler) Status() dto.SyncStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := dto.SyncStatus{
		State:      r.state.String(),
		Enabled:    r.opts.Enabled,
		LastError:  r.lastErr,
		LastPushAt: r.lastPush,
	}
	if !r.baseline.IsZero() {
		b := r.baseline
		st.Baseline = &b
	}
	return st
}

// State returns the current state (tests and handlers).
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// SetEnabled toggles auto-sync. Enabling re-runs the startup reconciliation,
// as if the device had just come online.
func (r *Reconciler) SetEnabled(ctx context.Context, enabled bool) error {
	r.mu.Lock()
	r.opts.Enabled = enabled
	if !enabled {
		if r.timer != nil {
			r.timer.Stop()
		}
		r.state = StateDisabled
		r.mu.Unlock()
		return nil
	}
	err := r.reconcileLocked(ctx)
	r.mu.Unlock()
	return err
}

// Start launches the periodic remote re-check; it returns immediately and
// stops when ctx is cancelled. A moved remote timestamp while we sit Synced
// means a peer wrote: flip to Conflict rather than silently diverge further.
func (r *Reconciler) Start(ctx context.Context) {
	if r.opts.CheckInterval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(r.opts.CheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.checkRemote(ctx)
			}
		}
	}()
}

func (r *Reconciler) checkRemote(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.opts.Enabled || r.state != StateSynced || r.baseline.IsZero() {
		return
	}
	_, serverTS, err := r.remote.Read(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.lastErr = "periodic remote check: " + err.Error()
		}
		return
	}
	if !serverTS.Equal(r.baseline) {
		_ = r.conflictLocked(serverTS)
	}
}

func (r *Reconciler) conflictLocked(serverTS time.Time) error {
	r.state = StateConflict
	r.lastErr = ""
	r.log.Warn().
		Time("baseline", r.baseline).
		Time("server_ts", serverTS).
		Msg("remote dataset diverged, auto-sync suspended")
	return domain.ErrSyncConflict
}

// failLocked records a network failure as a status string. The failure never
// corrupts local state and is not retried before the next natural trigger.
func (r *Reconciler) failLocked(op string, err error) error {
	r.lastErr = op + ": " + err.Error()
	r.log.Error().Err(err).Str("op", op).Msg("sync operation failed")
	return err
}
