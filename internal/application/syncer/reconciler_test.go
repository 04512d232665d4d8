package syncer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yohand-byte/sales-margin-tracker/internal/application/syncer"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain"
	"github.com/yohand-byte/sales-margin-tracker/internal/domain/entity"
	"github.com/yohand-byte/sales-margin-tracker/pkg/logger"
)

// fakeRemote is an in-memory RemoteStore. Every Write bumps the server
// timestamp, like the real store does.
type fakeRemote struct {
	payload *entity.BackupPayload
	ts      time.Time
	reads   int
	writes  int
}

func (f *fakeRemote) Read(context.Context) (*entity.BackupPayload, time.Time, error) {
	f.reads++
	if f.payload == nil {
		return nil, time.Time{}, domain.ErrNotFound
	}
	return f.payload, f.ts, nil
}

func (f *fakeRemote) Write(_ context.Context, payload *entity.BackupPayload) (time.Time, error) {
	f.writes++
	f.payload = payload
	f.ts = f.ts.Add(time.Second)
	return f.ts, nil
}

// bump simulates a peer device writing to the remote store.
func (f *fakeRemote) bump(payload *entity.BackupPayload) {
	f.payload = payload
	f.ts = f.ts.Add(time.Minute)
}

// fakeLocal is an in-memory LocalStore holding one snapshot.
type fakeLocal struct {
	payload  *entity.BackupPayload
	replaced int
}

func (f *fakeLocal) Build(context.Context) (*entity.BackupPayload, error) {
	return f.payload, nil
}

func (f *fakeLocal) Replace(_ context.Context, payload *entity.BackupPayload) error {
	f.replaced++
	f.payload = payload
	return nil
}

func snapshotAt(generatedAt time.Time) *entity.BackupPayload {
	return &entity.BackupPayload{GeneratedAt: generatedAt}
}

func newReconciler(remote *fakeRemote, local *fakeLocal) *syncer.Reconciler {
	return syncer.NewReconciler(remote, local, syncer.Options{Enabled: true}, logger.Nop())
}

func TestInit_EmptyRemotePublishesLocal(t *testing.T) {
	remote := &fakeRemote{ts: time.Unix(1000, 0)}
	local := &fakeLocal{payload: snapshotAt(time.Unix(500, 0))}
	rec := newReconciler(remote, local)

	require.NoError(t, rec.Init(context.Background()))

	assert.Equal(t, syncer.StateSynced, rec.State())
	assert.Equal(t, 1, remote.writes, "local snapshot must be published")
	assert.Equal(t, 0, local.replaced)
}

func TestInit_NewerRemoteIsAdopted(t *testing.T) {
	remote := &fakeRemote{
		payload: snapshotAt(time.Unix(900, 0)),
		ts:      time.Unix(1000, 0),
	}
	local := &fakeLocal{payload: snapshotAt(time.Unix(500, 0))}
	rec := newReconciler(remote, local)

	require.NoError(t, rec.Init(context.Background()))

	assert.Equal(t, syncer.StateSynced, rec.State())
	assert.Equal(t, 1, local.replaced, "remote snapshot must be adopted")
	assert.Equal(t, 0, remote.writes)
	assert.True(t, local.payload.GeneratedAt.Equal(time.Unix(900, 0)))
}

func TestInit_OlderRemoteIsOverwritten(t *testing.T) {
	remote := &fakeRemote{
		payload: snapshotAt(time.Unix(100, 0)),
		ts:      time.Unix(1000, 0),
	}
	local := &fakeLocal{payload: snapshotAt(time.Unix(500, 0))}
	rec := newReconciler(remote, local)

	require.NoError(t, rec.Init(context.Background()))

	assert.Equal(t, syncer.StateSynced, rec.State())
	assert.Equal(t, 1, remote.writes)
	assert.Equal(t, 0, local.replaced)
}

// A peer write between our exchanges moves the server timestamp past the
// baseline; the next push must flip to conflict instead of clobbering it.
func TestPush_DetectsPeerWriteAsConflict(t *testing.T) {
	remote := &fakeRemote{ts: time.Unix(1000, 0)}
	local := &fakeLocal{payload: snapshotAt(time.Unix(500, 0))}
	rec := newReconciler(remote, local)
	require.NoError(t, rec.Init(context.Background()))

	remote.bump(snapshotAt(time.Unix(600, 0)))

	err := rec.Push(context.Background())
	require.ErrorIs(t, err, domain.ErrSyncConflict)
	assert.Equal(t, syncer.StateConflict, rec.State())
	assert.Equal(t, 1, remote.writes, "conflicting push must not write")
}

func TestPush_WhileSyncedPublishes(t *testing.T) {
	remote := &fakeRemote{ts: time.Unix(1000, 0)}
	local := &fakeLocal{payload: snapshotAt(time.Unix(500, 0))}
	rec := newReconciler(remote, local)
	require.NoError(t, rec.Init(context.Background()))

	local.payload = snapshotAt(time.Unix(700, 0))
	require.NoError(t, rec.Push(context.Background()))

	assert.Equal(t, 2, remote.writes)
	assert.True(t, remote.payload.GeneratedAt.Equal(time.Unix(700, 0)))
}

func TestResolve_KeepLocalOverwritesRemote(t *testing.T) {
	remote := &fakeRemote{ts: time.Unix(1000, 0)}
	local := &fakeLocal{payload: snapshotAt(time.Unix(500, 0))}
	rec := newReconciler(remote, local)
	require.NoError(t, rec.Init(context.Background()))
	remote.bump(snapshotAt(time.Unix(600, 0)))
	require.Error(t, rec.Push(context.Background()))

	require.NoError(t, rec.Resolve(context.Background(), "local"))

	assert.Equal(t, syncer.StateSynced, rec.State())
	assert.True(t, remote.payload.GeneratedAt.Equal(time.Unix(500, 0)), "remote must hold the local snapshot")

	// The baseline moved to the resolving write: the next push goes through.
	assert.NoError(t, rec.Push(context.Background()))
}

func TestResolve_KeepRemoteAdoptsRemote(t *testing.T) {
	remote := &fakeRemote{ts: time.Unix(1000, 0)}
	local := &fakeLocal{payload: snapshotAt(time.Unix(500, 0))}
	rec := newReconciler(remote, local)
	require.NoError(t, rec.Init(context.Background()))
	remote.bump(snapshotAt(time.Unix(600, 0)))
	require.Error(t, rec.Push(context.Background()))

	require.NoError(t, rec.Resolve(context.Background(), "remote"))

	assert.Equal(t, syncer.StateSynced, rec.State())
	assert.Equal(t, 1, local.replaced)
	assert.True(t, local.payload.GeneratedAt.Equal(time.Unix(600, 0)))
}

func TestResolve_RejectsUnknownSide(t *testing.T) {
	remote := &fakeRemote{ts: time.Unix(1000, 0)}
	local := &fakeLocal{payload: snapshotAt(time.Unix(500, 0))}
	rec := newReconciler(remote, local)

	err := rec.Resolve(context.Background(), "both")

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestDisabledReconciler_RefusesSyncOperations(t *testing.T) {
	rec := syncer.NewReconciler(nil, &fakeLocal{}, syncer.Options{Enabled: false}, logger.Nop())

	require.NoError(t, rec.Init(context.Background()))
	assert.Equal(t, syncer.StateDisabled, rec.State())
	assert.ErrorIs(t, rec.Push(context.Background()), domain.ErrSyncDisabled)
	assert.ErrorIs(t, rec.Resolve(context.Background(), "local"), domain.ErrSyncDisabled)

	_, err := rec.Comparison(context.Background())
	assert.ErrorIs(t, err, domain.ErrSyncDisabled)

	st := rec.Status()
	assert.Equal(t, "disabled", st.State)
	assert.False(t, st.Enabled)
}

func TestStatus_ReportsBaselineAndLastPush(t *testing.T) {
	remote := &fakeRemote{ts: time.Unix(1000, 0)}
	local := &fakeLocal{payload: snapshotAt(time.Unix(500, 0))}
	rec := newReconciler(remote, local)
	require.NoError(t, rec.Init(context.Background()))

	st := rec.Status()

	assert.Equal(t, "synced", st.State)
	assert.True(t, st.Enabled)
	require.NotNil(t, st.Baseline)
	assert.True(t, st.Baseline.Equal(remote.ts))
	assert.NotNil(t, st.LastPushAt)
	assert.Empty(t, st.LastError)
}
