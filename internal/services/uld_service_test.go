package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargo-backend/internal/models"
)

type fakeULDStore struct {
	uld       *models.ULD
	events    []*models.ULDStatusEvent
	getErr    error
	appendErr error
}

func (f *fakeULDStore) Get(_ context.Context, id int) (*models.ULD, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.uld, nil
}

func (f *fakeULDStore) History(_ context.Context, _ int) ([]*models.ULDStatusEvent, error) {
	return f.events, nil
}

func (f *fakeULDStore) AppendStatusEvents(_ context.Context, _ int, events []*models.ULDStatusEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.events = append(f.events, events...)
	return nil
}

type fakeBroadcaster struct {
	updates []StatusUpdate
}

func (f *fakeBroadcaster) BroadcastStatus(update StatusUpdate) {
	f.updates = append(f.updates, update)
}

func newTestULDService(events ...int) (*ULDService, *fakeULDStore, *fakeBroadcaster) {
	store := &fakeULDStore{
		uld:    &models.ULD{ID: 1, ULDNumber: "PMC12345CX"},
		events: history(events...),
	}
	broadcaster := &fakeBroadcaster{}
	return NewULDService(store, broadcaster), store, broadcaster
}

func TestRecordStatus_StrictSequentialAdvance(t *testing.T) {
	svc, store, broadcaster := newTestULDService(1)

	recorded, result, err := svc.RecordStatus(context.Background(), 1, StatusReceivedByHandler, 42, ModeStrict)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	require.Len(t, recorded, 1)
	assert.Equal(t, StatusReceivedByHandler, recorded[0].Status)
	assert.Equal(t, 42, recorded[0].ChangedBy)
	assert.False(t, recorded[0].Backfilled)

	assert.Len(t, store.events, 2)
	require.Len(t, broadcaster.updates, 1)
	assert.Equal(t, "PMC12345CX", broadcaster.updates[0].ULDNumber)
	assert.Equal(t, "Received by Handler", broadcaster.updates[0].StatusName)
}

func TestRecordStatus_StrictRejectsGap(t *testing.T) {
	svc, store, broadcaster := newTestULDService(1)

	recorded, result, err := svc.RecordStatus(context.Background(), 1, StatusStored, 42, ModeStrict)
	require.ErrorIs(t, err, ErrTransitionRejected)
	assert.Nil(t, recorded)
	assert.Equal(t, []int{StatusReceivedByHandler, StatusTunnelInducted}, result.MissingStatuses)

	assert.Len(t, store.events, 1, "a rejected transition must not touch history")
	assert.Empty(t, broadcaster.updates)
}

func TestRecordStatus_BackfillSynthesizesMissingStages(t *testing.T) {
	svc, store, broadcaster := newTestULDService(1)

	recorded, _, err := svc.RecordStatus(context.Background(), 1, StatusStored, 42, ModeBackfill)
	require.NoError(t, err)
	require.Len(t, recorded, 3)

	assert.Equal(t, StatusReceivedByHandler, recorded[0].Status)
	assert.True(t, recorded[0].Backfilled)
	assert.Equal(t, StatusTunnelInducted, recorded[1].Status)
	assert.True(t, recorded[1].Backfilled)
	assert.Equal(t, StatusStored, recorded[2].Status)
	assert.False(t, recorded[2].Backfilled, "the target itself is a real observation")

	for _, e := range recorded {
		assert.Equal(t, 42, e.ChangedBy)
		assert.False(t, e.Timestamp.IsZero())
	}

	assert.Len(t, store.events, 4)
	assert.Len(t, broadcaster.updates, 3, "every synthesized entry is broadcast")
}

func TestRecordStatus_ReRecordingPresentStatusIsNoOp(t *testing.T) {
	svc, store, _ := newTestULDService(1, 2)

	recorded, result, err := svc.RecordStatus(context.Background(), 1, StatusReceivedByHandler, 42, ModeStrict)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Empty(t, recorded)
	assert.Len(t, store.events, 2, "history must stay untouched")
}

func TestRecordStatus_InvalidTargetRejectedInBothModes(t *testing.T) {
	for _, mode := range []string{ModeStrict, ModeBackfill} {
		svc, store, _ := newTestULDService(1)

		_, _, err := svc.RecordStatus(context.Background(), 1, 9, 42, mode)
		require.ErrorIs(t, err, ErrTransitionRejected, "mode %s", mode)
		assert.Len(t, store.events, 1)
	}
}

func TestRecordStatus_UnknownModeIsAnError(t *testing.T) {
	svc, _, _ := newTestULDService(1)

	_, _, err := svc.RecordStatus(context.Background(), 1, StatusReceivedByHandler, 42, "lenient")
	assert.Error(t, err)
}

func TestRecordStatus_EmptyModeDefaultsToStrict(t *testing.T) {
	svc, _, _ := newTestULDService()

	_, _, err := svc.RecordStatus(context.Background(), 1, StatusTunnelInducted, 42, "")
	assert.ErrorIs(t, err, ErrTransitionRejected)
}

func TestRecordStatus_AppendFailurePropagates(t *testing.T) {
	svc, store, broadcaster := newTestULDService(1)
	store.appendErr = errors.New("deadlock detected")

	_, _, err := svc.RecordStatus(context.Background(), 1, StatusReceivedByHandler, 42, ModeStrict)
	require.Error(t, err)
	assert.Empty(t, broadcaster.updates, "nothing is broadcast when persistence fails")
}

func TestNextStatus(t *testing.T) {
	svc, _, _ := newTestULDService(1, 2)

	next, err := svc.NextStatus(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{StatusTunnelInducted}, next)
}
