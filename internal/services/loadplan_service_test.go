package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargo-backend/internal/models"
)

type fakePlanStore struct {
	plan     *models.LoadPlan
	revision int
	getErr   error
}

func (f *fakePlanStore) Get(_ context.Context, id int) (*models.LoadPlan, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.plan, nil
}

func (f *fakePlanStore) BumpRevision(_ context.Context, _ int) (int, error) {
	f.revision++
	return f.revision, nil
}

type fakeItemWriter struct {
	loadPlanID int
	revision   int
	items      []*models.LoadPlanItem
	err        error
}

func (f *fakeItemWriter) CreateBatch(_ context.Context, loadPlanID, revision int, items []*models.LoadPlanItem) error {
	if f.err != nil {
		return f.err
	}
	f.loadPlanID = loadPlanID
	f.revision = revision
	f.items = items
	return nil
}

func TestIngestRevision_AssignsSequentialRevisions(t *testing.T) {
	plans := &fakePlanStore{plan: &models.LoadPlan{ID: 1}}
	writer := &fakeItemWriter{}
	svc := NewLoadPlanService(plans, writer)

	first, err := svc.IngestRevision(context.Background(), 1, []*models.LoadPlanItem{testItem(0, "1")})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Revision)
	assert.Equal(t, 1, first.ItemCount)
	assert.Zero(t, first.OrphanedItems)

	second, err := svc.IngestRevision(context.Background(), 1, []*models.LoadPlanItem{testItem(0, "1"), testItem(0, "2")})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Revision)
	assert.Equal(t, 2, second.ItemCount)

	assert.Equal(t, 2, writer.revision)
	assert.Len(t, writer.items, 2)
}

func TestIngestRevision_EmptyBatchRejected(t *testing.T) {
	svc := NewLoadPlanService(&fakePlanStore{plan: &models.LoadPlan{ID: 1}}, &fakeItemWriter{})

	_, err := svc.IngestRevision(context.Background(), 1, nil)
	assert.Error(t, err)
}

func TestIngestRevision_DuplicateSerialRejected(t *testing.T) {
	plans := &fakePlanStore{plan: &models.LoadPlan{ID: 1}}
	svc := NewLoadPlanService(plans, &fakeItemWriter{})

	_, err := svc.IngestRevision(context.Background(), 1, []*models.LoadPlanItem{testItem(0, "7"), testItem(0, " 7 ")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate serial")
	assert.Zero(t, plans.revision, "no revision number may be consumed by a rejected batch")
}

func TestIngestRevision_CountsOrphans(t *testing.T) {
	svc := NewLoadPlanService(&fakePlanStore{plan: &models.LoadPlan{ID: 1}}, &fakeItemWriter{})

	orphan := testItem(0, "x")
	orphan.SerialNumber = nil

	resp, err := svc.IngestRevision(context.Background(), 1, []*models.LoadPlanItem{testItem(0, "1"), orphan})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.ItemCount)
	assert.Equal(t, 1, resp.OrphanedItems)
}

func TestIngestRevision_UnknownPlanRejected(t *testing.T) {
	svc := NewLoadPlanService(&fakePlanStore{getErr: errors.New("no rows in result set")}, &fakeItemWriter{})

	_, err := svc.IngestRevision(context.Background(), 99, []*models.LoadPlanItem{testItem(0, "1")})
	assert.Error(t, err)
}
