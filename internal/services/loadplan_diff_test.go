package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargo-backend/internal/models"
)

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

func testItem(id int, serial string) *models.LoadPlanItem {
	return &models.LoadPlanItem{
		ID:           id,
		SerialNumber: strPtr(serial),
		AWBNumber:    strPtr("160-1234" + serial),
		Pieces:       intPtr(10),
		Weight:       floatPtr(100),
	}
}

// fakeItemStore serves canned revisions keyed by revision number.
type fakeItemStore struct {
	revisions map[int][]*models.LoadPlanItem
	err       error
}

func (f *fakeItemStore) ListByRevision(_ context.Context, _, revision int) ([]*models.LoadPlanItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.revisions[revision], nil
}

// fakeChangeStore records what was persisted.
type fakeChangeStore struct {
	saved []*models.LoadPlanChange
	err   error
}

func (f *fakeChangeStore) CreateBatch(_ context.Context, changes []*models.LoadPlanChange) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, changes...)
	return nil
}

func (f *fakeChangeStore) ListByRevision(_ context.Context, loadPlanID, revision int) ([]*models.LoadPlanChange, error) {
	var out []*models.LoadPlanChange
	for _, c := range f.saved {
		if c.LoadPlanID == loadPlanID && c.Revision == revision {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChangeStore) GetBySerial(_ context.Context, loadPlanID, revision int, serial string) (*models.LoadPlanChange, error) {
	for _, c := range f.saved {
		if c.LoadPlanID == loadPlanID && c.Revision == revision && c.SerialNumber == serial {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func TestCompareItems_IdenticalItemsProduceNoDeltas(t *testing.T) {
	a := testItem(1, "5")
	b := testItem(2, "5")

	deltas := compareItems(a, b)
	assert.Empty(t, deltas)
}

func TestCompareItems_OnlyChangedFieldsAppear(t *testing.T) {
	a := testItem(1, "5")
	b := testItem(2, "5")
	b.Weight = floatPtr(120)
	b.Pieces = intPtr(12)

	deltas := compareItems(a, b)
	require.Len(t, deltas, 2)

	assert.Equal(t, models.FieldDelta{Old: float64(100), New: float64(120)}, deltas["weight"])
	assert.Equal(t, models.FieldDelta{Old: 10, New: 12}, deltas["pieces"])
	_, ok := deltas["awb_number"]
	assert.False(t, ok, "unchanged field must not appear in deltas")
}

func TestCompareItems_NullAndEmptyStringAreEquivalent(t *testing.T) {
	a := testItem(1, "5")
	b := testItem(2, "5")

	a.SHC = nil
	b.SHC = strPtr("")
	a.Description = strPtr("   ")
	b.Description = nil

	deltas := compareItems(a, b)
	assert.Empty(t, deltas, "nil, empty and whitespace-only strings are the same absent value")
}

func TestCompareItems_WhitespacePaddingIsNotAChange(t *testing.T) {
	a := testItem(1, "5")
	b := testItem(2, "5")
	a.SHC = strPtr("PER")
	b.SHC = strPtr("  PER ")

	deltas := compareItems(a, b)
	assert.Empty(t, deltas)
}

func TestCompareItems_ZeroAndFalseAreNotEmpty(t *testing.T) {
	a := testItem(1, "5")
	b := testItem(2, "5")

	a.Volume = floatPtr(0)
	b.Volume = nil
	a.RampTransfer = boolPtr(false)
	b.RampTransfer = nil

	deltas := compareItems(a, b)
	require.Len(t, deltas, 2)
	assert.Equal(t, models.FieldDelta{Old: float64(0), New: nil}, deltas["volume"])
	assert.Equal(t, models.FieldDelta{Old: false, New: nil}, deltas["ramp_transfer"])
}

func TestCompareItems_CaseDifferenceIsAChange(t *testing.T) {
	a := testItem(1, "5")
	b := testItem(2, "5")
	a.Description = strPtr("Fresh Flowers")
	b.Description = strPtr("FRESH FLOWERS")

	deltas := compareItems(a, b)
	require.Len(t, deltas, 1)
	assert.Equal(t, "Fresh Flowers", deltas["description"].Old)
	assert.Equal(t, "FRESH FLOWERS", deltas["description"].New)
}

func TestCompareItems_DeltasKeepRawValues(t *testing.T) {
	a := testItem(1, "5")
	b := testItem(2, "5")
	a.SHC = strPtr(" PER ")
	b.SHC = strPtr("AVI")

	deltas := compareItems(a, b)
	require.Len(t, deltas, 1)
	// Raw, untrimmed value survives into the audit payload
	assert.Equal(t, " PER ", deltas["shc"].Old)
}

func TestCompareRevisions_ClassifiesAddedModifiedDeleted(t *testing.T) {
	// Revision 1 has serials 1,2,3. Revision 2 has 2,3,4 with 3's
	// weight changed. Expect: 1 deleted, 3 modified, 4 added.
	rev1 := []*models.LoadPlanItem{testItem(11, "1"), testItem(12, "2"), testItem(13, "3")}
	rev2 := []*models.LoadPlanItem{testItem(21, "2"), testItem(22, "3"), testItem(23, "4")}
	rev2[1].Weight = floatPtr(120)

	svc := NewDiffService(&fakeItemStore{revisions: map[int][]*models.LoadPlanItem{1: rev1, 2: rev2}}, &fakeChangeStore{})

	changes, err := svc.CompareRevisions(context.Background(), 7, 1, 2)
	require.NoError(t, err)
	require.Len(t, changes, 3)

	byType := map[string]*models.LoadPlanChange{}
	for _, c := range changes {
		byType[c.ChangeType] = c
		assert.Equal(t, 7, c.LoadPlanID)
		assert.Equal(t, 2, c.Revision)
		assert.Equal(t, models.ItemTypeAWB, c.ItemType)
	}

	deleted := byType[models.ChangeTypeDeleted]
	require.NotNil(t, deleted)
	assert.Equal(t, "1", deleted.SerialNumber)
	require.NotNil(t, deleted.OriginalItemID)
	assert.Equal(t, 11, *deleted.OriginalItemID)
	assert.Nil(t, deleted.RevisedItemID)
	assert.NotNil(t, deleted.OriginalData)
	assert.Nil(t, deleted.RevisedData)

	added := byType[models.ChangeTypeAdded]
	require.NotNil(t, added)
	assert.Equal(t, "4", added.SerialNumber)
	require.NotNil(t, added.RevisedItemID)
	assert.Equal(t, 23, *added.RevisedItemID)
	assert.Nil(t, added.OriginalItemID)

	modified := byType[models.ChangeTypeModified]
	require.NotNil(t, modified)
	assert.Equal(t, "3", modified.SerialNumber)
	require.NotNil(t, modified.OriginalItemID)
	require.NotNil(t, modified.RevisedItemID)
	assert.Equal(t, 13, *modified.OriginalItemID)
	assert.Equal(t, 22, *modified.RevisedItemID)
	require.Len(t, modified.FieldChanges, 1)
	assert.Equal(t, models.FieldDelta{Old: float64(100), New: float64(120)}, modified.FieldChanges["weight"])
}

func TestCompareRevisions_EachSerialAppearsExactlyOnce(t *testing.T) {
	rev1 := []*models.LoadPlanItem{testItem(1, "1"), testItem(2, "2"), testItem(3, "3")}
	rev2 := []*models.LoadPlanItem{testItem(4, "2"), testItem(5, "3"), testItem(6, "4")}
	rev2[0].Pieces = intPtr(99)

	svc := NewDiffService(&fakeItemStore{revisions: map[int][]*models.LoadPlanItem{1: rev1, 2: rev2}}, &fakeChangeStore{})

	changes, err := svc.CompareRevisions(context.Background(), 1, 1, 2)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, c := range changes {
		seen[c.SerialNumber]++
	}
	for serial, count := range seen {
		assert.Equal(t, 1, count, "serial %s classified more than once", serial)
	}
}

func TestCompareRevisions_IdenticalRevisionsYieldNoChanges(t *testing.T) {
	items1 := []*models.LoadPlanItem{testItem(1, "1"), testItem(2, "2")}
	items2 := []*models.LoadPlanItem{testItem(3, "1"), testItem(4, "2")}

	svc := NewDiffService(&fakeItemStore{revisions: map[int][]*models.LoadPlanItem{1: items1, 2: items2}}, &fakeChangeStore{})

	changes, err := svc.CompareRevisions(context.Background(), 1, 1, 2)
	require.NoError(t, err)
	assert.Empty(t, changes, "equivalent snapshots must produce an empty change list")
}

func TestCompareRevisions_SameRevisionIsAnError(t *testing.T) {
	svc := NewDiffService(&fakeItemStore{}, &fakeChangeStore{})

	_, err := svc.CompareRevisions(context.Background(), 1, 2, 2)
	assert.Error(t, err)
}

func TestCompareRevisions_FetchFailureReturnsError(t *testing.T) {
	svc := NewDiffService(&fakeItemStore{err: errors.New("connection refused")}, &fakeChangeStore{})

	changes, err := svc.CompareRevisions(context.Background(), 1, 1, 2)
	require.Error(t, err, "a storage failure must surface, never read as an empty diff")
	assert.Nil(t, changes)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCompareRevisions_ItemsWithoutSerialAreExcluded(t *testing.T) {
	orphan := testItem(9, "x")
	orphan.SerialNumber = nil
	blank := testItem(10, "  ")

	rev1 := []*models.LoadPlanItem{testItem(1, "1"), orphan}
	rev2 := []*models.LoadPlanItem{testItem(2, "1"), blank}

	svc := NewDiffService(&fakeItemStore{revisions: map[int][]*models.LoadPlanItem{1: rev1, 2: rev2}}, &fakeChangeStore{})

	changes, err := svc.CompareRevisions(context.Background(), 1, 1, 2)
	require.NoError(t, err)
	assert.Empty(t, changes, "uncorrelatable rows must not show up as added or deleted")
}

func TestCompareAndPersist_StoresWhatItReturns(t *testing.T) {
	rev1 := []*models.LoadPlanItem{testItem(1, "1")}
	rev2 := []*models.LoadPlanItem{testItem(2, "2")}
	store := &fakeChangeStore{}

	svc := NewDiffService(&fakeItemStore{revisions: map[int][]*models.LoadPlanItem{1: rev1, 2: rev2}}, store)

	changes, err := svc.CompareAndPersist(context.Background(), 3, 1, 2)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, changes, store.saved)

	// And the persisted records come back through the query paths
	listed, err := svc.ChangesForRevision(context.Background(), 3, 2)
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	one, err := svc.ChangeForSerial(context.Background(), 3, 2, "2")
	require.NoError(t, err)
	assert.Equal(t, models.ChangeTypeAdded, one.ChangeType)
}

func TestCompareAndPersist_PersistFailurePropagates(t *testing.T) {
	rev1 := []*models.LoadPlanItem{testItem(1, "1")}
	rev2 := []*models.LoadPlanItem{testItem(2, "2")}

	svc := NewDiffService(
		&fakeItemStore{revisions: map[int][]*models.LoadPlanItem{1: rev1, 2: rev2}},
		&fakeChangeStore{err: fmt.Errorf("unique violation")},
	)

	_, err := svc.CompareAndPersist(context.Background(), 3, 1, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unique violation")
}
