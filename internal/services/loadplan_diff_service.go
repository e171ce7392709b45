package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"cargo-backend/internal/metrics"
	"cargo-backend/internal/models"
)

// LoadPlanItemStore is the read side of the storage adapter the
// comparator runs against. Injected so tests can supply a fake.
type LoadPlanItemStore interface {
	ListByRevision(ctx context.Context, loadPlanID, revision int) ([]*models.LoadPlanItem, error)
}

// LoadPlanChangeStore is the audit-record side of the storage adapter.
type LoadPlanChangeStore interface {
	CreateBatch(ctx context.Context, changes []*models.LoadPlanChange) error
	ListByRevision(ctx context.Context, loadPlanID, revision int) ([]*models.LoadPlanChange, error)
	GetBySerial(ctx context.Context, loadPlanID, revision int, serial string) (*models.LoadPlanChange, error)
}

// DiffService compares two immutable revisions of a load plan and
// produces the classified change list. Comparison itself is pure and
// side-effect free; persisting the result is a separate step.
type DiffService struct {
	Items   LoadPlanItemStore
	Changes LoadPlanChangeStore
}

func NewDiffService(items LoadPlanItemStore, changes LoadPlanChangeStore) *DiffService {
	return &DiffService{Items: items, Changes: changes}
}

// CompareRevisions classifies every correlated line item of the two
// revisions as added, modified or deleted. A fetch failure returns a
// non-nil error; an empty slice always means "no differences".
//
// Items without a serial number cannot be correlated and are excluded;
// they are logged and counted as a data-quality signal rather than
// failing the whole comparison.
func (s *DiffService) CompareRevisions(ctx context.Context, loadPlanID, originalRev, revisedRev int) ([]*models.LoadPlanChange, error) {
	if originalRev == revisedRev {
		return nil, errors.New("original and revised revision must differ")
	}

	originalItems, err := s.Items.ListByRevision(ctx, loadPlanID, originalRev)
	if err != nil {
		return nil, fmt.Errorf("load original revision %d: %w", originalRev, err)
	}
	revisedItems, err := s.Items.ListByRevision(ctx, loadPlanID, revisedRev)
	if err != nil {
		return nil, fmt.Errorf("load revised revision %d: %w", revisedRev, err)
	}

	originalBySerial, orphanedOriginal := indexBySerial(originalItems)
	revisedBySerial, orphanedRevised := indexBySerial(revisedItems)
	if orphaned := orphanedOriginal + orphanedRevised; orphaned > 0 {
		log.Printf("[Diff] plan %d: %d items without serial number excluded from comparison (rev %d vs %d)",
			loadPlanID, orphaned, originalRev, revisedRev)
		metrics.OrphanedItems.Add(float64(orphaned))
	}

	var changes []*models.LoadPlanChange
	for _, serial := range sortedSerials(originalBySerial, revisedBySerial) {
		original, inOriginal := originalBySerial[serial]
		revised, inRevised := revisedBySerial[serial]

		switch {
		case inOriginal && !inRevised:
			changes = append(changes, &models.LoadPlanChange{
				LoadPlanID:     loadPlanID,
				Revision:       revisedRev,
				ChangeType:     models.ChangeTypeDeleted,
				ItemType:       models.ItemTypeAWB,
				OriginalItemID: &original.ID,
				SerialNumber:   serial,
				OriginalData:   original,
			})

		case !inOriginal && inRevised:
			changes = append(changes, &models.LoadPlanChange{
				LoadPlanID:    loadPlanID,
				Revision:      revisedRev,
				ChangeType:    models.ChangeTypeAdded,
				ItemType:      models.ItemTypeAWB,
				RevisedItemID: &revised.ID,
				SerialNumber:  serial,
				RevisedData:   revised,
			})

		default:
			deltas := compareItems(original, revised)
			if len(deltas) == 0 {
				continue // exact duplicate, nothing to record
			}
			changes = append(changes, &models.LoadPlanChange{
				LoadPlanID:     loadPlanID,
				Revision:       revisedRev,
				ChangeType:     models.ChangeTypeModified,
				ItemType:       models.ItemTypeAWB,
				OriginalItemID: &original.ID,
				RevisedItemID:  &revised.ID,
				SerialNumber:   serial,
				FieldChanges:   deltas,
				OriginalData:   original,
				RevisedData:    revised,
			})
		}
	}

	metrics.RevisionComparisons.Inc()
	for _, c := range changes {
		metrics.ChangesDetected.WithLabelValues(c.ChangeType).Inc()
	}

	return changes, nil
}

// CompareAndPersist runs the comparison and stores the result as the
// immutable audit record for (loadPlanID, revisedRev). Persistence
// failures are returned as-is; the caller decides whether to rerun the
// whole sequence.
func (s *DiffService) CompareAndPersist(ctx context.Context, loadPlanID, originalRev, revisedRev int) ([]*models.LoadPlanChange, error) {
	changes, err := s.CompareRevisions(ctx, loadPlanID, originalRev, revisedRev)
	if err != nil {
		return nil, err
	}
	if err := s.Changes.CreateBatch(ctx, changes); err != nil {
		return nil, fmt.Errorf("persist changes (plan %d rev %d): %w", loadPlanID, revisedRev, err)
	}
	return changes, nil
}

// ChangesForRevision returns the persisted change list
func (s *DiffService) ChangesForRevision(ctx context.Context, loadPlanID, revision int) ([]*models.LoadPlanChange, error) {
	return s.Changes.ListByRevision(ctx, loadPlanID, revision)
}

// ChangeForSerial returns one serial's change record
func (s *DiffService) ChangeForSerial(ctx context.Context, loadPlanID, revision int, serial string) (*models.LoadPlanChange, error) {
	return s.Changes.GetBySerial(ctx, loadPlanID, revision, serial)
}

// indexBySerial builds the serial → item mapping, counting rows that
// cannot be correlated.
func indexBySerial(items []*models.LoadPlanItem) (map[string]*models.LoadPlanItem, int) {
	bySerial := make(map[string]*models.LoadPlanItem, len(items))
	orphaned := 0
	for _, it := range items {
		key := serialKey(it)
		if key == "" {
			orphaned++
			continue
		}
		bySerial[key] = it
	}
	return bySerial, orphaned
}

func sortedSerials(a, b map[string]*models.LoadPlanItem) []string {
	seen := make(map[string]bool, len(a)+len(b))
	serials := make([]string, 0, len(a)+len(b))
	for s := range a {
		if !seen[s] {
			seen[s] = true
			serials = append(serials, s)
		}
	}
	for s := range b {
		if !seen[s] {
			seen[s] = true
			serials = append(serials, s)
		}
	}
	sort.Strings(serials)
	return serials
}
