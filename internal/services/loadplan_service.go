package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cargo-backend/internal/models"
)

// LoadPlanStore manages the revision counter for a load plan
type LoadPlanStore interface {
	Get(ctx context.Context, id int) (*models.LoadPlan, error)
	BumpRevision(ctx context.Context, id int) (int, error)
}

// LoadPlanItemWriter is the ingest side of the item storage adapter
type LoadPlanItemWriter interface {
	CreateBatch(ctx context.Context, loadPlanID, revision int, items []*models.LoadPlanItem) error
}

// LoadPlanService turns an upload pipeline's parsed line items into
// the next immutable revision snapshot.
type LoadPlanService struct {
	Plans LoadPlanStore
	Items LoadPlanItemWriter
}

func NewLoadPlanService(plans LoadPlanStore, items LoadPlanItemWriter) *LoadPlanService {
	return &LoadPlanService{Plans: plans, Items: items}
}

// IngestRevision assigns the next revision number and stores the batch
// as that snapshot. Duplicate serial numbers within the batch are
// rejected; rows without a serial number are accepted but counted as
// orphans since they can never be correlated by the comparator.
func (s *LoadPlanService) IngestRevision(ctx context.Context, loadPlanID int, items []*models.LoadPlanItem) (*models.IngestRevisionResponse, error) {
	if len(items) == 0 {
		return nil, errors.New("revision must contain at least one item")
	}

	if _, err := s.Plans.Get(ctx, loadPlanID); err != nil {
		return nil, fmt.Errorf("load plan %d not found: %w", loadPlanID, err)
	}

	orphaned := 0
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		key := serialKey(it)
		if key == "" {
			orphaned++
			continue
		}
		if seen[key] {
			return nil, fmt.Errorf("duplicate serial number %q in batch", key)
		}
		seen[key] = true
	}

	revision, err := s.Plans.BumpRevision(ctx, loadPlanID)
	if err != nil {
		return nil, fmt.Errorf("assign revision: %w", err)
	}

	if err := s.Items.CreateBatch(ctx, loadPlanID, revision, items); err != nil {
		return nil, fmt.Errorf("store revision %d: %w", revision, err)
	}

	if orphaned > 0 {
		log.Printf("[LoadPlan] plan %d rev %d: %d ingested items have no serial number", loadPlanID, revision, orphaned)
	}

	return &models.IngestRevisionResponse{
		Revision:      revision,
		ItemCount:     len(items),
		OrphanedItems: orphaned,
	}, nil
}
