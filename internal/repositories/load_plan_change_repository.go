package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cargo-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrChangeNotFound is returned when no change record exists for a serial
var ErrChangeNotFound = errors.New("change record not found")

type LoadPlanChangeRepository struct {
	DB *pgxpool.Pool
}

func NewLoadPlanChangeRepository(db *pgxpool.Pool) *LoadPlanChangeRepository {
	return &LoadPlanChangeRepository{DB: db}
}

// CreateBatch persists one comparison run's change records atomically.
// The unique constraint on (load_plan_id, revision, serial_number,
// item_type) rejects a duplicate persist of the same comparison.
func (r *LoadPlanChangeRepository) CreateBatch(ctx context.Context, changes []*models.LoadPlanChange) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin persist: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range changes {
		fieldChanges, originalData, revisedData, err := marshalChangePayloads(c)
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx,
			`INSERT INTO load_plan_changes(
				load_plan_id, revision, change_type, item_type,
				original_item_id, revised_item_id, serial_number,
				uld_section_index, sector_index,
				field_changes, original_data, revised_data)
			 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			 RETURNING id, created_at`,
			c.LoadPlanID, c.Revision, c.ChangeType, c.ItemType,
			c.OriginalItemID, c.RevisedItemID, c.SerialNumber,
			c.ULDSectionIndex, c.SectorIndex,
			fieldChanges, originalData, revisedData,
		).Scan(&c.ID, &c.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert change (serial %s): %w", c.SerialNumber, err)
		}
	}

	return tx.Commit(ctx)
}

// ListByRevision returns the persisted change list for a comparison run
func (r *LoadPlanChangeRepository) ListByRevision(ctx context.Context, loadPlanID, revision int) ([]*models.LoadPlanChange, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, load_plan_id, revision, change_type, item_type,
		        original_item_id, revised_item_id, serial_number,
		        uld_section_index, sector_index,
		        field_changes, original_data, revised_data, created_at
         FROM load_plan_changes
         WHERE load_plan_id=$1 AND revision=$2
         ORDER BY serial_number`, loadPlanID, revision)
	if err != nil {
		return nil, fmt.Errorf("fetch changes (plan %d rev %d): %w", loadPlanID, revision, err)
	}
	defer rows.Close()

	var changes []*models.LoadPlanChange
	for rows.Next() {
		c, err := scanChange(rows)
		if err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

// GetBySerial returns the change record for one serial number, or
// ErrChangeNotFound when the item did not change in that comparison.
func (r *LoadPlanChangeRepository) GetBySerial(ctx context.Context, loadPlanID, revision int, serial string) (*models.LoadPlanChange, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, load_plan_id, revision, change_type, item_type,
		        original_item_id, revised_item_id, serial_number,
		        uld_section_index, sector_index,
		        field_changes, original_data, revised_data, created_at
         FROM load_plan_changes
         WHERE load_plan_id=$1 AND revision=$2 AND serial_number=$3`, loadPlanID, revision, serial)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrChangeNotFound
	}
	return scanChange(rows)
}

func marshalChangePayloads(c *models.LoadPlanChange) (fieldChanges, originalData, revisedData []byte, err error) {
	if c.FieldChanges != nil {
		if fieldChanges, err = json.Marshal(c.FieldChanges); err != nil {
			return nil, nil, nil, fmt.Errorf("marshal field changes: %w", err)
		}
	}
	if c.OriginalData != nil {
		if originalData, err = json.Marshal(c.OriginalData); err != nil {
			return nil, nil, nil, fmt.Errorf("marshal original data: %w", err)
		}
	}
	if c.RevisedData != nil {
		if revisedData, err = json.Marshal(c.RevisedData); err != nil {
			return nil, nil, nil, fmt.Errorf("marshal revised data: %w", err)
		}
	}
	return fieldChanges, originalData, revisedData, nil
}

func scanChange(rows pgx.Rows) (*models.LoadPlanChange, error) {
	var c models.LoadPlanChange
	var fieldChanges, originalData, revisedData []byte

	if err := rows.Scan(
		&c.ID, &c.LoadPlanID, &c.Revision, &c.ChangeType, &c.ItemType,
		&c.OriginalItemID, &c.RevisedItemID, &c.SerialNumber,
		&c.ULDSectionIndex, &c.SectorIndex,
		&fieldChanges, &originalData, &revisedData, &c.CreatedAt,
	); err != nil {
		return nil, err
	}

	if len(fieldChanges) > 0 {
		if err := json.Unmarshal(fieldChanges, &c.FieldChanges); err != nil {
			return nil, fmt.Errorf("unmarshal field changes: %w", err)
		}
	}
	if len(originalData) > 0 {
		if err := json.Unmarshal(originalData, &c.OriginalData); err != nil {
			return nil, fmt.Errorf("unmarshal original data: %w", err)
		}
	}
	if len(revisedData) > 0 {
		if err := json.Unmarshal(revisedData, &c.RevisedData); err != nil {
			return nil, fmt.Errorf("unmarshal revised data: %w", err)
		}
	}
	return &c, nil
}
