package repositories

import (
	"context"
	"fmt"

	"cargo-backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LoadPlanItemRepository struct {
	DB *pgxpool.Pool
}

func NewLoadPlanItemRepository(db *pgxpool.Pool) *LoadPlanItemRepository {
	return &LoadPlanItemRepository{DB: db}
}

const itemColumns = `id, load_plan_id, revision, serial_number, awb_number, origin_destination,
	pieces, weight, volume, load_volume, shc, description, product_code,
	handling_charge, service_charge, booking_status, priority, inbound_flight,
	arrival_time, quantity_code, payment_terms, warehouse_code, special_instructions,
	uld_allocation, special_notes, sector, ramp_transfer, created_at, updated_at`

// CreateBatch inserts one revision's items in a single transaction so a
// partially ingested snapshot never becomes visible.
func (r *LoadPlanItemRepository) CreateBatch(ctx context.Context, loadPlanID, revision int, items []*models.LoadPlanItem) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin ingest: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, it := range items {
		it.LoadPlanID = loadPlanID
		it.Revision = revision
		err := tx.QueryRow(ctx,
			`INSERT INTO load_plan_items(
				load_plan_id, revision, serial_number, awb_number, origin_destination,
				pieces, weight, volume, load_volume, shc, description, product_code,
				handling_charge, service_charge, booking_status, priority, inbound_flight,
				arrival_time, quantity_code, payment_terms, warehouse_code, special_instructions,
				uld_allocation, special_notes, sector, ramp_transfer)
			 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)
			 RETURNING id, created_at, updated_at`,
			it.LoadPlanID, it.Revision, it.SerialNumber, it.AWBNumber, it.OriginDestination,
			it.Pieces, it.Weight, it.Volume, it.LoadVolume, it.SHC, it.Description, it.ProductCode,
			it.HandlingCharge, it.ServiceCharge, it.BookingStatus, it.Priority, it.InboundFlight,
			it.ArrivalTime, it.QuantityCode, it.PaymentTerms, it.WarehouseCode, it.SpecialInstructions,
			it.ULDAllocation, it.SpecialNotes, it.Sector, it.RampTransfer,
		).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert item (serial %v): %w", derefStr(it.SerialNumber), err)
		}
	}

	return tx.Commit(ctx)
}

// ListByRevision returns one revision's items ordered by serial number.
// Ordering is for determinism only; the comparator keys by serial.
func (r *LoadPlanItemRepository) ListByRevision(ctx context.Context, loadPlanID, revision int) ([]*models.LoadPlanItem, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+itemColumns+`
         FROM load_plan_items
         WHERE load_plan_id=$1 AND revision=$2
         ORDER BY serial_number NULLS LAST, id`, loadPlanID, revision)
	if err != nil {
		return nil, fmt.Errorf("fetch items (plan %d rev %d): %w", loadPlanID, revision, err)
	}
	defer rows.Close()

	var items []*models.LoadPlanItem
	for rows.Next() {
		var it models.LoadPlanItem
		if err := rows.Scan(
			&it.ID, &it.LoadPlanID, &it.Revision, &it.SerialNumber, &it.AWBNumber, &it.OriginDestination,
			&it.Pieces, &it.Weight, &it.Volume, &it.LoadVolume, &it.SHC, &it.Description, &it.ProductCode,
			&it.HandlingCharge, &it.ServiceCharge, &it.BookingStatus, &it.Priority, &it.InboundFlight,
			&it.ArrivalTime, &it.QuantityCode, &it.PaymentTerms, &it.WarehouseCode, &it.SpecialInstructions,
			&it.ULDAllocation, &it.SpecialNotes, &it.Sector, &it.RampTransfer, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
