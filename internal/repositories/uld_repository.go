package repositories

import (
	"context"
	"fmt"

	"cargo-backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ULDRepository struct {
	DB *pgxpool.Pool
}

func NewULDRepository(db *pgxpool.Pool) *ULDRepository {
	return &ULDRepository{DB: db}
}

func (r *ULDRepository) Create(ctx context.Context, u *models.ULD) error {
	if u.ULDType == "" {
		u.ULDType = "container"
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO ulds(uld_number, uld_type, flight_id)
         VALUES($1, $2, $3)
         RETURNING id, current_status, created_at, updated_at`,
		u.ULDNumber, u.ULDType, u.FlightID,
	).Scan(&u.ID, &u.CurrentStatus, &u.CreatedAt, &u.UpdatedAt)
}

func (r *ULDRepository) Get(ctx context.Context, id int) (*models.ULD, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT u.id, u.uld_number, u.uld_type, u.flight_id, COALESCE(f.flight_number, ''),
		        u.current_status, u.created_at, u.updated_at
         FROM ulds u
         LEFT JOIN flights f ON u.flight_id = f.id
         WHERE u.id=$1`, id)

	var u models.ULD
	err := row.Scan(&u.ID, &u.ULDNumber, &u.ULDType, &u.FlightID, &u.FlightNumber,
		&u.CurrentStatus, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *ULDRepository) List(ctx context.Context) ([]*models.ULD, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT u.id, u.uld_number, u.uld_type, u.flight_id, COALESCE(f.flight_number, ''),
		        u.current_status, u.created_at, u.updated_at
         FROM ulds u
         LEFT JOIN flights f ON u.flight_id = f.id
         ORDER BY u.updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ulds []*models.ULD
	for rows.Next() {
		var u models.ULD
		if err := rows.Scan(&u.ID, &u.ULDNumber, &u.ULDType, &u.FlightID, &u.FlightNumber,
			&u.CurrentStatus, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		ulds = append(ulds, &u)
	}
	return ulds, rows.Err()
}

// History returns the append-only status history, oldest first
func (r *ULDRepository) History(ctx context.Context, uldID int) ([]*models.ULDStatusEvent, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, uld_id, status, ts, changed_by, backfilled
         FROM uld_status_history
         WHERE uld_id=$1
         ORDER BY ts, id`, uldID)
	if err != nil {
		return nil, fmt.Errorf("fetch status history (uld %d): %w", uldID, err)
	}
	defer rows.Close()

	var history []*models.ULDStatusEvent
	for rows.Next() {
		var e models.ULDStatusEvent
		if err := rows.Scan(&e.ID, &e.ULDID, &e.Status, &e.Timestamp, &e.ChangedBy, &e.Backfilled); err != nil {
			return nil, err
		}
		history = append(history, &e)
	}
	return history, rows.Err()
}

// AppendStatusEvents records status entries (target plus any backfill)
// and advances current_status in one transaction.
func (r *ULDRepository) AppendStatusEvents(ctx context.Context, uldID int, events []*models.ULDStatusEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin status update: %w", err)
	}
	defer tx.Rollback(ctx)

	highest := 0
	for _, e := range events {
		e.ULDID = uldID
		err := tx.QueryRow(ctx,
			`INSERT INTO uld_status_history(uld_id, status, ts, changed_by, backfilled)
			 VALUES($1, $2, $3, $4, $5)
			 RETURNING id`,
			e.ULDID, e.Status, e.Timestamp, e.ChangedBy, e.Backfilled,
		).Scan(&e.ID)
		if err != nil {
			return fmt.Errorf("insert status %d: %w", e.Status, err)
		}
		if e.Status > highest {
			highest = e.Status
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE ulds SET current_status = GREATEST(current_status, $1), updated_at=NOW()
         WHERE id=$2`, highest, uldID)
	if err != nil {
		return fmt.Errorf("advance current status: %w", err)
	}

	return tx.Commit(ctx)
}
