package repositories

import (
	"context"
	"time"

	"cargo-backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StaffShiftRepository struct {
	DB *pgxpool.Pool
}

func NewStaffShiftRepository(db *pgxpool.Pool) *StaffShiftRepository {
	return &StaffShiftRepository{DB: db}
}

func (r *StaffShiftRepository) Create(ctx context.Context, s *models.StaffShift) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO staff_shifts(user_id, shift_date, shift_code, area, remark)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		s.UserID, s.ShiftDate, s.ShiftCode, s.Area, s.Remark,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// ListByRange returns shifts between two dates inclusive, with the
// staff name denormalized for the roster grid.
func (r *StaffShiftRepository) ListByRange(ctx context.Context, from, to time.Time) ([]*models.StaffShift, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT s.id, s.user_id, u.name, s.shift_date, s.shift_code, s.area, s.remark, s.created_at, s.updated_at
         FROM staff_shifts s
         JOIN users u ON s.user_id = u.id
         WHERE s.shift_date BETWEEN $1 AND $2
         ORDER BY s.shift_date, u.name`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []*models.StaffShift
	for rows.Next() {
		var s models.StaffShift
		if err := rows.Scan(&s.ID, &s.UserID, &s.UserName, &s.ShiftDate, &s.ShiftCode,
			&s.Area, &s.Remark, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		shifts = append(shifts, &s)
	}
	return shifts, rows.Err()
}

func (r *StaffShiftRepository) Update(ctx context.Context, s *models.StaffShift) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE staff_shifts SET shift_code=$1, area=$2, remark=$3, updated_at=NOW()
         WHERE id=$4`,
		s.ShiftCode, s.Area, s.Remark, s.ID)
	return err
}

func (r *StaffShiftRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM staff_shifts WHERE id=$1`, id)
	return err
}
