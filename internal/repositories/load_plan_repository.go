package repositories

import (
	"context"

	"cargo-backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LoadPlanRepository struct {
	DB *pgxpool.Pool
}

func NewLoadPlanRepository(db *pgxpool.Pool) *LoadPlanRepository {
	return &LoadPlanRepository{DB: db}
}

func (r *LoadPlanRepository) Create(ctx context.Context, lp *models.LoadPlan) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO load_plans(flight_id) VALUES($1)
         RETURNING id, latest_revision, created_at, updated_at`,
		lp.FlightID,
	).Scan(&lp.ID, &lp.LatestRevision, &lp.CreatedAt, &lp.UpdatedAt)
}

func (r *LoadPlanRepository) Get(ctx context.Context, id int) (*models.LoadPlan, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT lp.id, lp.flight_id, f.flight_number, lp.latest_revision, lp.created_at, lp.updated_at
         FROM load_plans lp
         JOIN flights f ON lp.flight_id = f.id
         WHERE lp.id=$1`, id)

	var lp models.LoadPlan
	err := row.Scan(&lp.ID, &lp.FlightID, &lp.FlightNumber, &lp.LatestRevision, &lp.CreatedAt, &lp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &lp, nil
}

func (r *LoadPlanRepository) GetByFlight(ctx context.Context, flightID int) (*models.LoadPlan, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT lp.id, lp.flight_id, f.flight_number, lp.latest_revision, lp.created_at, lp.updated_at
         FROM load_plans lp
         JOIN flights f ON lp.flight_id = f.id
         WHERE lp.flight_id=$1`, flightID)

	var lp models.LoadPlan
	err := row.Scan(&lp.ID, &lp.FlightID, &lp.FlightNumber, &lp.LatestRevision, &lp.CreatedAt, &lp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &lp, nil
}

func (r *LoadPlanRepository) List(ctx context.Context) ([]*models.LoadPlan, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT lp.id, lp.flight_id, f.flight_number, lp.latest_revision, lp.created_at, lp.updated_at
         FROM load_plans lp
         JOIN flights f ON lp.flight_id = f.id
         ORDER BY lp.updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*models.LoadPlan
	for rows.Next() {
		var lp models.LoadPlan
		if err := rows.Scan(&lp.ID, &lp.FlightID, &lp.FlightNumber, &lp.LatestRevision, &lp.CreatedAt, &lp.UpdatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, &lp)
	}
	return plans, rows.Err()
}

// BumpRevision advances latest_revision and returns the new value.
// Used when ingesting a document as the next snapshot.
func (r *LoadPlanRepository) BumpRevision(ctx context.Context, id int) (int, error) {
	var revision int
	err := r.DB.QueryRow(ctx,
		`UPDATE load_plans SET latest_revision = latest_revision + 1, updated_at=NOW()
         WHERE id=$1 RETURNING latest_revision`, id).Scan(&revision)
	return revision, err
}
