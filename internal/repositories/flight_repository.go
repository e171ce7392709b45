package repositories

import (
	"context"
	"time"

	"cargo-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository struct {
	DB *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) *FlightRepository {
	return &FlightRepository{DB: db}
}

func (r *FlightRepository) Create(ctx context.Context, f *models.Flight) error {
	if f.Status == "" {
		f.Status = "scheduled"
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO flights(flight_number, origin, destination, flight_date, scheduled_departure, scheduled_arrival, aircraft_type, status)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8)
         RETURNING id, created_at, updated_at`,
		f.FlightNumber, f.Origin, f.Destination, f.FlightDate,
		f.ScheduledDep, f.ScheduledArr, f.AircraftType, f.Status,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}

func (r *FlightRepository) Get(ctx context.Context, id int) (*models.Flight, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, flight_number, origin, destination, flight_date, scheduled_departure, scheduled_arrival, aircraft_type, status, created_at, updated_at
         FROM flights WHERE id=$1`, id)

	var f models.Flight
	err := row.Scan(&f.ID, &f.FlightNumber, &f.Origin, &f.Destination, &f.FlightDate,
		&f.ScheduledDep, &f.ScheduledArr, &f.AircraftType, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListByDate returns flights scheduled on the given UTC date
func (r *FlightRepository) ListByDate(ctx context.Context, date time.Time) ([]*models.Flight, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, flight_number, origin, destination, flight_date, scheduled_departure, scheduled_arrival, aircraft_type, status, created_at, updated_at
         FROM flights WHERE flight_date=$1 ORDER BY scheduled_departure NULLS LAST, flight_number`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFlights(rows)
}

func (r *FlightRepository) List(ctx context.Context) ([]*models.Flight, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, flight_number, origin, destination, flight_date, scheduled_departure, scheduled_arrival, aircraft_type, status, created_at, updated_at
         FROM flights ORDER BY flight_date DESC, flight_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFlights(rows)
}

func (r *FlightRepository) Update(ctx context.Context, f *models.Flight) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE flights SET flight_number=$1, origin=$2, destination=$3, flight_date=$4,
                scheduled_departure=$5, scheduled_arrival=$6, aircraft_type=$7, status=$8, updated_at=NOW()
         WHERE id=$9`,
		f.FlightNumber, f.Origin, f.Destination, f.FlightDate,
		f.ScheduledDep, f.ScheduledArr, f.AircraftType, f.Status, f.ID)
	return err
}

func (r *FlightRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	return err
}

func scanFlights(rows pgx.Rows) ([]*models.Flight, error) {
	var flights []*models.Flight
	for rows.Next() {
		var f models.Flight
		if err := rows.Scan(&f.ID, &f.FlightNumber, &f.Origin, &f.Destination, &f.FlightDate,
			&f.ScheduledDep, &f.ScheduledArr, &f.AircraftType, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		flights = append(flights, &f)
	}
	return flights, rows.Err()
}
