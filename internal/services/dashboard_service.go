package services

import (
	"context"
	"fmt"

	"cargo-backend/internal/cache"
	"cargo-backend/internal/timeutil"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardStats feeds the operations dashboard widgets
type DashboardStats struct {
	FlightsToday     int            `json:"flights_today"`
	TonnageToday     float64        `json:"tonnage_today"`
	ActiveLoadPlans  int            `json:"active_load_plans"`
	ULDsByStatus     map[string]int `json:"ulds_by_status"`
	PendingBreakdown int            `json:"pending_breakdown"`
	StaffOnShift     int            `json:"staff_on_shift"`
}

type DashboardService struct {
	DB *pgxpool.Pool
}

func NewDashboardService(db *pgxpool.Pool) *DashboardService {
	return &DashboardService{DB: db}
}

// GetStats computes station-level aggregates; results are cached in
// Redis for a short window since every dashboard session polls them.
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	var cached DashboardStats
	if cache.GetJSON(ctx, cache.DashboardStatsKey, &cached) {
		return &cached, nil
	}

	today := timeutil.StartOfDay(timeutil.Now())
	stats := &DashboardStats{ULDsByStatus: make(map[string]int)}

	err := s.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM flights WHERE flight_date=$1`, today).Scan(&stats.FlightsToday)
	if err != nil {
		return nil, fmt.Errorf("count flights: %w", err)
	}

	// Tonnage of the latest revision of each of today's load plans
	err = s.DB.QueryRow(ctx,
		`SELECT COALESCE(SUM(i.weight), 0)
		 FROM load_plan_items i
		 JOIN load_plans lp ON i.load_plan_id = lp.id AND i.revision = lp.latest_revision
		 JOIN flights f ON lp.flight_id = f.id
		 WHERE f.flight_date=$1`, today).Scan(&stats.TonnageToday)
	if err != nil {
		return nil, fmt.Errorf("sum tonnage: %w", err)
	}

	err = s.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM load_plans WHERE latest_revision > 0`).Scan(&stats.ActiveLoadPlans)
	if err != nil {
		return nil, fmt.Errorf("count load plans: %w", err)
	}

	rows, err := s.DB.Query(ctx,
		`SELECT current_status, COUNT(*) FROM ulds GROUP BY current_status`)
	if err != nil {
		return nil, fmt.Errorf("count ulds: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status, n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		if status == 0 {
			stats.ULDsByStatus["Unprocessed"] = n
			continue
		}
		stats.ULDsByStatus[StatusName(status)] = n
		if status < StatusBreakdownCompleted {
			stats.PendingBreakdown += n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM staff_shifts WHERE shift_date=$1`, today).Scan(&stats.StaffOnShift)
	if err != nil {
		return nil, fmt.Errorf("count shifts: %w", err)
	}

	cache.SetJSON(ctx, cache.DashboardStatsKey, stats, cache.DashboardStatsTTL)
	return stats, nil
}
