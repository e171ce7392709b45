package health

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"cargo-backend/internal/cache"
)

type HealthChecker struct {
	db *pgxpool.Pool
}

// HealthStatus is the /health payload. The overall status follows the
// database only: Redis degrades gracefully and never fails the probe.
type HealthStatus struct {
	Status   string          `json:"status"`
	Service  string          `json:"service"`
	Database ComponentHealth `json:"database"`
	Cache    ComponentHealth `json:"cache"`
}

type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms,omitempty"`
}

func NewHealthChecker(db *pgxpool.Pool) *HealthChecker {
	return &HealthChecker{db: db}
}

func (h *HealthChecker) CheckBasic() HealthStatus {
	dbHealth := h.checkDatabase()

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:   status,
		Service:  "cargo-backend",
		Database: dbHealth,
		Cache:    checkCache(),
	}
}

func (h *HealthChecker) checkDatabase() ComponentHealth {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return ComponentHealth{Status: "unhealthy", ResponseTime: responseTime}
	}
	return ComponentHealth{Status: "healthy", ResponseTime: responseTime}
}

func checkCache() ComponentHealth {
	client := cache.GetClient()
	if client == nil {
		return ComponentHealth{Status: "disabled"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := client.Ping(ctx).Err()
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return ComponentHealth{Status: "unavailable", ResponseTime: responseTime}
	}
	return ComponentHealth{Status: "healthy", ResponseTime: responseTime}
}
