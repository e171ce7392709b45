package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemStats feeds the infrastructure widget on the operations dashboard
type SystemStats struct {
	DatabaseStatus    string  `json:"database_status"`
	ResponseTime      int64   `json:"response_time_ms"`
	ActiveConnections int32   `json:"active_connections"`
	IdleConnections   int32   `json:"idle_connections"`
	CPUPercent        float64 `json:"cpu_percent"`
	MemoryPercent     float64 `json:"memory_percent"`
	MemoryUsed        string  `json:"memory_used"`
	MemoryTotal       string  `json:"memory_total"`
	DiskPercent       float64 `json:"disk_percent"`
	DiskUsed          string  `json:"disk_used"`
	DiskTotal         string  `json:"disk_total"`
}

type Collector struct {
	db *pgxpool.Pool
}

func NewCollector(db *pgxpool.Pool) *Collector {
	return &Collector{db: db}
}

func (c *Collector) Collect(ctx context.Context) SystemStats {
	stats := SystemStats{DatabaseStatus: "healthy"}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := c.db.Ping(pingCtx); err != nil {
		stats.DatabaseStatus = "unhealthy"
	}
	stats.ResponseTime = time.Since(start).Milliseconds()

	poolStat := c.db.Stat()
	stats.ActiveConnections = poolStat.AcquiredConns()
	stats.IdleConnections = poolStat.IdleConns()

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = vm.UsedPercent
		stats.MemoryUsed = formatBytes(vm.Used)
		stats.MemoryTotal = formatBytes(vm.Total)
	}

	if du, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = du.UsedPercent
		stats.DiskUsed = formatBytes(du.Used)
		stats.DiskTotal = formatBytes(du.Total)
	}

	return stats
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
