// file: internal/database/health.go
package database

import (
	"context"
	"time"
)

// Health status values
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus describes the outcome of a database health check.
type HealthStatus struct {
	Status    string        `json:"status"`
	Latency   time.Duration `json:"latency"`
	CheckedAt time.Time     `json:"checked_at"`
	Errors    []string      `json:"errors,omitempty"`
}

// Health pings the primary and reports status and latency.
func Health(ctx context.Context) HealthStatus {
	status := HealthStatus{CheckedAt: time.Now()}

	if DB == nil {
		status.Status = StatusUnhealthy
		status.Errors = append(status.Errors, "database manager not initialized")
		return status
	}

	// The ping is bounded by the configured query timeout so a wedged
	// primary cannot stall the health endpoint.
	ctx, cancel := context.WithTimeout(ctx, DB.cfg.QueryTimeout)
	defer cancel()

	start := time.Now()
	if err := DB.Ping(ctx); err != nil {
		status.Status = StatusUnhealthy
		status.Errors = append(status.Errors, err.Error())
		return status
	}

	status.Status = StatusHealthy
	status.Latency = time.Since(start)
	return status
}
