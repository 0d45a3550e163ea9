package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"

	healthCheckTimeout = 3 * time.Second
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	Database  Pinger
	Email     Pinger
	StartTime time.Time
}

type HealthChecks struct {
	Database bool `json:"database"`
	Email    bool `json:"email"`
}

type HealthResponse struct {
	Status    string       `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	Uptime    string       `json:"uptime"`
	Checks    HealthChecks `json:"checks"`
}

func NewHealthHandler(database, email Pinger) *HealthHandler {
	return &HealthHandler{
		Database:  database,
		Email:     email,
		StartTime: time.Now(),
	}
}

// Handle reports healthy (200) when every check passes, degraded (503) when
// some do and unhealthy (503) when none do.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	var (
		wg     sync.WaitGroup
		checks HealthChecks
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		checks.Database = ping(ctx, h.Database)
	}()
	go func() {
		defer wg.Done()
		checks.Email = ping(ctx, h.Email)
	}()
	wg.Wait()

	status := StatusHealthy
	switch {
	case !checks.Database && !checks.Email:
		status = StatusUnhealthy
	case !checks.Database || !checks.Email:
		status = StatusDegraded
	}

	code := http.StatusOK
	if status != StatusHealthy {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.StartTime).Round(time.Second).String(),
		Checks:    checks,
	})
}

func ping(ctx context.Context, p Pinger) bool {
	if p == nil {
		return false
	}
	return p.Ping(ctx) == nil
}
