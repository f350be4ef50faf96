package services

import (
	"context"
	"log/slog"
	"time"
)

// Pinger is the storage surface the health service probes.
type Pinger interface {
	Ping(ctx context.Context) error
	CountInflows(ctx context.Context) (int, error)
}

// HealthStatus is the health/readiness report returned by the API.
type HealthStatus struct {
	Status     string    `json:"status"`
	Version    string    `json:"version"`
	BuildTime  string    `json:"build_time,omitempty"`
	UptimeSecs int64     `json:"uptime_seconds"`
	CheckedAt  time.Time `json:"checked_at"`
	Records    int       `json:"records,omitempty"`
	Database   string    `json:"database"`
}

// HealthService reports liveness and readiness for the HTTP surface.
type HealthService struct {
	version   string
	buildTime string
	startedAt time.Time
	store     Pinger
	logger    *slog.Logger
}

// NewHealthService creates a health service with build information.
func NewHealthService(version, buildTime string, store Pinger, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		startedAt: time.Now(),
		store:     store,
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Check probes the store and reports overall health.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "healthy",
		Version:    s.version,
		BuildTime:  s.buildTime,
		UptimeSecs: int64(time.Since(s.startedAt).Seconds()),
		CheckedAt:  time.Now().UTC(),
		Database:   "ok",
	}

	if err := s.store.Ping(ctx); err != nil {
		status.Status = "degraded"
		status.Database = err.Error()
		return status
	}

	if n, err := s.store.CountInflows(ctx); err == nil {
		status.Records = n
	}

	return status
}

// Ready reports whether the service can serve reads.
func (s *HealthService) Ready(ctx context.Context) bool {
	return s.store.Ping(ctx) == nil
}

// Version returns the build version string.
func (s *HealthService) Version() string {
	return s.version
}
