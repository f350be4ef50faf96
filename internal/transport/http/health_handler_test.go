package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"amfiflow/internal/services"
)

type stubPinger struct {
	pingErr error
}

func (s *stubPinger) Ping(_ context.Context) error { return s.pingErr }

func (s *stubPinger) CountInflows(_ context.Context) (int, error) { return 7, nil }

func newHealthHandler(pingErr error) *HealthHandler {
	svc := services.NewHealthService("1.2.3", "", &stubPinger{pingErr: pingErr}, nil)
	return NewHealthHandler(svc, slog.Default())
}

func TestHealthCheckEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newHealthHandler(nil).HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
	assert.Contains(t, rec.Body.String(), `"1.2.3"`)
}

func TestHealthCheckEndpointDegraded(t *testing.T) {
	rec := httptest.NewRecorder()
	newHealthHandler(errors.New("closed")).HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"degraded"`)
}

func TestReadinessEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newHealthHandler(nil).ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	newHealthHandler(errors.New("closed")).ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestVersionEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newHealthHandler(nil).Version(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"1.2.3"`)
}
