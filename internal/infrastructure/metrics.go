package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus instruments.
type Metrics struct {
	IngestRuns      *prometheus.CounterVec
	RecordsUpserted prometheus.Counter
	HTTPRequests    *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates the instrument set on a private registry so tests can
// create independent instances.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		IngestRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "amfiflow_ingest_runs_total",
			Help: "Ingestion runs by outcome status.",
		}, []string{"status"}),
		RecordsUpserted: factory.NewCounter(prometheus.CounterOpts{
			Name: "amfiflow_records_upserted_total",
			Help: "Inflow records written to the store.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "amfiflow_http_requests_total",
			Help: "HTTP requests by method and status class.",
		}, []string{"method", "status"}),
		registry: reg,
	}
}

// Handler returns the /metrics HTTP handler for this instrument set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
