package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "amfiflow/internal/errors"
	"amfiflow/internal/infrastructure"
	"amfiflow/pkg/contracts/domain"
)

// IngestServiceInterface is the workflow surface behind the trigger endpoint.
type IngestServiceInterface interface {
	RunCurrent(ctx context.Context) domain.IngestResult
	Run(ctx context.Context, month string, year int) domain.IngestResult
}

// IngestLogReader lists recent audit rows.
type IngestLogReader interface {
	GetIngestionLogs(ctx context.Context, limit int) ([]domain.IngestionLog, error)
}

// TriggerRequest optionally selects a specific reporting month. An empty body
// means the current calendar month.
type TriggerRequest struct {
	Month string `json:"month,omitempty" validate:"omitempty,len=3,alpha"`
	Year  int    `json:"year,omitempty" validate:"omitempty,min=2000,max=2100"`
}

// IngestHandler handles the ingestion trigger and audit-log endpoints.
type IngestHandler struct {
	service      IngestServiceInterface
	logs         IngestLogReader
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(service IngestServiceInterface, logs IngestLogReader, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *IngestHandler {
	return &IngestHandler{
		service:      service,
		logs:         logs,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "ingest_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the ingestion routes.
func (h *IngestHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/trigger", h.Trigger)
	r.Get("/logs", h.GetLogs)

	return r
}

// Trigger handles POST /api/download/trigger. The body is optional; when
// present it selects a specific month and year. The run itself never errors —
// its structured result is returned with a status code derived from it.
func (h *IngestHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	reqID := infrastructure.GetTraceID(r.Context())

	var req TriggerRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	// Month and year travel together
	if (req.Month == "") != (req.Year == 0) {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("month", "month and year must be provided together"))
		return
	}

	if req.Month != "" {
		if err := h.validate.Struct(&req); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
	}

	h.logger.InfoContext(r.Context(), "ingestion triggered",
		slog.String("request_id", reqID),
		slog.String("month", req.Month),
		slog.Int("year", req.Year),
	)

	var result domain.IngestResult
	if req.Month != "" {
		result = h.service.Run(r.Context(), req.Month, req.Year)
	} else {
		result = h.service.RunCurrent(r.Context())
	}

	status := http.StatusOK
	if result.Status == domain.IngestFailed {
		status = http.StatusInternalServerError
	}

	render.Status(r, status)
	render.JSON(w, r, result)
}

// GetLogs handles GET /api/download/logs.
func (h *IngestHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("limit", "limit must be between 1 and 500"))
			return
		}
		limit = n
	}

	logs, err := h.logs.GetIngestionLogs(r.Context(), limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   logs,
		"count":  len(logs),
	})
}
