package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "amfiflow/internal/errors"
	"amfiflow/internal/exporter"
	"amfiflow/internal/infrastructure"
	"amfiflow/internal/services"
	"amfiflow/pkg/contracts/domain"
)

// DataServiceInterface is the read surface the data handler serves.
type DataServiceInterface interface {
	YearMatrix(ctx context.Context, year int) (*domain.YearMatrix, error)
	YearSummary(ctx context.Context, year int) (*domain.YearSummary, error)
	MonthDetail(ctx context.Context, month string) (*domain.MonthDetail, error)
}

// DataHandler handles the aggregate read endpoints.
type DataHandler struct {
	service      DataServiceInterface
	exporter     *exporter.CSVExporter
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler.
func NewDataHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		exporter:     exporter.NewCSVExporter(true),
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes.
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/year/{year}", func(r chi.Router) {
		r.Use(h.YearCtx)
		r.Get("/", h.GetYearMatrix)
		r.Get("/summary", h.GetYearSummary)
		r.Get("/export", h.ExportYearMatrix)
	})
	r.Get("/month/{month}", h.GetMonthDetail)
	r.Get("/month/{month}/export", h.ExportMonthDetail)

	return r
}

type yearCtxKey struct{}

// YearCtx validates the year parameter and loads it into the context.
func (h *DataHandler) YearCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "year")
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1000 || year > 9999 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("year", "Year must be a 4-digit number"))
			return
		}

		ctx := context.WithValue(r.Context(), yearCtxKey{}, year)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func yearFromContext(ctx context.Context) int {
	year, _ := ctx.Value(yearCtxKey{}).(int)
	return year
}

// GetYearMatrix handles GET /api/amfi/year/{year}
func (h *DataHandler) GetYearMatrix(w http.ResponseWriter, r *http.Request) {
	year := yearFromContext(r.Context())

	h.logger.InfoContext(r.Context(), "fetching year matrix",
		slog.String("request_id", infrastructure.GetTraceID(r.Context())),
		slog.Int("year", year),
	)

	matrix, err := h.service.YearMatrix(r.Context(), year)
	if err != nil {
		h.handleReadError(w, r, err)
		return
	}

	render.JSON(w, r, matrix)
}

// GetYearSummary handles GET /api/amfi/year/{year}/summary
func (h *DataHandler) GetYearSummary(w http.ResponseWriter, r *http.Request) {
	year := yearFromContext(r.Context())

	h.logger.InfoContext(r.Context(), "fetching year summary",
		slog.String("request_id", infrastructure.GetTraceID(r.Context())),
		slog.Int("year", year),
	)

	summary, err := h.service.YearSummary(r.Context(), year)
	if err != nil {
		h.handleReadError(w, r, err)
		return
	}

	render.JSON(w, r, summary)
}

// GetMonthDetail handles GET /api/amfi/month/{month}
func (h *DataHandler) GetMonthDetail(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	if month == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("month", "Month label is required"))
		return
	}

	h.logger.InfoContext(r.Context(), "fetching month detail",
		slog.String("request_id", infrastructure.GetTraceID(r.Context())),
		slog.String("month", month),
	)

	detail, err := h.service.MonthDetail(r.Context(), month)
	if err != nil {
		h.handleReadError(w, r, err)
		return
	}

	render.JSON(w, r, detail)
}

// ExportYearMatrix handles GET /api/amfi/year/{year}/export, serving the
// matrix as a CSV download.
func (h *DataHandler) ExportYearMatrix(w http.ResponseWriter, r *http.Request) {
	year := yearFromContext(r.Context())

	matrix, err := h.service.YearMatrix(r.Context(), year)
	if err != nil {
		h.handleReadError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="amfi_inflows_%d.csv"`, year))
	if err := h.exporter.WriteYearMatrix(w, matrix); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed",
			slog.Int("year", year),
			slog.String("error", err.Error()))
	}
}

// ExportMonthDetail handles GET /api/amfi/month/{month}/export.
func (h *DataHandler) ExportMonthDetail(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	if month == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("month", "Month label is required"))
		return
	}

	detail, err := h.service.MonthDetail(r.Context(), month)
	if err != nil {
		h.handleReadError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="amfi_inflows_%s.csv"`, month))
	if err := h.exporter.WriteMonthDetail(w, detail); err != nil {
		h.logger.ErrorContext(r.Context(), "csv export failed",
			slog.String("month", month),
			slog.String("error", err.Error()))
	}
}

func (h *DataHandler) handleReadError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrNoDataForYear) || errors.Is(err, services.ErrNoDataForMonth) {
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusNotFound,
			"NO_DATA_FOUND",
			err.Error(),
		))
		return
	}
	h.errorHandler.HandleError(w, r, err)
}
