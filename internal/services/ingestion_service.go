package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"amfiflow/internal/dataprocessing"
	"amfiflow/internal/downloader"
	"amfiflow/internal/infrastructure"
	"amfiflow/pkg/contracts/domain"
)

// IngestStore is the storage surface the ingestion workflow writes to.
type IngestStore interface {
	UpsertInflows(ctx context.Context, recs []domain.InflowRecord) error
	InsertIngestionLog(ctx context.Context, log domain.IngestionLog) error
	HasSuccessfulIngestion(ctx context.Context, url string) (bool, error)
}

// Fetcher downloads one monthly report file.
type Fetcher interface {
	Fetch(ctx context.Context, month string, year int) (downloader.Result, error)
}

// IngestionService runs the full monthly workflow: generate URL, idempotency
// check, download, parse, upsert, audit. Every run writes one audit row; no
// failure propagates as an error past Run — the outcome is always a
// structured result.
type IngestionService struct {
	fetcher Fetcher
	parser  *dataprocessing.Parser
	store   IngestStore
	metrics *infrastructure.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewIngestionService wires the ingestion workflow.
func NewIngestionService(fetcher Fetcher, parser *dataprocessing.Parser, store IngestStore, metrics *infrastructure.Metrics, logger *slog.Logger) *IngestionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestionService{
		fetcher: fetcher,
		parser:  parser,
		store:   store,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "ingestion_service")),
		now:     time.Now,
	}
}

// RunCurrent ingests the report for the current calendar month.
func (s *IngestionService) RunCurrent(ctx context.Context) domain.IngestResult {
	_, month, year := downloader.CurrentMonth(s.now())
	return s.Run(ctx, month, year)
}

// Run ingests the report for a specific month and year.
func (s *IngestionService) Run(ctx context.Context, month string, year int) domain.IngestResult {
	url := downloader.URLFor(month, year)
	result := domain.IngestResult{
		Status: domain.IngestFailed,
		URL:    url,
		Month:  month,
		Year:   year,
	}

	// Idempotency: a URL already ingested successfully is skipped, not
	// re-downloaded.
	done, err := s.store.HasSuccessfulIngestion(ctx, url)
	if err != nil {
		result.Message = fmt.Sprintf("idempotency check failed: %v", err)
		s.finish(ctx, &result, nil)
		return result
	}
	if done {
		result.Status = domain.IngestSkipped
		result.SkipReason = "already downloaded and ingested successfully on a previous run"
		result.Message = "file already ingested"
		s.finish(ctx, &result, nil)
		return result
	}

	fetched, err := s.fetcher.Fetch(ctx, month, year)
	result.HTTPStatus = fetched.HTTPStatus
	if err != nil {
		result.Message = err.Error()
		s.finish(ctx, &result, nil)
		return result
	}
	result.FilePath = fetched.FilePath
	result.FileSizeBytes = fetched.FileSizeBytes

	outcome := s.ParseAndStore(ctx, fetched.FilePath, month, year)
	result.Parse = &outcome

	switch outcome.Status {
	case domain.ParseSuccess:
		result.Status = domain.IngestSuccess
		result.Message = fmt.Sprintf("file downloaded and %d records stored", outcome.RecordsCount)
	default:
		// File landed on disk but yielded nothing usable; surfaced for
		// diagnostics, not retried. The file itself stays downloaded.
		result.Status = domain.IngestFailed
		result.Message = outcome.Message
	}

	s.finish(ctx, &result, &outcome)
	return result
}

// ParseAndStore extracts records from an already-downloaded workbook and
// upserts them. Exposed separately for the CLI's -file mode.
func (s *IngestionService) ParseAndStore(ctx context.Context, filePath, month string, year int) domain.ParseOutcome {
	records, err := s.parser.ParseWorkbook(filePath, month, year)
	if err != nil {
		return dataprocessing.Outcome(records, err)
	}

	if len(records) == 0 {
		// Section found but every row was skipped; distinct from a
		// structural failure.
		return domain.ParseOutcome{
			Status:  domain.ParseSuccess,
			Message: "section found but contained no data rows",
		}
	}

	if err := s.store.UpsertInflows(ctx, records); err != nil {
		return domain.ParseOutcome{
			Status:  domain.ParseError,
			Message: fmt.Sprintf("failed to store records: %v", err),
		}
	}

	if s.metrics != nil {
		s.metrics.RecordsUpserted.Add(float64(len(records)))
	}

	return dataprocessing.Outcome(records, nil)
}

// finish writes the audit row and counts the run. Audit failures are logged,
// never surfaced; the run result stands either way.
func (s *IngestionService) finish(ctx context.Context, result *domain.IngestResult, outcome *domain.ParseOutcome) {
	log := domain.IngestionLog{
		URL:            result.URL,
		Month:          result.Month,
		Year:           result.Year,
		TriggeredAt:    s.now().UTC(),
		Status:         result.Status,
		FileDownloaded: result.FilePath != "",
		FilePath:       result.FilePath,
		FileSizeBytes:  result.FileSizeBytes,
		SkipReason:     result.SkipReason,
	}
	if result.HTTPStatus != 0 {
		status := result.HTTPStatus
		log.HTTPStatus = &status
	}
	if outcome != nil {
		log.ParsedRecords = outcome.RecordsCount
	}
	if result.Status == domain.IngestFailed {
		log.ErrorMessage = result.Message
	}

	if err := s.store.InsertIngestionLog(ctx, log); err != nil {
		s.logger.ErrorContext(ctx, "failed to write ingestion log",
			slog.String("url", result.URL),
			slog.String("error", err.Error()))
	}

	if s.metrics != nil {
		s.metrics.IngestRuns.WithLabelValues(string(result.Status)).Inc()
	}

	s.logger.InfoContext(ctx, "ingestion run finished",
		slog.String("url", result.URL),
		slog.String("status", string(result.Status)),
		slog.String("message", result.Message))
}
