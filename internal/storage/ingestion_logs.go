package storage

import (
	"context"
	"fmt"

	"amfiflow/pkg/contracts/domain"
)

// InsertIngestionLog records one download/ingest attempt in the audit trail.
func (s *SQLiteStore) InsertIngestionLog(ctx context.Context, log domain.IngestionLog) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	query := `
		INSERT INTO ingestion_logs (
			url, month, year, triggered_at, http_status, status,
			file_downloaded, file_path, file_size_bytes,
			parsed_records, skip_reason, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		log.URL, log.Month, log.Year, log.TriggeredAt, log.HTTPStatus, log.Status,
		log.FileDownloaded, log.FilePath, log.FileSizeBytes,
		log.ParsedRecords, log.SkipReason, log.ErrorMessage)
	if err != nil {
		return fmt.Errorf("failed to insert ingestion log: %w", err)
	}
	return nil
}

// HasSuccessfulIngestion reports whether a URL has already been downloaded
// and ingested successfully. Backs the idempotency check in the ingestion
// workflow.
func (s *SQLiteStore) HasSuccessfulIngestion(ctx context.Context, url string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}

	var n int
	query := `SELECT COUNT(*) FROM ingestion_logs WHERE url = ? AND status = ? AND file_downloaded = 1`
	if err := s.db.QueryRowContext(ctx, query, url, domain.IngestSuccess).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to query ingestion logs: %w", err)
	}
	return n > 0, nil
}

// GetIngestionLogs returns the most recent audit rows, newest first.
func (s *SQLiteStore) GetIngestionLogs(ctx context.Context, limit int) ([]domain.IngestionLog, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, url, month, year, triggered_at, http_status, status,
			file_downloaded, file_path, file_size_bytes,
			parsed_records, skip_reason, error_message
		FROM ingestion_logs
		ORDER BY triggered_at DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingestion logs: %w", err)
	}
	defer rows.Close()

	var out []domain.IngestionLog
	for rows.Next() {
		var (
			log        domain.IngestionLog
			httpStatus *int
			filePath   *string
			fileSize   *int64
			skipReason *string
			errMsg     *string
		)
		if err := rows.Scan(&log.ID, &log.URL, &log.Month, &log.Year, &log.TriggeredAt,
			&httpStatus, &log.Status, &log.FileDownloaded, &filePath, &fileSize,
			&log.ParsedRecords, &skipReason, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan ingestion log: %w", err)
		}
		log.HTTPStatus = httpStatus
		if filePath != nil {
			log.FilePath = *filePath
		}
		if fileSize != nil {
			log.FileSizeBytes = *fileSize
		}
		if skipReason != nil {
			log.SkipReason = *skipReason
		}
		if errMsg != nil {
			log.ErrorMessage = *errMsg
		}
		out = append(out, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingestion logs: %w", err)
	}
	return out, nil
}
