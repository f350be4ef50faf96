package domain

import (
	"time"
)

// ParseStatus classifies the outcome of one workbook extraction.
type ParseStatus string

const (
	// ParseSuccess means the target section was found and at least one
	// record was extracted and stored.
	ParseSuccess ParseStatus = "parse_success"
	// ParseFailed means the document structure did not match: the header
	// row or the target section could not be located, so zero candidate
	// rows existed. Retrying without a format change is pointless.
	ParseFailed ParseStatus = "parse_failed"
	// ParseError means candidate rows existed but the run failed while
	// reading the workbook or persisting records.
	ParseError ParseStatus = "parse_error"
)

// ParseOutcome is the structured result returned across the ingestion
// boundary. Parsing failures are converted into an outcome and never raised
// past it.
type ParseOutcome struct {
	Status       ParseStatus `json:"status"`
	RecordsCount int         `json:"records_count"`
	Message      string      `json:"message"`
}

// IngestStatus classifies one full download-and-ingest run.
type IngestStatus string

const (
	IngestSuccess IngestStatus = "success"
	IngestFailed  IngestStatus = "failed"
	IngestSkipped IngestStatus = "skipped"
)

// IngestionLog is one audit row recording a download attempt and, when the
// file was fetched, the result of parsing it.
type IngestionLog struct {
	ID             int64        `json:"id" db:"id"`
	URL            string       `json:"url" db:"url" validate:"required,url"`
	Month          string       `json:"month" db:"month" validate:"required,len=3"`
	Year           int          `json:"year" db:"year" validate:"required,min=2000,max=2100"`
	TriggeredAt    time.Time    `json:"triggered_at" db:"triggered_at"`
	HTTPStatus     *int         `json:"http_status,omitempty" db:"http_status"`
	Status         IngestStatus `json:"status" db:"status"`
	FileDownloaded bool         `json:"file_downloaded" db:"file_downloaded"`
	FilePath       string       `json:"file_path,omitempty" db:"file_path"`
	FileSizeBytes  int64        `json:"file_size_bytes,omitempty" db:"file_size_bytes"`
	ParsedRecords  int          `json:"parsed_records" db:"parsed_records"`
	SkipReason     string       `json:"skip_reason,omitempty" db:"skip_reason"`
	ErrorMessage   string       `json:"error_message,omitempty" db:"error_message"`
}

// IngestResult is the response contract for a triggered ingestion run.
type IngestResult struct {
	Status        IngestStatus  `json:"status"`
	Message       string        `json:"message"`
	URL           string        `json:"url"`
	Month         string        `json:"month"`
	Year          int           `json:"year"`
	FilePath      string        `json:"file_path,omitempty"`
	FileSizeBytes int64         `json:"file_size_bytes,omitempty"`
	HTTPStatus    int           `json:"http_status,omitempty"`
	SkipReason    string        `json:"skip_reason,omitempty"`
	Parse         *ParseOutcome `json:"parse,omitempty"`
}
