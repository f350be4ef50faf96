// Package downloader fetches AMFI monthly report workbooks over HTTP and
// saves them to the local downloads directory.
package downloader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Result describes one completed download attempt.
type Result struct {
	URL           string
	FilePath      string
	FileSizeBytes int64
	HTTPStatus    int
}

// Downloader fetches report files with a bounded timeout.
type Downloader struct {
	client      *http.Client
	downloadDir string
	baseURL     string
	logger      *slog.Logger
}

// New creates a downloader writing into downloadDir.
func New(downloadDir string, timeout time.Duration, logger *slog.Logger) *Downloader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Downloader{
		client:      &http.Client{Timeout: timeout},
		downloadDir: downloadDir,
		baseURL:     BaseURLPattern,
		logger:      logger.With(slog.String("component", "downloader")),
	}
}

// Fetch downloads the report for the given month/year. A non-200 response is
// an error carrying the status code in the returned Result; the caller logs
// it in the audit trail.
func (d *Downloader) Fetch(ctx context.Context, month string, year int) (Result, error) {
	url := fmt.Sprintf(d.baseURL, strings.ToLower(month), year)
	res := Result{URL: url}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return res, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return res, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	res.HTTPStatus = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		return res, fmt.Errorf("HTTP %d: file not available", resp.StatusCode)
	}

	if err := os.MkdirAll(d.downloadDir, 0750); err != nil {
		return res, fmt.Errorf("failed to create download directory: %w", err)
	}

	filePath := filepath.Join(d.downloadDir, FileName(month, year))
	out, err := os.Create(filePath)
	if err != nil {
		return res, fmt.Errorf("failed to create file: %w", err)
	}

	size, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(filePath)
		return res, fmt.Errorf("failed to save file: %w", err)
	}

	res.FilePath = filePath
	res.FileSizeBytes = size

	d.logger.Info("downloaded report",
		slog.String("url", url),
		slog.String("file_path", filePath),
		slog.Int64("size_bytes", size))

	return res, nil
}
