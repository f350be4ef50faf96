package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"amfiflow/internal/config"
	"amfiflow/internal/dataprocessing"
	"amfiflow/internal/downloader"
	"amfiflow/internal/infrastructure"
	"amfiflow/internal/services"
	"amfiflow/internal/storage"
	"amfiflow/pkg/contracts/domain"
)

func main() {
	month := flag.String("month", "", "report month as a three-letter abbreviation, e.g. oct (defaults to the current month)")
	year := flag.Int("year", 0, "report year, e.g. 2025 (defaults to the current year)")
	dbPath := flag.String("db", "", "path to the SQLite database (defaults to the configured path)")
	file := flag.String("file", "", "parse an already-downloaded workbook instead of fetching from the portal")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		if err := cfg.EnsureDirectories(); err != nil {
			slog.Error("Failed to create required directories", "error", err)
			os.Exit(1)
		}
	}
	cfg.Logging.FilePath = "logs/ingest.log"

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	if *dbPath == "" {
		*dbPath = cfg.Paths.DatabaseFile
	}

	if *month == "" || *year == 0 {
		_, curMonth, curYear := downloader.CurrentMonth(time.Now())
		if *month == "" {
			*month = curMonth
		}
		if *year == 0 {
			*year = curYear
		}
	}
	*month = strings.ToLower(*month)

	store, err := storage.NewSQLiteStore(*dbPath, logger)
	if err != nil {
		logger.Error("Failed to open database", slog.String("path", *dbPath), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	fetcher := downloader.New(cfg.Paths.DownloadsDir, cfg.Source.DownloadTimeout, logger)
	parser := dataprocessing.NewParser(logger)
	svc := services.NewIngestionService(fetcher, parser, store, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *file != "" {
		outcome := svc.ParseAndStore(ctx, *file, *month, *year)
		fmt.Printf("parse %s: %d records (%s)\n", outcome.Status, outcome.RecordsCount, outcome.Message)
		if outcome.Status != domain.ParseSuccess {
			os.Exit(1)
		}
		return
	}

	result := svc.Run(ctx, *month, *year)
	fmt.Printf("ingest %s: %s\n", result.Status, result.Message)
	if result.Status == domain.IngestFailed {
		os.Exit(1)
	}
}
