package dataprocessing

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/xuri/excelize/v2"

	"amfiflow/pkg/contracts/domain"
)

// Parser runs the full extraction pipeline over one workbook: locate the
// Growth/Equity section, validate and normalize its rows, standardize the
// category labels and build dated records.
type Parser struct {
	locator      *SectionLocator
	extractor    *RowExtractor
	standardizer *CategoryStandardizer
	logger       *slog.Logger
}

// NewParser creates a parser with the standard keyword sets, column positions
// and category table.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		locator:      NewSectionLocator(),
		extractor:    NewRowExtractor(),
		standardizer: NewCategoryStandardizer(),
		logger:       logger.With(slog.String("component", "parser")),
	}
}

// ParseWorkbook reads an AMFI monthly report from disk and extracts the
// Growth/Equity records for the given reporting month. The grid is read once,
// whole, with every cell as text; input documents are small and monthly, so
// no streaming is needed.
//
// Structural failures return ErrHeaderNotFound or ErrSectionNotFound with a
// nil record slice; callers at the ingestion boundary convert these into a
// ParseOutcome rather than letting them propagate.
func (p *Parser) ParseWorkbook(filePath, month string, year int) ([]domain.InflowRecord, error) {
	grid, err := ReadGrid(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	return p.ParseGrid(grid, month, year)
}

// ParseGrid extracts records from an in-memory grid. Split out from
// ParseWorkbook so tests can exercise the pipeline without workbook files.
func (p *Parser) ParseGrid(grid Grid, month string, year int) ([]domain.InflowRecord, error) {
	section, data, err := p.locator.Locate(grid)
	if err != nil {
		p.logger.Warn("section location failed",
			slog.String("month", month),
			slog.Int("year", year),
			slog.String("error", err.Error()))
		return nil, err
	}

	p.logger.Debug("located growth/equity section",
		slog.Int("header_row", section.HeaderRow),
		slog.Int("start", section.Start),
		slog.Int("end", section.End))

	period := PeriodLabel(month, year)
	records := make([]domain.InflowRecord, 0, section.End-section.Start)

	for _, row := range dropEmptyRows(data[section.Start:section.End]) {
		scheme, value, ok := p.extractor.Extract(row)
		if !ok {
			continue
		}
		records = append(records, domain.InflowRecord{
			Period:    period,
			Category:  p.standardizer.Standardize(scheme),
			NetInflow: round2(value),
		})
	}

	p.logger.Info("parsed workbook section",
		slog.String("period", period),
		slog.Int("records", len(records)))

	return records, nil
}

// Outcome converts a parse result into the structured status reported across
// the ingestion boundary. Structural failures map to parse_failed, everything
// else unexpected to parse_error.
func Outcome(records []domain.InflowRecord, err error) domain.ParseOutcome {
	switch {
	case err == nil:
		return domain.ParseOutcome{
			Status:       domain.ParseSuccess,
			RecordsCount: len(records),
			Message:      fmt.Sprintf("parsed %d records", len(records)),
		}
	case errors.Is(err, ErrHeaderNotFound), errors.Is(err, ErrSectionNotFound):
		return domain.ParseOutcome{
			Status:  domain.ParseFailed,
			Message: err.Error(),
		}
	default:
		return domain.ParseOutcome{
			Status:  domain.ParseError,
			Message: err.Error(),
		}
	}
}

// ReadGrid loads the first sheet of an Excel workbook as a raw text grid.
func ReadGrid(filePath string) (Grid, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	return Grid(rows), nil
}

// round2 keeps two fractional digits, the precision the store retains.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
