// Package exporter renders stored inflow views as CSV downloads.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"amfiflow/pkg/contracts/domain"
)

// utf8BOM prefixes exports so Excel detects the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVExporter writes tabular views of inflow data.
type CSVExporter struct {
	withBOM bool
}

// NewCSVExporter creates an exporter. withBOM adds a UTF-8 BOM for Excel
// compatibility.
func NewCSVExporter(withBOM bool) *CSVExporter {
	return &CSVExporter{withBOM: withBOM}
}

// WriteYearMatrix renders a category-by-month matrix: one row per category,
// one column per period, cells left empty where no record exists.
func (e *CSVExporter) WriteYearMatrix(w io.Writer, m *domain.YearMatrix) error {
	if err := e.writeBOM(w); err != nil {
		return err
	}

	cw := csv.NewWriter(w)

	header := append([]string{"category"}, m.Months...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, category := range m.Categories {
		row := make([]string, 0, len(m.Months)+1)
		row = append(row, category)
		for _, month := range m.Months {
			value, ok := m.Data[month][category]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, formatInflow(value))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", category, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteMonthDetail renders one row per category for a single period.
func (e *CSVExporter) WriteMonthDetail(w io.Writer, d *domain.MonthDetail) error {
	if err := e.writeBOM(w); err != nil {
		return err
	}

	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"period", "category", "net_inflow"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range d.Data {
		if err := cw.Write([]string{d.Month, rec.Category, formatInflow(rec.NetInflow)}); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", rec.Category, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (e *CSVExporter) writeBOM(w io.Writer) error {
	if !e.withBOM {
		return nil
	}
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}
	return nil
}

func formatInflow(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
