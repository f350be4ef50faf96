package exporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amfiflow/pkg/contracts/domain"
)

func TestWriteYearMatrix(t *testing.T) {
	m := &domain.YearMatrix{
		Year:       2025,
		Months:     []string{"01-Oct-25", "01-Sep-25"},
		Categories: []string{"ELSS", "SMALL CAP FUND"},
		Data: map[string]map[string]float64{
			"01-Oct-25": {"SMALL CAP FUND": 4000.25, "ELSS": -200.5},
			"01-Sep-25": {"SMALL CAP FUND": 3900},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewCSVExporter(false).WriteYearMatrix(&buf, m))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "category,01-Oct-25,01-Sep-25", lines[0])
	assert.Equal(t, "ELSS,-200.50,", lines[1])
	assert.Equal(t, "SMALL CAP FUND,4000.25,3900.00", lines[2])
}

func TestWriteYearMatrixBOM(t *testing.T) {
	m := &domain.YearMatrix{Year: 2025}

	var buf bytes.Buffer
	require.NoError(t, NewCSVExporter(true).WriteYearMatrix(&buf, m))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), utf8BOM))
}

func TestWriteMonthDetail(t *testing.T) {
	d := &domain.MonthDetail{
		Month: "01-Oct-25",
		Data: []domain.CategoryInflow{
			{Category: "ELSS", NetInflow: -200.5},
			{Category: "SMALL CAP FUND", NetInflow: 4000.25},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewCSVExporter(false).WriteMonthDetail(&buf, d))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "period,category,net_inflow", lines[0])
	assert.Equal(t, "01-Oct-25,ELSS,-200.50", lines[1])
}
