package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amfiflow/pkg/contracts/domain"
)

type fakeInflowReader struct {
	byYear   map[int][]domain.MonthlyInflow
	byPeriod map[string][]domain.MonthlyInflow
	err      error
}

func (f *fakeInflowReader) GetInflowsByYear(_ context.Context, year int) ([]domain.MonthlyInflow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byYear[year], nil
}

func (f *fakeInflowReader) GetInflowsByPeriod(_ context.Context, period string) ([]domain.MonthlyInflow, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byPeriod[period], nil
}

func octRecords() []domain.MonthlyInflow {
	return []domain.MonthlyInflow{
		{Period: "01-Oct-25", Category: "SMALL CAP FUND", NetInflow: 4000.25},
		{Period: "01-Oct-25", Category: "LARGE CAP FUND", NetInflow: 1500.00},
		{Period: "01-Oct-25", Category: "ELSS", NetInflow: -200.50},
		{Period: "01-Oct-25", Category: "Fund Of Funds", NetInflow: 999.99},
	}
}

func TestYearMatrix(t *testing.T) {
	store := &fakeInflowReader{byYear: map[int][]domain.MonthlyInflow{
		2025: append(octRecords(), domain.MonthlyInflow{
			Period: "01-Sep-25", Category: "SMALL CAP FUND", NetInflow: 3900.00,
		}),
	}}
	svc := NewDataService(store, nil)

	matrix, err := svc.YearMatrix(context.Background(), 2025)
	require.NoError(t, err)

	assert.Equal(t, 2025, matrix.Year)
	assert.Equal(t, []string{"01-Oct-25", "01-Sep-25"}, matrix.Months)
	assert.Contains(t, matrix.Categories, "SMALL CAP FUND")
	assert.Contains(t, matrix.Categories, "Fund Of Funds")
	assert.Equal(t, 4000.25, matrix.Data["01-Oct-25"]["SMALL CAP FUND"])
	assert.Equal(t, 3900.00, matrix.Data["01-Sep-25"]["SMALL CAP FUND"])
}

func TestYearMatrixNoData(t *testing.T) {
	svc := NewDataService(&fakeInflowReader{byYear: map[int][]domain.MonthlyInflow{}}, nil)

	_, err := svc.YearMatrix(context.Background(), 2030)
	assert.ErrorIs(t, err, ErrNoDataForYear)
}

func TestYearMatrixStoreError(t *testing.T) {
	svc := NewDataService(&fakeInflowReader{err: errors.New("db locked")}, nil)

	_, err := svc.YearMatrix(context.Background(), 2025)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoDataForYear)
}

func TestYearSummary(t *testing.T) {
	store := &fakeInflowReader{byYear: map[int][]domain.MonthlyInflow{
		2025: octRecords(),
	}}
	svc := NewDataService(store, nil)

	summary, err := svc.YearSummary(context.Background(), 2025)
	require.NoError(t, err)

	require.Len(t, summary.Data, 1)
	month := summary.Data[0]
	assert.Equal(t, "01-Oct-25", month.Month)
	assert.Equal(t, 4000.25, month.SmallCap)
	// LARGE CAP + ELSS; the title-cased fallback category is in neither
	// bucket and stays out of the summary.
	assert.Equal(t, 1299.50, month.LargeMidcap)
}

func TestYearSummaryNoData(t *testing.T) {
	svc := NewDataService(&fakeInflowReader{byYear: map[int][]domain.MonthlyInflow{}}, nil)

	_, err := svc.YearSummary(context.Background(), 2030)
	assert.ErrorIs(t, err, ErrNoDataForYear)
}

func TestMonthDetail(t *testing.T) {
	store := &fakeInflowReader{byPeriod: map[string][]domain.MonthlyInflow{
		"01-Oct-25": octRecords(),
	}}
	svc := NewDataService(store, nil)

	detail, err := svc.MonthDetail(context.Background(), "01-Oct-25")
	require.NoError(t, err)

	assert.Equal(t, "01-Oct-25", detail.Month)
	require.Len(t, detail.Data, 4)
	assert.Equal(t, "SMALL CAP FUND", detail.Data[0].Category)
	assert.Equal(t, 4000.25, detail.Data[0].NetInflow)
}

func TestMonthDetailNoData(t *testing.T) {
	svc := NewDataService(&fakeInflowReader{byPeriod: map[string][]domain.MonthlyInflow{}}, nil)

	_, err := svc.MonthDetail(context.Background(), "01-Jan-99")
	assert.ErrorIs(t, err, ErrNoDataForMonth)
}
