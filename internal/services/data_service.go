package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"amfiflow/pkg/contracts/domain"
)

// SmallCapCategory is the canonical label broken out separately in summary
// views.
const SmallCapCategory = "SMALL CAP FUND"

// LargeMidcapBucket is the fixed category list summed into the large/midcap
// side of summary views. Labels must match the standardizer's canonical
// output exactly; a record whose category is in neither this list nor
// SmallCapCategory silently classifies into neither bucket.
var LargeMidcapBucket = []string{
	"LARGE CAP FUND",
	"MID CAP FUND",
	"LARGE & MID CAP FUND",
	"FLEXI CAP FUND",
	"FOCUSED FUND",
	"VALUE FUND/CONTRA FUND",
	"DIVIDEND YIELD FUND",
	"ELSS",
	"SECTORAL/THEMATIC FUNDS",
	"MULTI CAP FUND",
}

// InflowReader is the storage surface the data service reads from.
type InflowReader interface {
	GetInflowsByYear(ctx context.Context, year int) ([]domain.MonthlyInflow, error)
	GetInflowsByPeriod(ctx context.Context, period string) ([]domain.MonthlyInflow, error)
}

// DataService serves the aggregate read views over stored inflow records.
type DataService struct {
	store  InflowReader
	logger *slog.Logger
}

// NewDataService creates a data service backed by the given store.
func NewDataService(store InflowReader, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{
		store:  store,
		logger: logger.With(slog.String("component", "data_service")),
	}
}

// YearMatrix returns the category-by-month matrix for one calendar year.
func (s *DataService) YearMatrix(ctx context.Context, year int) (*domain.YearMatrix, error) {
	recs, err := s.store.GetInflowsByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load year data: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoDataForYear, year)
	}

	monthSet := make(map[string]struct{})
	categorySet := make(map[string]struct{})
	data := make(map[string]map[string]float64)

	for _, rec := range recs {
		monthSet[rec.Period] = struct{}{}
		categorySet[rec.Category] = struct{}{}
		if data[rec.Period] == nil {
			data[rec.Period] = make(map[string]float64)
		}
		data[rec.Period][rec.Category] = rec.NetInflow
	}

	return &domain.YearMatrix{
		Year:       year,
		Months:     sortedKeys(monthSet),
		Categories: sortedKeys(categorySet),
		Data:       data,
	}, nil
}

// YearSummary returns per-month small-cap and large/midcap totals for one
// calendar year.
func (s *DataService) YearSummary(ctx context.Context, year int) (*domain.YearSummary, error) {
	recs, err := s.store.GetInflowsByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load year data: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoDataForYear, year)
	}

	bucket := make(map[string]bool, len(LargeMidcapBucket))
	for _, c := range LargeMidcapBucket {
		bucket[c] = true
	}

	type totals struct {
		smallCap    float64
		largeMidcap float64
	}
	byMonth := make(map[string]*totals)

	for _, rec := range recs {
		t := byMonth[rec.Period]
		if t == nil {
			t = &totals{}
			byMonth[rec.Period] = t
		}
		switch {
		case rec.Category == SmallCapCategory:
			t.smallCap += rec.NetInflow
		case bucket[rec.Category]:
			t.largeMidcap += rec.NetInflow
		}
		// Categories outside both buckets are excluded from the summary;
		// the fallback-label pollution this allows is a known limitation.
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	summary := &domain.YearSummary{Year: year}
	for _, m := range months {
		t := byMonth[m]
		summary.Data = append(summary.Data, domain.MonthSummary{
			Month:       m,
			SmallCap:    round2(t.smallCap),
			LargeMidcap: round2(t.largeMidcap),
		})
	}
	return summary, nil
}

// MonthDetail returns every stored category for one period label.
func (s *DataService) MonthDetail(ctx context.Context, month string) (*domain.MonthDetail, error) {
	recs, err := s.store.GetInflowsByPeriod(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load month data: %w", err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDataForMonth, month)
	}

	detail := &domain.MonthDetail{Month: month}
	for _, rec := range recs {
		detail.Data = append(detail.Data, domain.CategoryInflow{
			Category:  rec.Category,
			NetInflow: rec.NetInflow,
		})
	}
	return detail, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
