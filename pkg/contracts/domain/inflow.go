package domain

import (
	"time"
)

// InflowRecord represents one fund category's net inflow for one reporting
// month. Period and category together form the natural key; re-ingesting the
// same pair overwrites the stored value.
type InflowRecord struct {
	Period    string  `json:"period" db:"period" validate:"required"`
	Category  string  `json:"category" db:"category" validate:"required"`
	NetInflow float64 `json:"net_inflow" db:"net_inflow"`
}

// MonthlyInflow is the stored form of an InflowRecord, including the
// bookkeeping columns maintained by the storage layer.
type MonthlyInflow struct {
	ID        int64     `json:"id" db:"id"`
	Period    string    `json:"period" db:"period" validate:"required"`
	Category  string    `json:"category" db:"category" validate:"required"`
	NetInflow float64   `json:"net_inflow" db:"net_inflow"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// YearMatrix is the category-by-month view for one calendar year.
// Data maps period label -> category -> net inflow.
type YearMatrix struct {
	Year       int                           `json:"year"`
	Months     []string                      `json:"months"`
	Categories []string                      `json:"categories"`
	Data       map[string]map[string]float64 `json:"data"`
}

// MonthSummary is one row of the year summary view: small cap broken out,
// everything in the large/midcap bucket summed.
type MonthSummary struct {
	Month       string  `json:"month"`
	SmallCap    float64 `json:"small_cap"`
	LargeMidcap float64 `json:"large_midcap"`
}

// YearSummary aggregates MonthSummary rows for one calendar year.
type YearSummary struct {
	Year int            `json:"year"`
	Data []MonthSummary `json:"data"`
}

// CategoryInflow is one entry of the month detail view.
type CategoryInflow struct {
	Category  string  `json:"category"`
	NetInflow float64 `json:"net_inflow"`
}

// MonthDetail lists every stored category for a single period label.
type MonthDetail struct {
	Month string           `json:"month"`
	Data  []CategoryInflow `json:"data"`
}
