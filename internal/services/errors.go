package services

import (
	"errors"
)

// Sentinel errors the transport layer maps to HTTP statuses.
var (
	// ErrNoDataForYear means no stored records match the requested year.
	ErrNoDataForYear = errors.New("no data found for year")
	// ErrNoDataForMonth means no stored records match the requested period.
	ErrNoDataForMonth = errors.New("no data found for month")
)
