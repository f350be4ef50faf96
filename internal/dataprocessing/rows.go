package dataprocessing

import (
	"strconv"
	"strings"
)

// Column positions are fixed by the input format. Header naming is
// inconsistent across monthly documents, so extraction is position-based
// rather than name-based.
const (
	// SchemeNameColumn is the column holding the scheme/category name,
	// after unlabeled columns have been dropped.
	SchemeNameColumn = 1
	// NetInflowColumn is the column holding the net inflow value.
	NetInflowColumn = 6
)

// nonDataMarkers exclude subtotal rows and repeated section-title rows that
// sit inside the located section bounds.
var nonDataMarkers = []string{
	"sub total",
	"subtotal",
	"sub-total",
	"growth/equity",
	"oriented scheme",
}

// RowExtractor validates rows of the located section and pulls out the
// (scheme name, inflow value) pair from the fixed column positions.
type RowExtractor struct {
	schemeCol int
	valueCol  int
}

// NewRowExtractor returns an extractor using the standard column positions.
func NewRowExtractor() *RowExtractor {
	return &RowExtractor{schemeCol: SchemeNameColumn, valueCol: NetInflowColumn}
}

// Extract returns the trimmed scheme name and parsed inflow value for a data
// row, or ok=false when the row must be skipped: empty scheme cell, a
// non-data marker in the scheme text, or an unparseable value cell. A bad row
// never fails the batch.
func (e *RowExtractor) Extract(row []string) (scheme string, value float64, ok bool) {
	scheme = strings.TrimSpace(cellAt(row, e.schemeCol))
	if scheme == "" {
		return "", 0, false
	}

	lower := strings.ToLower(scheme)
	for _, marker := range nonDataMarkers {
		if strings.Contains(lower, marker) {
			return "", 0, false
		}
	}

	value, err := parseInflow(cellAt(row, e.valueCol))
	if err != nil {
		return "", 0, false
	}

	return scheme, value, true
}

// parseInflow parses a numeric cell. Values may carry thousands separators
// and surrounding whitespace; anything else is a parse failure.
func parseInflow(cell string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	return strconv.ParseFloat(cleaned, 64)
}
