package dataprocessing

import (
	"fmt"
	"strings"
)

// monthAbbrevs maps lowercase three-letter month tokens to their canonical
// mixed-case form used in period labels.
var monthAbbrevs = map[string]string{
	"jan": "Jan", "feb": "Feb", "mar": "Mar", "apr": "Apr",
	"may": "May", "jun": "Jun", "jul": "Jul", "aug": "Aug",
	"sep": "Sep", "oct": "Oct", "nov": "Nov", "dec": "Dec",
}

// PeriodLabel formats the canonical period key for one reporting month:
// "01-<Mon>-<YY>", day fixed at 01. The month token is matched
// case-insensitively; an unrecognized token falls back to a title-cased copy
// so the function stays total, mirroring the category fallback.
func PeriodLabel(month string, year int) string {
	abbr, ok := monthAbbrevs[strings.ToLower(month)]
	if !ok {
		abbr = titleCase(month)
	}
	yearStr := fmt.Sprintf("%d", year)
	if len(yearStr) > 2 {
		yearStr = yearStr[len(yearStr)-2:]
	}
	return fmt.Sprintf("01-%s-%s", abbr, yearStr)
}
