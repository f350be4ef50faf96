package downloader

import (
	"fmt"
	"strings"
	"time"
)

// BaseURLPattern is the AMFI monthly report location. Files are named by
// lowercase three-letter month and four-digit year.
const BaseURLPattern = "https://portal.amfiindia.com/spages/am%s%drepo.xls"

// monthTokens maps month numbers to the lowercase tokens used in URLs.
var monthTokens = [...]string{
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

// MonthToken returns the URL token for a month number (1-12).
func MonthToken(month time.Month) string {
	return monthTokens[int(month)-1]
}

// URLFor builds the report URL for a specific month and year.
func URLFor(month string, year int) string {
	return fmt.Sprintf(BaseURLPattern, strings.ToLower(month), year)
}

// CurrentMonth returns the URL, month token and year for the current month.
func CurrentMonth(now time.Time) (url, month string, year int) {
	month = MonthToken(now.Month())
	year = now.Year()
	return URLFor(month, year), month, year
}

// FileName returns the on-disk name for a monthly report, matching the
// remote naming convention.
func FileName(month string, year int) string {
	return fmt.Sprintf("am%s%drepo.xls", strings.ToLower(month), year)
}
