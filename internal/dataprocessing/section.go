package dataprocessing

import (
	"errors"
	"strings"
)

var (
	// ErrHeaderNotFound means no row in the grid matched any header keyword.
	ErrHeaderNotFound = errors.New("header row not found")
	// ErrSectionNotFound means the target section start or its terminator
	// was not found after the header row.
	ErrSectionNotFound = errors.New("growth/equity section not found")
)

// defaultHeaderKeywords identify the column-header row; a row matching ANY of
// them is the header. The currency symbol appears mangled in some monthly
// files, hence the mojibake entry.
var defaultHeaderKeywords = []string{"scheme", "net", "assets", "aum", "rs.", "â‚¹"}

// defaultSectionKeywords identify the target section title; a row must match
// ALL of them.
var defaultSectionKeywords = []string{"growth", "equity", "oriented"}

// defaultTerminatorKeywords end the section; a row matching ANY of them is the
// subtotal row one past the last data row.
var defaultTerminatorKeywords = []string{"sub total", "subtotal", "sub-total"}

// SectionLocator finds the header row and the bounds of the Growth/Equity
// Oriented Schemes section in a raw grid. Keyword sets are fixed at
// construction; the zero value is not usable.
type SectionLocator struct {
	headerKeywords     []string
	sectionKeywords    []string
	terminatorKeywords []string
}

// NewSectionLocator returns a locator with the standard AMFI keyword sets.
func NewSectionLocator() *SectionLocator {
	return &SectionLocator{
		headerKeywords:     defaultHeaderKeywords,
		sectionKeywords:    defaultSectionKeywords,
		terminatorKeywords: defaultTerminatorKeywords,
	}
}

// Section is the located data block: HeaderRow indexes into the original
// grid, Start/End index into the grid returned by Reindex (rows after the
// header with unlabeled columns dropped). The range [Start, End) holds the
// candidate data rows; End is the terminator (subtotal) row.
type Section struct {
	HeaderRow int
	Start     int
	End       int
}

// FindHeaderRow scans top-to-bottom for the first row whose joined lowercased
// text contains any header keyword. First match wins; a document with a
// stray keyword above the real header will be mis-parsed, which is a known
// limitation of the format.
func (l *SectionLocator) FindHeaderRow(g Grid) (int, error) {
	for i, row := range g {
		text := rowText(row)
		for _, kw := range l.headerKeywords {
			if strings.Contains(text, kw) {
				return i, nil
			}
		}
	}
	return 0, ErrHeaderNotFound
}

// Reindex drops columns with no label in the header row and returns the data
// rows below it.
func (l *SectionLocator) Reindex(g Grid, headerRow int) Grid {
	return dropUnlabeledColumns(g, headerRow)
}

// Locate finds the header row and section bounds. The returned Section's
// Start/End refer to the reindexed grid, which is returned alongside so
// callers slice the same rows the scans saw.
func (l *SectionLocator) Locate(g Grid) (Section, Grid, error) {
	headerRow, err := l.FindHeaderRow(g)
	if err != nil {
		return Section{}, nil, err
	}

	data := l.Reindex(g, headerRow)

	start := -1
	for i, row := range data {
		if containsAll(rowText(row), l.sectionKeywords) {
			start = i
			break
		}
	}
	if start < 0 {
		return Section{}, nil, ErrSectionNotFound
	}

	end := -1
	for i := start + 1; i < len(data); i++ {
		if containsAny(rowText(data[i]), l.terminatorKeywords) {
			end = i
			break
		}
	}
	if end < 0 {
		return Section{}, nil, ErrSectionNotFound
	}

	return Section{HeaderRow: headerRow, Start: start, End: end}, data, nil
}

func containsAll(text string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
