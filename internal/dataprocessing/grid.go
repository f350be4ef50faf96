package dataprocessing

import (
	"strings"
)

// Grid is a raw two-dimensional cell grid. All cells are text regardless of
// the workbook's declared cell types; rows may have differing lengths and
// cells may be empty.
type Grid [][]string

// rowText returns the row's cells joined with spaces and lowercased, the form
// all keyword scans operate on.
func rowText(row []string) string {
	return strings.ToLower(strings.Join(row, " "))
}

// rowIsEmpty reports whether every cell in the row is blank after trimming.
func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// cellAt returns the cell at the given column, or "" when the row is too
// short. Workbook rows are ragged, so missing trailing cells are normal.
func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// dropEmptyRows returns the grid without all-empty rows, preserving order.
func dropEmptyRows(g Grid) Grid {
	out := make(Grid, 0, len(g))
	for _, row := range g {
		if !rowIsEmpty(row) {
			out = append(out, row)
		}
	}
	return out
}

// dropUnlabeledColumns removes every column whose header cell is blank,
// using the given row as the column labels. The returned grid contains the
// rows after the header row, re-indexed to the surviving columns.
func dropUnlabeledColumns(g Grid, headerRow int) Grid {
	if headerRow < 0 || headerRow >= len(g) {
		return nil
	}

	header := g[headerRow]
	keep := make([]int, 0, len(header))
	for col, label := range header {
		if strings.TrimSpace(label) != "" {
			keep = append(keep, col)
		}
	}

	out := make(Grid, 0, len(g)-headerRow-1)
	for _, row := range g[headerRow+1:] {
		trimmed := make([]string, len(keep))
		for i, col := range keep {
			trimmed[i] = cellAt(row, col)
		}
		out = append(out, trimmed)
	}
	return out
}
