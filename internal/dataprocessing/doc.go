// Package dataprocessing extracts monthly net-inflow figures from AMFI
// mutual-fund Excel reports.
//
// The published workbooks are loosely structured: the header row and the
// Growth/Equity Oriented Schemes section shift position from month to month
// and carry no stable labels. Extraction therefore works on a raw text grid:
// a keyword scan locates the header row and the section bounds, fixed column
// positions pull the scheme name and net-inflow value out of each row, and an
// ordered substring table maps raw scheme names to canonical category labels.
//
// The pipeline is synchronous and single-pass. Structural failures (header or
// section not found) abort the whole document with a diagnostic outcome;
// malformed individual rows are skipped without aborting the batch.
package dataprocessing
