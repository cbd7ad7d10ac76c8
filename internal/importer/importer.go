// =============================================================================
// Batch File Toolkit - Transaction Importer
// =============================================================================
//
// This module reads Transactions from spreadsheets so they can be inserted
// into a batch in one rewrite. Two sources are supported:
//   - CSV files (comma, semicolon, pipe or tab separated)
//   - XLSX workbooks (one sheet, the first by default)
//
// EXPECTED LAYOUT:
//   The first non-empty row is a header row naming the columns. Column order
//   does not matter and names are matched case-insensitively; extra columns
//   are ignored.
//
//   | counter | amount | currency |
//   |---------|--------|----------|
//   | 1       | 20.00  | USD      |
//   | 2       | 10.5   | EUR      |
//
// Every row is validated like a Transaction field (counter range, amount
// format, allowed currency). Empty rows are skipped. If any row is invalid
// the import fails as a whole and every bad row is reported.
//
// =============================================================================

package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/batchfile/internal/record"
)

// ErrMissingColumn is returned when the header row lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// ErrNoRows is returned when the source has no header row.
var ErrNoRows = errors.New("no rows to import")

// RowError describes one row that is not a valid Transaction.
type RowError struct {
	// Row is the 1-based row number in the source, header included.
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// requiredColumns are the Transaction fields every source must provide.
var requiredColumns = []string{record.FieldCounter, record.FieldAmount, record.FieldCurrency}

// Source is a spreadsheet format the importer can read.
type Source string

const (
	SourceCSV  Source = "csv"
	SourceXLSX Source = "xlsx"
)

// DetectSource picks the source format from a file extension.
func DetectSource(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt", ".tsv":
		return SourceCSV, nil
	case ".xlsx", ".xlsm":
		return SourceXLSX, nil
	}
	return "", fmt.Errorf("cannot import %s: unsupported file type", filepath.Base(path))
}

// =============================================================================
// ROW CONVERSION
// =============================================================================

// transactionsFromRows converts header + data rows into Transactions.
//
// PARAMETERS:
//   - rows: All rows of the source, header first. Leading empty rows are
//     skipped before the header.
//
// RETURNS:
//   - The Transactions in source order.
//   - An error joining every RowError, or a header error.
func transactionsFromRows(rows [][]string) ([]record.Transaction, error) {
	start := 0
	for start < len(rows) && isRowEmpty(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, ErrNoRows
	}

	columns, err := mapColumns(rows[start])
	if err != nil {
		return nil, err
	}

	var (
		out  []record.Transaction
		errs []error
	)
	for i := start + 1; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}

		tx, err := parseRow(row, columns)
		if err != nil {
			errs = append(errs, &RowError{Row: i + 1, Err: err})
			continue
		}
		out = append(out, tx)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// mapColumns finds the index of each required column in the header row.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(requiredColumns))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}

	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, name)
		}
	}
	return columns, nil
}

// parseRow builds a Transaction from one data row.
func parseRow(row []string, columns map[string]int) (record.Transaction, error) {
	cell := func(name string) string {
		i := columns[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	// Cells go through WithField so imports obey the same rules as editing.
	var rec record.Record = record.Transaction{}
	for _, name := range requiredColumns {
		next, err := rec.WithField(name, cell(name))
		if err != nil {
			return record.Transaction{}, err
		}
		rec = next
	}
	return rec.(record.Transaction), nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
