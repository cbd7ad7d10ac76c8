package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/batchfile/internal/record"
)

// ReadXLSX reads Transactions from one sheet of an XLSX workbook.
//
// PARAMETERS:
//   - r:     The workbook contents.
//   - sheet: Sheet name; empty selects the first sheet.
func ReadXLSX(r io.Reader, sheet string) ([]record.Transaction, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readSheet(f, sheet)
}

// ReadXLSXFile reads Transactions from the workbook at path.
func ReadXLSXFile(path, sheet string) ([]record.Transaction, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	txs, err := readSheet(f, sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return txs, nil
}

func readSheet(f *excelize.File, sheet string) ([]record.Transaction, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheet, err)
	}

	return transactionsFromRows(rows)
}
