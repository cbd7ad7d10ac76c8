package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/batchfile/internal/record"
)

// =============================================================================
// WORKBOOK STRUCTURE
// =============================================================================
//
//   Sheet "Header":       | line | name | surname | patronymic | address |
//   Sheet "Transactions": | line | counter | amount | currency |
//   Sheet "Footer":       | line | total_counter | control_sum |
//
// The first row of every sheet holds the field names in bold. The line column
// is the 1-based position of the record in the batch. All three sheets are
// always present, even when the batch has no record of that kind.

// sheet describes one workbook sheet.
type sheet struct {
	Name string
	Kind record.Kind
}

var sheets = []sheet{
	{Name: "Header", Kind: record.KindHeader},
	{Name: "Transactions", Kind: record.KindTransaction},
	{Name: "Footer", Kind: record.KindFooter},
}

// lineColumn is the name of the position column.
const lineColumn = "line"

// WriteXLSX renders records as an Excel workbook.
func WriteXLSX(w io.Writer, records []record.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheets[0].Name); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	for _, s := range sheets[1:] {
		if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", s.Name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for _, s := range sheets {
		if err := writeSheet(f, s, bold, records); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

// writeSheet writes the header row and the records of one kind.
func writeSheet(f *excelize.File, s sheet, style int, records []record.Record) error {
	names, err := record.FieldsOf(s.Kind)
	if err != nil {
		return err
	}
	columns := []string{lineColumn}
	for _, name := range names {
		if name != record.FieldID {
			columns = append(columns, name)
		}
	}

	// Header row
	for i, name := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(s.Name, cell, name); err != nil {
			return err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, 1)
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(s.Name, first, last, style); err != nil {
		return err
	}

	// Data rows
	row := 2
	for pos, rec := range records {
		if rec.Kind() != s.Kind {
			continue
		}
		fields, err := fieldsOf(rec)
		if err != nil {
			return err
		}

		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(s.Name, cell, pos+1); err != nil {
			return err
		}
		for i, fld := range fields {
			cell, _ := excelize.CoordinatesToCellName(i+2, row)
			if err := f.SetCellStr(s.Name, cell, fld.Value); err != nil {
				return err
			}
		}
		row++
	}

	// Approximate column widths
	for i, name := range columns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(len(name) + 4)
		if width < 12 {
			width = 12
		}
		if err := f.SetColWidth(s.Name, colName, colName, width); err != nil {
			return err
		}
	}

	return nil
}
