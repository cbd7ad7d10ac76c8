package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/batchfile/internal/record"
)

// CSVOptions configures CSV reading.
type CSVOptions struct {
	// Delimiter is ",", ";", "|" or "\t" (also "tab", "pipe", "semicolon").
	// Empty means comma.
	Delimiter string
}

// ReadCSV reads Transactions from a CSV stream.
func ReadCSV(r io.Reader, opts CSVOptions) ([]record.Transaction, error) {
	csvReader := csv.NewReader(bufio.NewReader(r))
	configureReader(csvReader, opts)

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return transactionsFromRows(rows)
}

// ReadCSVFile reads Transactions from the CSV file at path.
func ReadCSVFile(path string, opts CSVOptions) ([]record.Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	txs, err := ReadCSV(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return txs, nil
}

// configureReader applies the delimiter and relaxes row-shape checks.
func configureReader(reader *csv.Reader, opts CSVOptions) {
	switch opts.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(opts.Delimiter) > 0 {
			reader.Comma = rune(opts.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Rows may be shorter or longer than the header.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}
