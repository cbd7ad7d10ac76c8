package importer

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/batchfile/internal/record"
)

func TestReadCSV(t *testing.T) {
	in := "Currency,Amount,Counter,Note\n" +
		"USD,20.00,1,rent\n" +
		"\n" +
		"EUR, 10.5,2\n"

	txs, err := ReadCSV(strings.NewReader(in), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, 1, txs[0].Counter)
	assert.Equal(t, "20.00", txs[0].Amount.StringFixed(2))
	assert.Equal(t, "USD", txs[0].Currency)
	assert.Equal(t, "10.50", txs[1].Amount.StringFixed(2))
	assert.Equal(t, "EUR", txs[1].Currency)
}

func TestReadCSV_Delimiters(t *testing.T) {
	cases := map[string]string{
		";":   "counter;amount;currency\n7;1.25;PLN\n",
		"|":   "counter|amount|currency\n7|1.25|PLN\n",
		"tab": "counter\tamount\tcurrency\n7\t1.25\tPLN\n",
	}
	for delim, in := range cases {
		t.Run(delim, func(t *testing.T) {
			txs, err := ReadCSV(strings.NewReader(in), CSVOptions{Delimiter: delim})
			require.NoError(t, err)
			require.Len(t, txs, 1)
			assert.Equal(t, 7, txs[0].Counter)
			assert.Equal(t, "PLN", txs[0].Currency)
		})
	}
}

func TestReadCSV_ReportsEveryBadRow(t *testing.T) {
	in := "counter,amount,currency\n" +
		"1,20.00,USD\n" +
		"x,1.00,USD\n" +
		"3,1.005,USD\n" +
		"4,1.00,XXX\n"

	_, err := ReadCSV(strings.NewReader(in), CSVOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, record.ErrInvalidValue)

	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 3, rowErr.Row)

	msg := err.Error()
	assert.Contains(t, msg, "row 3:")
	assert.Contains(t, msg, "row 4:")
	assert.Contains(t, msg, "row 5:")
	assert.NotContains(t, msg, "row 2:")
}

func TestReadCSV_HeaderProblems(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("counter,amount\n1,2.00\n"), CSVOptions{})
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = ReadCSV(strings.NewReader(""), CSVOptions{})
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Payments"))
	rows := [][]interface{}{
		{"counter", "amount", "currency"},
		{1, "20.00", "USD"},
		{2, "3.10", "GBP"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Payments", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	txs, err := ReadXLSX(bytes.NewReader(buf.Bytes()), "")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, 2, txs[1].Counter)
	assert.Equal(t, "3.10", txs[1].Amount.StringFixed(2))
	assert.Equal(t, "GBP", txs[1].Currency)

	_, err = ReadXLSX(bytes.NewReader(buf.Bytes()), "Missing")
	assert.Error(t, err)
}

func TestDetectSource(t *testing.T) {
	s, err := DetectSource(filepath.Join("in", "payments.CSV"))
	require.NoError(t, err)
	assert.Equal(t, SourceCSV, s)

	s, err = DetectSource("payments.xlsx")
	require.NoError(t, err)
	assert.Equal(t, SourceXLSX, s)

	_, err = DetectSource("payments.pdf")
	assert.Error(t, err)
}
