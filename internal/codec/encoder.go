// =============================================================================
// Batch File Toolkit - Fixed-Width Encoder
// =============================================================================
//
// This module is the exact inverse of the decoder: each record becomes one
// 120-character line, space-padded, numbers zero-padded on the left.
//
// Values that do not fit their column are rejected with an *OverflowError.
// Nothing is ever truncated or wrapped to make it fit.
//
// =============================================================================

package codec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/batchfile/internal/record"
)

// Reserved space after the last Transaction and Footer fields.
const (
	transactionFill = record.LineLength - record.TagWidth - record.CounterWidth -
		record.AmountWidth - record.CurrencyWidth
	footerFill = record.LineLength - record.TagWidth - record.CounterWidth - record.AmountWidth
)

// maxMagnitude is the largest 12-digit encoded amount.
const maxMagnitude = 999999999999

// Encode writes every record as a line terminated by "\n".
//
// Records are all encoded before anything is written, so an overflow leaves
// w untouched.
func Encode(w io.Writer, records []record.Record) error {
	lines := make([]string, 0, len(records))
	for i, rec := range records {
		line, err := EncodeLine(rec)
		if err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		lines = append(lines, line)
	}

	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return fmt.Errorf("failed to write batch data: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write batch data: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write batch data: %w", err)
	}
	return nil
}

// EncodeLine renders one record as exactly record.LineLength characters,
// without a terminator.
func EncodeLine(rec record.Record) (string, error) {
	switch r := rec.(type) {
	case record.Header:
		return encodeHeader(r)
	case record.Transaction:
		return encodeTransaction(r)
	case record.Footer:
		return encodeFooter(r)
	case nil:
		return "", fmt.Errorf("cannot encode nil record")
	}
	return "", fmt.Errorf("cannot encode record of type %T", rec)
}

func encodeHeader(h record.Header) (string, error) {
	var b strings.Builder
	b.Grow(record.LineLength)
	b.WriteString(string(record.KindHeader))

	fields := []struct {
		name  string
		value string
		width int
	}{
		{record.FieldName, h.Name, record.NameWidth},
		{record.FieldSurname, h.Surname, record.SurnameWidth},
		{record.FieldPatronymic, h.Patronymic, record.PatronymicWidth},
		{record.FieldAddress, h.Address, record.AddressWidth},
	}
	for _, f := range fields {
		padded, err := padText(record.KindHeader, f.name, f.value, f.width)
		if err != nil {
			return "", err
		}
		b.WriteString(padded)
	}

	return b.String(), nil
}

func encodeTransaction(t record.Transaction) (string, error) {
	counter, err := zeroPad(record.KindTransaction, record.FieldCounter, t.Counter, record.CounterWidth)
	if err != nil {
		return "", err
	}
	amount, err := encodeAmount(record.KindTransaction, record.FieldAmount, t.Amount)
	if err != nil {
		return "", err
	}
	currency, err := padText(record.KindTransaction, record.FieldCurrency, t.Currency, record.CurrencyWidth)
	if err != nil {
		return "", err
	}

	return string(record.KindTransaction) + counter + amount + currency +
		strings.Repeat(" ", transactionFill), nil
}

func encodeFooter(f record.Footer) (string, error) {
	counter, err := zeroPad(record.KindFooter, record.FieldTotalCounter, f.TotalCounter, record.CounterWidth)
	if err != nil {
		return "", err
	}
	sum, err := encodeAmount(record.KindFooter, record.FieldControlSum, f.ControlSum)
	if err != nil {
		return "", err
	}

	return string(record.KindFooter) + counter + sum + strings.Repeat(" ", footerFill), nil
}

// =============================================================================
// HELPERS
// =============================================================================

// padText left-justifies value in a field of width characters.
func padText(k record.Kind, field, value string, width int) (string, error) {
	if len(value) > width || strings.ContainsAny(value, "\r\n") {
		return "", &OverflowError{Kind: k, Field: field, Value: value, Width: width}
	}
	return value + strings.Repeat(" ", width-len(value)), nil
}

// zeroPad right-justifies n with leading zeros.
func zeroPad(k record.Kind, field string, n, width int) (string, error) {
	s := strconv.Itoa(n)
	if n < 0 || len(s) > width {
		return "", &OverflowError{Kind: k, Field: field, Value: s, Width: width}
	}
	return strings.Repeat("0", width-len(s)) + s, nil
}

// encodeAmount scales d by 100, truncates the remaining fraction and
// zero-pads the magnitude to 12 digits.
func encodeAmount(k record.Kind, field string, d decimal.Decimal) (string, error) {
	scaled := d.Shift(record.AmountPlaces).Truncate(0)
	if d.IsNegative() || scaled.GreaterThan(decimal.New(maxMagnitude, 0)) {
		return "", &OverflowError{Kind: k, Field: field, Value: d.String(), Width: record.AmountWidth}
	}
	return zeroPad(k, field, int(scaled.IntPart()), record.AmountWidth)
}
