// =============================================================================
// Batch File Toolkit - Fixed-Width Decoder
// =============================================================================
//
// This module turns lines of fixed-width text into typed records.
//
// LINE LAYOUT (0-indexed, half-open):
//   Header:      [0,2) "01" | [2,30) name | [30,60) surname
//                [60,90) patronymic | [90,120) address
//   Transaction: [0,2) "02" | [2,8) counter | [8,20) amount | [20,23) currency
//   Footer:      [0,2) "03" | [2,8) total counter | [8,20) control sum
//
// POLICIES:
//   - Lenient: unknown tags and bad Transaction lines are dropped and
//     reported as diagnostics; decoding continues.
//   - Strict:  the first such line aborts the decode.
//   Footer lines are checked under both policies and always abort.
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

// =============================================================================
// OPTIONS
// =============================================================================

// Policy selects how recoverable line errors are handled.
type Policy int

const (
	// Lenient drops malformed Transaction lines and unknown tags.
	Lenient Policy = iota

	// Strict fails on the first malformed line.
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "lenient"
}

// ParsePolicy maps "lenient" or "strict" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return Lenient, nil
	case "strict":
		return Strict, nil
	}
	return Lenient, fmt.Errorf("unknown decode policy %q (want lenient or strict)", s)
}

// Options controls Decode.
type Options struct {
	Policy Policy
}

// Result holds the decoded records in input order plus the diagnostics for
// every line that was dropped.
type Result struct {
	Records     []record.Record
	Diagnostics []*LineError
}

// =============================================================================
// DECODING
// =============================================================================

// maxLineBytes bounds a single scanned line; real lines are 120 characters.
const maxLineBytes = 64 * 1024

// Decode reads every line from r and decodes it independently.
//
// PARAMETERS:
//   - r:    The batch file content.
//   - opts: Decode policy.
//
// RETURNS:
//   - The decoded records and lenient-mode diagnostics.
//   - A *LineError for malformed Footer lines, or for any malformed line
//     in strict mode; a wrapped read error if r fails.
func Decode(r io.Reader, opts Options) (*Result, error) {
	result := &Result{Records: make([]record.Record, 0)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, record.LineLength+2), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		rec, err := DecodeLine(line)
		if err != nil {
			lineErr, ok := err.(*LineError)
			if !ok {
				return nil, err
			}
			lineErr.Line = lineNo

			if opts.Policy == Lenient && lineErr.Kind != record.KindFooter {
				result.Diagnostics = append(result.Diagnostics, lineErr)
				continue
			}
			return nil, lineErr
		}

		result.Records = append(result.Records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch data: %w", err)
	}

	return result, nil
}

// DecodeLine decodes a single line without its terminator.
//
// Errors are always *LineError with Line set to 0.
func DecodeLine(line string) (record.Record, error) {
	tag := slice(line, 0, record.TagWidth)

	switch record.Kind(tag) {
	case record.KindHeader:
		return decodeHeader(line), nil
	case record.KindTransaction:
		return decodeTransaction(line)
	case record.KindFooter:
		return decodeFooter(line)
	}

	return nil, &LineError{Value: tag, Err: ErrUnknownTag}
}

func decodeHeader(line string) record.Header {
	return record.Header{
		Name:       strings.TrimSpace(slice(line, 2, 30)),
		Surname:    strings.TrimSpace(slice(line, 30, 60)),
		Patronymic: strings.TrimSpace(slice(line, 60, 90)),
		Address:    strings.TrimSpace(slice(line, 90, 120)),
	}
}

func decodeTransaction(line string) (record.Record, error) {
	counterStr := strings.TrimSpace(slice(line, 2, 8))
	amountStr := strings.TrimSpace(slice(line, 8, 20))
	currency := strings.TrimSpace(slice(line, 20, 23))

	amount, ok := parseMagnitude(amountStr)
	if !ok {
		return nil, invalid(record.KindTransaction, record.FieldAmount, amountStr)
	}

	counter, ok := parseCounter(counterStr)
	if !ok {
		return nil, invalid(record.KindTransaction, record.FieldCounter, counterStr)
	}

	if !record.IsCurrency(currency) {
		return nil, invalid(record.KindTransaction, record.FieldCurrency, currency)
	}

	return record.Transaction{Counter: counter, Amount: amount, Currency: currency}, nil
}

func decodeFooter(line string) (record.Record, error) {
	counterStr := strings.TrimSpace(slice(line, 2, 8))
	sumStr := strings.TrimSpace(slice(line, 8, 20))

	counter, ok := parseCounter(counterStr)
	if !ok {
		return nil, invalid(record.KindFooter, record.FieldTotalCounter, counterStr)
	}

	sum, ok := parseMagnitude(sumStr)
	if !ok {
		return nil, invalid(record.KindFooter, record.FieldControlSum, sumStr)
	}

	return record.Footer{TotalCounter: counter, ControlSum: sum}, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// slice returns line[start:end] clamped to the line length.
func slice(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}

// parseMagnitude reads exactly 12 decimal digits as an amount with two
// implied decimals.
func parseMagnitude(s string) (decimal.Decimal, bool) {
	if len(s) != record.AmountWidth || !isDigits(s) {
		return decimal.Decimal{}, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return decimal.New(n, -record.AmountPlaces), true
}

func parseCounter(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func invalid(k record.Kind, field, value string) *LineError {
	return &LineError{Kind: k, Field: field, Value: value, Err: ErrInvalidField}
}
