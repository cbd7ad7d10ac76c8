package codec

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/batchfile/internal/record"
)

var (
	// ErrUnknownTag marks a line whose first two characters name no record kind.
	ErrUnknownTag = errors.New("unknown record tag")

	// ErrInvalidField marks a fixed-width field that fails its kind's rules.
	ErrInvalidField = errors.New("invalid field")

	// ErrEncodingOverflow marks a value that does not fit its fixed width.
	ErrEncodingOverflow = errors.New("encoding overflow")
)

// LineError describes a line that could not be decoded.
//
// In lenient mode LineErrors for Transaction lines and unknown tags are
// collected as diagnostics; otherwise they are returned from Decode.
type LineError struct {
	// Line is the 1-based line number in the input, or 0 for DecodeLine.
	Line int

	// Kind is the record kind the line claimed to be; empty for unknown tags.
	Kind record.Kind

	// Field is the offending field name, when one can be singled out.
	Field string

	// Value is the raw (trimmed) field text, or the tag for unknown tags.
	Value string

	// Err is ErrUnknownTag or ErrInvalidField.
	Err error
}

func (e *LineError) Error() string {
	var where string
	if e.Line > 0 {
		where = fmt.Sprintf("line %d: ", e.Line)
	}
	if e.Field == "" {
		return fmt.Sprintf("%s%v %q", where, e.Err, e.Value)
	}
	return fmt.Sprintf("%s%s %s %q: %v", where, e.Kind, e.Field, e.Value, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// OverflowError reports a negative or over-width value at encode time.
type OverflowError struct {
	Kind  record.Kind
	Field string
	Value string
	Width int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%v: %s %s %q does not fit %d characters",
		ErrEncodingOverflow, e.Kind, e.Field, e.Value, e.Width)
}

func (e *OverflowError) Unwrap() error {
	return ErrEncodingOverflow
}
