// =============================================================================
// Batch File Toolkit - Record Model
// =============================================================================
//
// This package defines the three record kinds that make up a batch file and
// the fixed layout every encoded line follows.
//
// RECORD KINDS:
//   - Header      (tag "01"): name, surname, patronymic, address
//   - Transaction (tag "02"): counter, amount, currency
//   - Footer      (tag "03"): total counter, control sum
//
// Records are immutable values. Changing a field always produces a new value
// through WithField; the original is never touched.
//
// =============================================================================

package record

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LAYOUT CONSTANTS
// =============================================================================

// LineLength is the width of every encoded line, excluding the terminator.
const LineLength = 120

// Field widths in characters.
const (
	TagWidth        = 2
	NameWidth       = 28
	SurnameWidth    = 30
	PatronymicWidth = 30
	AddressWidth    = 30
	CounterWidth    = 6
	AmountWidth     = 12
	CurrencyWidth   = 3
)

// MaxCounter is the largest value a 6-digit counter can hold.
const MaxCounter = 999999

// AmountPlaces is the number of implied decimal digits in encoded amounts.
const AmountPlaces = 2

// MaxAmount is the largest amount whose 12-digit magnitude still fits.
var MaxAmount = decimal.New(999999999999, -AmountPlaces)

// currencies is the closed set of allowed currency codes.
var currencies = map[string]struct{}{
	"USD": {},
	"EUR": {},
	"GBP": {},
	"PLN": {},
	"AZN": {},
	"TRL": {},
}

// IsCurrency reports whether code belongs to the allowed currency set.
func IsCurrency(code string) bool {
	_, ok := currencies[code]
	return ok
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnknownKind is returned when a kind selector names no record kind.
	ErrUnknownKind = errors.New("unknown record kind")

	// ErrUnknownField is returned when a record kind has no field of that name.
	ErrUnknownField = errors.New("unknown field")

	// ErrReadOnlyField is returned when replacing the discriminator tag.
	ErrReadOnlyField = errors.New("field is read-only")

	// ErrInvalidValue is returned when a value does not fit a field's type.
	ErrInvalidValue = errors.New("invalid field value")
)

// =============================================================================
// KIND
// =============================================================================

// Kind is the 2-character discriminator tag carried by every record.
type Kind string

const (
	KindHeader      Kind = "01"
	KindTransaction Kind = "02"
	KindFooter      Kind = "03"
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "Header"
	case KindTransaction:
		return "Transaction"
	case KindFooter:
		return "Footer"
	default:
		return fmt.Sprintf("Kind(%q)", string(k))
	}
}

// Valid reports whether k is one of the three known kinds.
func (k Kind) Valid() bool {
	return k == KindHeader || k == KindTransaction || k == KindFooter
}

// ParseKind accepts a kind name (case-insensitive) or its tag.
//
// Examples: "header", "Transaction", "FOOTER", "01", "02", "03".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "header", string(KindHeader):
		return KindHeader, nil
	case "transaction", string(KindTransaction):
		return KindTransaction, nil
	case "footer", string(KindFooter):
		return KindFooter, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// =============================================================================
// RECORD
// =============================================================================

// Record is the closed set {Header, Transaction, Footer}.
//
// Callers dispatch with a type switch; the unexported method keeps the set
// closed to this package.
type Record interface {
	// Kind returns the discriminator tag.
	Kind() Kind

	// Fields lists the field names of the kind, tag first, in layout order.
	Fields() []string

	// Field returns the canonical text form of the named field.
	Field(name string) (string, error)

	// WithField returns a copy with one field replaced by value, parsed and
	// checked against the field's type.
	WithField(name, value string) (Record, error)

	isRecord()
}

// Field names shared by the kinds.
const (
	FieldID           = "field_id"
	FieldName         = "name"
	FieldSurname      = "surname"
	FieldPatronymic   = "patronymic"
	FieldAddress      = "address"
	FieldCounter      = "counter"
	FieldAmount       = "amount"
	FieldCurrency     = "currency"
	FieldTotalCounter = "total_counter"
	FieldControlSum   = "control_sum"
)

// FieldsOf returns the field names of kind k.
func FieldsOf(k Kind) ([]string, error) {
	switch k {
	case KindHeader:
		return Header{}.Fields(), nil
	case KindTransaction:
		return Transaction{}.Fields(), nil
	case KindFooter:
		return Footer{}.Fields(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
}

func unknownField(k Kind, name string) error {
	return fmt.Errorf("%w: %s has no field %q", ErrUnknownField, k, name)
}

func readOnly(k Kind) error {
	return fmt.Errorf("%w: %s.%s", ErrReadOnlyField, k, FieldID)
}
