package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HEADER
// =============================================================================

// Header identifies the owner of the batch.
type Header struct {
	Name       string
	Surname    string
	Patronymic string
	Address    string
}

func (Header) isRecord() {}

// Kind returns KindHeader.
func (Header) Kind() Kind { return KindHeader }

// Fields returns the Header field names in layout order.
func (Header) Fields() []string {
	return []string{FieldID, FieldName, FieldSurname, FieldPatronymic, FieldAddress}
}

// Field returns the named Header field.
func (h Header) Field(name string) (string, error) {
	switch name {
	case FieldID:
		return string(KindHeader), nil
	case FieldName:
		return h.Name, nil
	case FieldSurname:
		return h.Surname, nil
	case FieldPatronymic:
		return h.Patronymic, nil
	case FieldAddress:
		return h.Address, nil
	}
	return "", unknownField(KindHeader, name)
}

// WithField returns a copy of h with one text field replaced.
func (h Header) WithField(name, value string) (Record, error) {
	switch name {
	case FieldID:
		return nil, readOnly(KindHeader)
	case FieldName:
		v, err := parseText(KindHeader, name, value, NameWidth)
		if err != nil {
			return nil, err
		}
		h.Name = v
	case FieldSurname:
		v, err := parseText(KindHeader, name, value, SurnameWidth)
		if err != nil {
			return nil, err
		}
		h.Surname = v
	case FieldPatronymic:
		v, err := parseText(KindHeader, name, value, PatronymicWidth)
		if err != nil {
			return nil, err
		}
		h.Patronymic = v
	case FieldAddress:
		v, err := parseText(KindHeader, name, value, AddressWidth)
		if err != nil {
			return nil, err
		}
		h.Address = v
	default:
		return nil, unknownField(KindHeader, name)
	}
	return h, nil
}

// =============================================================================
// TRANSACTION
// =============================================================================

// Transaction is a single money movement in the batch.
type Transaction struct {
	Counter  int
	Amount   decimal.Decimal
	Currency string
}

// NewTransaction builds a Transaction and checks every field against the
// fixed layout and the allowed currency set.
func NewTransaction(counter int, amount decimal.Decimal, currency string) (Transaction, error) {
	if err := checkCounter(KindTransaction, FieldCounter, counter); err != nil {
		return Transaction{}, err
	}
	amt, err := checkAmount(KindTransaction, FieldAmount, amount)
	if err != nil {
		return Transaction{}, err
	}
	if !IsCurrency(currency) {
		return Transaction{}, fmt.Errorf("%w: %s.%s %q is not an allowed currency",
			ErrInvalidValue, KindTransaction, FieldCurrency, currency)
	}
	return Transaction{Counter: counter, Amount: amt, Currency: currency}, nil
}

func (Transaction) isRecord() {}

// Kind returns KindTransaction.
func (Transaction) Kind() Kind { return KindTransaction }

// Fields returns the Transaction field names in layout order.
func (Transaction) Fields() []string {
	return []string{FieldID, FieldCounter, FieldAmount, FieldCurrency}
}

// Field returns the named Transaction field. Amounts are rendered with two
// decimal places.
func (t Transaction) Field(name string) (string, error) {
	switch name {
	case FieldID:
		return string(KindTransaction), nil
	case FieldCounter:
		return strconv.Itoa(t.Counter), nil
	case FieldAmount:
		return t.Amount.StringFixed(AmountPlaces), nil
	case FieldCurrency:
		return t.Currency, nil
	}
	return "", unknownField(KindTransaction, name)
}

// WithField returns a copy of t with one field replaced.
func (t Transaction) WithField(name, value string) (Record, error) {
	switch name {
	case FieldID:
		return nil, readOnly(KindTransaction)
	case FieldCounter:
		n, err := parseCounter(KindTransaction, name, value)
		if err != nil {
			return nil, err
		}
		t.Counter = n
	case FieldAmount:
		d, err := parseAmount(KindTransaction, name, value)
		if err != nil {
			return nil, err
		}
		t.Amount = d
	case FieldCurrency:
		code := strings.TrimSpace(value)
		if !IsCurrency(code) {
			return nil, fmt.Errorf("%w: %s.%s %q is not an allowed currency",
				ErrInvalidValue, KindTransaction, name, value)
		}
		t.Currency = code
	default:
		return nil, unknownField(KindTransaction, name)
	}
	return t, nil
}

// Equal compares two transactions, treating amounts numerically.
func (t Transaction) Equal(o Transaction) bool {
	return t.Counter == o.Counter && t.Currency == o.Currency && t.Amount.Equal(o.Amount)
}

// =============================================================================
// FOOTER
// =============================================================================

// Footer carries the declared totals of the batch.
type Footer struct {
	TotalCounter int
	ControlSum   decimal.Decimal
}

// NewFooter builds a Footer and checks both fields against the layout.
func NewFooter(totalCounter int, controlSum decimal.Decimal) (Footer, error) {
	if err := checkCounter(KindFooter, FieldTotalCounter, totalCounter); err != nil {
		return Footer{}, err
	}
	sum, err := checkAmount(KindFooter, FieldControlSum, controlSum)
	if err != nil {
		return Footer{}, err
	}
	return Footer{TotalCounter: totalCounter, ControlSum: sum}, nil
}

func (Footer) isRecord() {}

// Kind returns KindFooter.
func (Footer) Kind() Kind { return KindFooter }

// Fields returns the Footer field names in layout order.
func (Footer) Fields() []string {
	return []string{FieldID, FieldTotalCounter, FieldControlSum}
}

// Field returns the named Footer field.
func (f Footer) Field(name string) (string, error) {
	switch name {
	case FieldID:
		return string(KindFooter), nil
	case FieldTotalCounter:
		return strconv.Itoa(f.TotalCounter), nil
	case FieldControlSum:
		return f.ControlSum.StringFixed(AmountPlaces), nil
	}
	return "", unknownField(KindFooter, name)
}

// WithField returns a copy of f with one field replaced.
func (f Footer) WithField(name, value string) (Record, error) {
	switch name {
	case FieldID:
		return nil, readOnly(KindFooter)
	case FieldTotalCounter:
		n, err := parseCounter(KindFooter, name, value)
		if err != nil {
			return nil, err
		}
		f.TotalCounter = n
	case FieldControlSum:
		d, err := parseAmount(KindFooter, name, value)
		if err != nil {
			return nil, err
		}
		f.ControlSum = d
	default:
		return nil, unknownField(KindFooter, name)
	}
	return f, nil
}

// Equal compares two footers, treating control sums numerically.
func (f Footer) Equal(o Footer) bool {
	return f.TotalCounter == o.TotalCounter && f.ControlSum.Equal(o.ControlSum)
}

// =============================================================================
// VALUE PARSING
// =============================================================================

func parseText(k Kind, name, value string, width int) (string, error) {
	v := strings.TrimSpace(value)
	if strings.ContainsAny(v, "\r\n") {
		return "", fmt.Errorf("%w: %s.%s must be a single line", ErrInvalidValue, k, name)
	}
	if len(v) > width {
		return "", fmt.Errorf("%w: %s.%s exceeds %d characters (actual: %d)",
			ErrInvalidValue, k, name, width, len(v))
	}
	return v, nil
}

func parseCounter(k Kind, name, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %s.%s %q is not an integer", ErrInvalidValue, k, name, value)
	}
	if err := checkCounter(k, name, n); err != nil {
		return 0, err
	}
	return n, nil
}

func checkCounter(k Kind, name string, n int) error {
	if n < 0 || n > MaxCounter {
		return fmt.Errorf("%w: %s.%s %d outside 0..%d", ErrInvalidValue, k, name, n, MaxCounter)
	}
	return nil
}

func parseAmount(k Kind, name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s.%s %q is not a decimal number",
			ErrInvalidValue, k, name, value)
	}
	return checkAmount(k, name, d)
}

// checkAmount enforces 0 <= d <= MaxAmount with at most two decimals and
// returns d rescaled to exactly two decimal places.
func checkAmount(k Kind, name string, d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s.%s %s is negative", ErrInvalidValue, k, name, d)
	}
	if d.GreaterThan(MaxAmount) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s.%s %s exceeds %s",
			ErrInvalidValue, k, name, d, MaxAmount.StringFixed(AmountPlaces))
	}
	rounded := d.Round(AmountPlaces)
	if !rounded.Equal(d) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s.%s %s has more than %d decimal places",
			ErrInvalidValue, k, name, d, AmountPlaces)
	}
	return rounded, nil
}
