package record

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
	}{
		{"header", KindHeader},
		{"Header", KindHeader},
		{"TRANSACTION", KindTransaction},
		{" footer ", KindFooter},
		{"01", KindHeader},
		{"02", KindTransaction},
		{"03", KindFooter},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseKind(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ParseKind("trailer")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Header", KindHeader.String())
	assert.Equal(t, "Transaction", KindTransaction.String())
	assert.Equal(t, "Footer", KindFooter.String())
	assert.False(t, Kind("04").Valid())
}

func TestNewTransaction(t *testing.T) {
	tx, err := NewTransaction(3, decimal.RequireFromString("45"), "USD")
	require.NoError(t, err)
	assert.Equal(t, 3, tx.Counter)
	assert.Equal(t, "45.00", tx.Amount.StringFixed(2))
	assert.Equal(t, int32(-2), tx.Amount.Exponent())

	_, err = NewTransaction(1, decimal.RequireFromString("1.00"), "XYZ")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = NewTransaction(-1, decimal.Zero, "USD")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = NewTransaction(MaxCounter+1, decimal.Zero, "USD")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = NewTransaction(1, decimal.RequireFromString("-0.01"), "USD")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = NewTransaction(1, decimal.RequireFromString("10000000000.00"), "USD")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = NewTransaction(1, decimal.RequireFromString("1.005"), "USD")
	assert.ErrorIs(t, err, ErrInvalidValue)

	tx, err = NewTransaction(MaxCounter, MaxAmount, "TRL")
	require.NoError(t, err)
	assert.True(t, tx.Amount.Equal(MaxAmount))
}

func TestHeader_FieldAccess(t *testing.T) {
	h := Header{Name: "John", Surname: "Doe", Patronymic: "Paul", Address: "1 Main St"}

	v, err := h.Field(FieldSurname)
	require.NoError(t, err)
	assert.Equal(t, "Doe", v)

	v, err = h.Field(FieldID)
	require.NoError(t, err)
	assert.Equal(t, "01", v)

	_, err = h.Field(FieldAmount)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestHeader_WithField(t *testing.T) {
	h := Header{Name: "John", Surname: "Doe", Patronymic: "Paul", Address: "1 Main St"}

	changed, err := h.WithField(FieldSurname, "Smith")
	require.NoError(t, err)
	assert.Equal(t, Header{Name: "John", Surname: "Smith", Patronymic: "Paul", Address: "1 Main St"}, changed)
	assert.Equal(t, "Doe", h.Surname, "original value must not change")

	_, err = h.WithField(FieldName, "this name is far too long to fit in the column")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = h.WithField(FieldID, "02")
	assert.ErrorIs(t, err, ErrReadOnlyField)

	_, err = h.WithField("nickname", "JD")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestTransaction_WithField(t *testing.T) {
	tx := Transaction{Counter: 1, Amount: decimal.New(2000, -2), Currency: "USD"}

	r, err := tx.WithField(FieldAmount, "12.5")
	require.NoError(t, err)
	assert.Equal(t, "12.50", mustField(t, r, FieldAmount))
	assert.Equal(t, "1", mustField(t, r, FieldCounter))

	r, err = tx.WithField(FieldCurrency, "EUR")
	require.NoError(t, err)
	assert.Equal(t, "EUR", mustField(t, r, FieldCurrency))

	_, err = tx.WithField(FieldCounter, "abc")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = tx.WithField(FieldAmount, "twelve")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = tx.WithField(FieldCurrency, "usd")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestFooter_WithField(t *testing.T) {
	f := Footer{TotalCounter: 2, ControlSum: decimal.New(3000, -2)}

	r, err := f.WithField(FieldTotalCounter, "3")
	require.NoError(t, err)
	footer, ok := r.(Footer)
	require.True(t, ok)
	assert.True(t, footer.Equal(Footer{TotalCounter: 3, ControlSum: decimal.New(30, 0)}))

	_, err = f.WithField(FieldCurrency, "USD")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = f.WithField(FieldControlSum, "-5")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestFieldsOf(t *testing.T) {
	fields, err := FieldsOf(KindTransaction)
	require.NoError(t, err)
	assert.Equal(t, []string{"field_id", "counter", "amount", "currency"}, fields)

	_, err = FieldsOf(Kind("09"))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func mustField(t *testing.T, r Record, name string) string {
	t.Helper()
	v, err := r.Field(name)
	require.NoError(t, err)
	return v
}
