package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/batchfile/internal/record"
)

func headerLine(name, surname, patronymic, address string) string {
	return "01" + pad(name, 28) + pad(surname, 30) + pad(patronymic, 30) + pad(address, 30)
}

func txLine(counter, amount, currency string) string {
	return "02" + counter + amount + currency + strings.Repeat(" ", 97)
}

func footerLine(counter, sum string) string {
	return "03" + counter + sum + strings.Repeat(" ", 100)
}

func pad(s string, n int) string {
	return s + strings.Repeat(" ", n-len(s))
}

func sampleFile() string {
	return strings.Join([]string{
		headerLine("John", "Doe", "Paul", "1 Main St"),
		txLine("000001", "000000002000", "USD"),
		txLine("000002", "000000001050", "EUR"),
		footerLine("000002", "000000003050"),
	}, "\n") + "\n"
}

func TestDecode_ValidFile(t *testing.T) {
	res, err := Decode(strings.NewReader(sampleFile()), Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 4)
	assert.Empty(t, res.Diagnostics)

	assert.Equal(t, record.Header{Name: "John", Surname: "Doe", Patronymic: "Paul", Address: "1 Main St"}, res.Records[0])

	tx, ok := res.Records[1].(record.Transaction)
	require.True(t, ok)
	assert.True(t, tx.Equal(record.Transaction{Counter: 1, Amount: decimal.RequireFromString("20.00"), Currency: "USD"}))

	tx, ok = res.Records[2].(record.Transaction)
	require.True(t, ok)
	assert.Equal(t, "10.50", tx.Amount.StringFixed(2))

	footer, ok := res.Records[3].(record.Footer)
	require.True(t, ok)
	assert.True(t, footer.Equal(record.Footer{TotalCounter: 2, ControlSum: decimal.RequireFromString("30.50")}))
}

func TestDecode_LenientDropsBadTransaction(t *testing.T) {
	input := strings.Join([]string{
		headerLine("John", "Doe", "Paul", "1 Main St"),
		txLine("000001", "00000001A00", "USD"),
		txLine("000002", "000000001050", "EUR"),
		footerLine("000001", "000000001050"),
	}, "\n")

	res, err := Decode(strings.NewReader(input), Options{Policy: Lenient})
	require.NoError(t, err)
	require.Len(t, res.Records, 3, "the malformed line contributes nothing")

	tx, ok := res.Records[1].(record.Transaction)
	require.True(t, ok)
	assert.Equal(t, 2, tx.Counter, "decoding continues after the bad line")

	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, 2, res.Diagnostics[0].Line)
	assert.Equal(t, record.FieldAmount, res.Diagnostics[0].Field)
	assert.ErrorIs(t, res.Diagnostics[0], ErrInvalidField)
}

func TestDecode_TransactionFieldRules(t *testing.T) {
	cases := []struct {
		name  string
		line  string
		field string
	}{
		{"short amount", txLine("000001", "00000002000", "USD") + " ", record.FieldAmount},
		{"non-digit amount", txLine("000001", "0000000020.0", "USD"), record.FieldAmount},
		{"blank amount", txLine("000001", strings.Repeat(" ", 12), "USD"), record.FieldAmount},
		{"non-numeric counter", txLine("00000X", "000000002000", "USD"), record.FieldCounter},
		{"negative counter", txLine("-00001", "000000002000", "USD"), record.FieldCounter},
		{"unknown currency", txLine("000001", "000000002000", "JPY"), record.FieldCurrency},
		{"lowercase currency", txLine("000001", "000000002000", "usd"), record.FieldCurrency},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeLine(tc.line)
			var lineErr *LineError
			require.True(t, errors.As(err, &lineErr))
			assert.Equal(t, tc.field, lineErr.Field)
			assert.Equal(t, record.KindTransaction, lineErr.Kind)
			assert.ErrorIs(t, err, ErrInvalidField)
		})
	}
}

func TestDecode_UnknownTag(t *testing.T) {
	input := strings.Join([]string{
		headerLine("John", "Doe", "Paul", "1 Main St"),
		"99 this line is from some other system",
		"",
		footerLine("000000", "000000000000"),
	}, "\n")

	res, err := Decode(strings.NewReader(input), Options{Policy: Lenient})
	require.NoError(t, err)
	assert.Len(t, res.Records, 2)
	require.Len(t, res.Diagnostics, 2)
	assert.ErrorIs(t, res.Diagnostics[0], ErrUnknownTag)
	assert.Equal(t, "99", res.Diagnostics[0].Value)

	_, err = Decode(strings.NewReader(input), Options{Policy: Strict})
	assert.ErrorIs(t, err, ErrUnknownTag)
}

func TestDecode_StrictFailsOnBadTransaction(t *testing.T) {
	input := strings.Join([]string{
		headerLine("John", "Doe", "Paul", "1 Main St"),
		txLine("000001", "00000001A00", "USD"),
		footerLine("000000", "000000000000"),
	}, "\n")

	_, err := Decode(strings.NewReader(input), Options{Policy: Strict})
	var lineErr *LineError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 2, lineErr.Line)
	assert.Contains(t, err.Error(), "line 2")
}

func TestDecode_MalformedFooterAlwaysFails(t *testing.T) {
	input := strings.Join([]string{
		headerLine("John", "Doe", "Paul", "1 Main St"),
		footerLine("0000X1", "000000000000"),
	}, "\n")

	for _, policy := range []Policy{Lenient, Strict} {
		t.Run(policy.String(), func(t *testing.T) {
			_, err := Decode(strings.NewReader(input), Options{Policy: policy})
			var lineErr *LineError
			require.True(t, errors.As(err, &lineErr))
			assert.Equal(t, record.KindFooter, lineErr.Kind)
			assert.Equal(t, record.FieldTotalCounter, lineErr.Field)
		})
	}

	_, err := DecodeLine(footerLine("000001", "12345"))
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestDecode_CRLFAndShortHeader(t *testing.T) {
	input := "01Jane\r\n" + footerLine("000000", "000000000000") + "\r\n"

	res, err := Decode(strings.NewReader(input), Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, record.Header{Name: "Jane"}, res.Records[0])
}

func TestEncodeLine_Layout(t *testing.T) {
	h := record.Header{Name: "John", Surname: "Doe", Patronymic: "Paul", Address: "1 Main St"}
	line, err := EncodeLine(h)
	require.NoError(t, err)
	assert.Len(t, line, record.LineLength)
	assert.Equal(t, headerLine("John", "Doe", "Paul", "1 Main St"), line)

	tx := record.Transaction{Counter: 3, Amount: decimal.RequireFromString("45.00"), Currency: "USD"}
	line, err = EncodeLine(tx)
	require.NoError(t, err)
	assert.Len(t, line, record.LineLength)
	assert.Equal(t, txLine("000003", "000000004500", "USD"), line)

	f := record.Footer{TotalCounter: 2, ControlSum: decimal.RequireFromString("30.5")}
	line, err = EncodeLine(f)
	require.NoError(t, err)
	assert.Len(t, line, record.LineLength)
	assert.Equal(t, footerLine("000002", "000000003050"), line)
}

func TestEncodeLine_TruncatesExtraFraction(t *testing.T) {
	f := record.Footer{TotalCounter: 0, ControlSum: decimal.RequireFromString("20.005")}
	line, err := EncodeLine(f)
	require.NoError(t, err)
	assert.Equal(t, footerLine("000000", "000000002000"), line)
}

func TestEncodeLine_Overflow(t *testing.T) {
	cases := []struct {
		name  string
		rec   record.Record
		field string
	}{
		{"counter too wide", record.Transaction{Counter: 1000000, Amount: decimal.Zero, Currency: "USD"}, record.FieldCounter},
		{"negative counter", record.Transaction{Counter: -1, Amount: decimal.Zero, Currency: "USD"}, record.FieldCounter},
		{"amount too wide", record.Transaction{Counter: 1, Amount: decimal.RequireFromString("10000000000"), Currency: "USD"}, record.FieldAmount},
		{"negative amount", record.Transaction{Counter: 1, Amount: decimal.RequireFromString("-0.001"), Currency: "USD"}, record.FieldAmount},
		{"currency too wide", record.Transaction{Counter: 1, Amount: decimal.Zero, Currency: "USDT"}, record.FieldCurrency},
		{"footer counter", record.Footer{TotalCounter: 1234567, ControlSum: decimal.Zero}, record.FieldTotalCounter},
		{"header name", record.Header{Name: strings.Repeat("x", 29)}, record.FieldName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EncodeLine(tc.rec)
			var overflow *OverflowError
			require.True(t, errors.As(err, &overflow))
			assert.Equal(t, tc.field, overflow.Field)
			assert.ErrorIs(t, err, ErrEncodingOverflow)
		})
	}
}

func TestEncode_OverflowWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, []record.Record{
		record.Header{Name: "John"},
		record.Transaction{Counter: 1000000, Amount: decimal.Zero, Currency: "USD"},
	})
	assert.ErrorIs(t, err, ErrEncodingOverflow)
	assert.Zero(t, buf.Len())
}

func TestTransaction_RoundTrip(t *testing.T) {
	cases := []record.Transaction{
		{Counter: 0, Amount: decimal.RequireFromString("0.00"), Currency: "USD"},
		{Counter: 1, Amount: decimal.RequireFromString("0.01"), Currency: "EUR"},
		{Counter: 42, Amount: decimal.RequireFromString("1234.56"), Currency: "GBP"},
		{Counter: 999999, Amount: record.MaxAmount, Currency: "PLN"},
		{Counter: 7, Amount: decimal.RequireFromString("45"), Currency: "AZN"},
		{Counter: 8, Amount: decimal.RequireFromString("0.5"), Currency: "TRL"},
	}
	for _, want := range cases {
		t.Run(want.Amount.String(), func(t *testing.T) {
			line, err := EncodeLine(want)
			require.NoError(t, err)

			got, err := DecodeLine(line)
			require.NoError(t, err)
			tx, ok := got.(record.Transaction)
			require.True(t, ok)
			assert.True(t, want.Equal(tx), "want %+v, got %+v", want, tx)
		})
	}
}

func TestFile_RoundTrip(t *testing.T) {
	res, err := Decode(strings.NewReader(sampleFile()), Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, res.Records))
	assert.Equal(t, sampleFile(), buf.String())
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("STRICT")
	require.NoError(t, err)
	assert.Equal(t, Strict, p)

	p, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, Lenient, p)

	_, err = ParsePolicy("loose")
	assert.Error(t, err)
}
