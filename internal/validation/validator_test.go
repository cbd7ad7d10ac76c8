package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/batchfile/internal/record"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func header() record.Header {
	return record.Header{Name: "John", Surname: "Doe", Patronymic: "Paul", Address: "1 Main St"}
}

func tx(counter int, amount string) record.Transaction {
	return record.Transaction{Counter: counter, Amount: amt(amount), Currency: "USD"}
}

func footer(count int, sum string) record.Footer {
	return record.Footer{TotalCounter: count, ControlSum: amt(sum)}
}

func TestValidate_Valid(t *testing.T) {
	cases := []struct {
		name    string
		records []record.Record
	}{
		{"no transactions", []record.Record{header(), footer(0, "0")}},
		{"one transaction", []record.Record{header(), tx(1, "20.00"), footer(1, "20.00")}},
		{"several transactions", []record.Record{
			header(), tx(1, "20.00"), tx(2, "10.50"), tx(3, "0.01"), footer(3, "30.51"),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Validate(tc.records)
			assert.True(t, res.IsValid, res.Reason())
			assert.Nil(t, res.Violation)
		})
	}
}

func TestValidate_Violations(t *testing.T) {
	cases := []struct {
		name    string
		records []record.Record
		rule    Rule
		index   int
	}{
		{"empty", nil, RuleRecordCount, -1},
		{"single header", []record.Record{header()}, RuleRecordCount, -1},
		{"single footer", []record.Record{footer(0, "0")}, RuleRecordCount, -1},
		{"transaction first", []record.Record{tx(1, "1"), footer(0, "0")}, RuleHeaderFirst, 0},
		{"header last", []record.Record{header(), tx(1, "1"), header()}, RuleFooterLast, 2},
		{"header in middle", []record.Record{header(), tx(1, "1"), header(), footer(1, "1")}, RuleTransactions, 2},
		{"footer in middle", []record.Record{header(), footer(0, "0"), footer(0, "0")}, RuleTransactions, 1},
		{"counter mismatch", []record.Record{header(), tx(1, "1"), footer(2, "1")}, RuleTotalCounter, 2},
		{"sum mismatch", []record.Record{header(), tx(1, "1"), footer(1, "2")}, RuleControlSum, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Validate(tc.records)
			assert.False(t, res.IsValid)
			require.NotNil(t, res.Violation)
			assert.Equal(t, tc.rule, res.Violation.Rule)
			assert.Equal(t, tc.index, res.Violation.Index)
			assert.NotEmpty(t, res.Reason())
		})
	}
}

func TestValidate_NonTransactionReportedBeforeCounts(t *testing.T) {
	// Counter and sum are also wrong; the ordering check must win.
	res := Validate([]record.Record{header(), tx(1, "5"), header(), footer(9, "99")})
	require.NotNil(t, res.Violation)
	assert.Equal(t, RuleTransactions, res.Violation.Rule)
	assert.Contains(t, res.Reason(), "not Transactions")
}

func TestValidate_ControlSumRounding(t *testing.T) {
	// 20.005 rounds half to even to 20.00 and matches.
	res := Validate([]record.Record{header(), tx(1, "20.00"), footer(1, "20.005")})
	assert.True(t, res.IsValid, res.Reason())

	// 20.015 rounds to 20.02 and does not match.
	res = Validate([]record.Record{header(), tx(1, "20.00"), footer(1, "20.015")})
	assert.False(t, res.IsValid)
	require.NotNil(t, res.Violation)
	assert.Equal(t, RuleControlSum, res.Violation.Rule)
	assert.Contains(t, res.Reason(), "expected 20.02, got 20.00")

	// 0.125 rounds to 0.12, matching a computed 0.12.
	res = Validate([]record.Record{header(), tx(1, "0.12"), footer(1, "0.125")})
	assert.True(t, res.IsValid, res.Reason())

	// 0.135 rounds to 0.14 and does not match 0.13.
	res = Validate([]record.Record{header(), tx(1, "0.13"), footer(1, "0.135")})
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Reason(), "expected 0.14, got 0.13")

	// 20.004 rounds to 20.00 and matches.
	res = Validate([]record.Record{header(), tx(1, "20.00"), footer(1, "20.004")})
	assert.True(t, res.IsValid, res.Reason())

	// Sums that would drift in binary floating point stay exact.
	records := []record.Record{header()}
	for i := 1; i <= 10; i++ {
		records = append(records, tx(i, "0.10"))
	}
	records = append(records, footer(10, "1.00"))
	res = Validate(records)
	assert.True(t, res.IsValid, res.Reason())
	assert.True(t, res.ComputedSum.Equal(amt("1")))
	assert.Equal(t, 10, res.TransactionCount)
}

func TestSummarize(t *testing.T) {
	count, sum := Summarize([]record.Transaction{tx(1, "1.25"), tx(2, "2.75")})
	assert.Equal(t, 2, count)
	assert.True(t, sum.Equal(amt("4")))

	count, sum = Summarize(nil)
	assert.Zero(t, count)
	assert.True(t, sum.IsZero())
}

func TestTransactions(t *testing.T) {
	got := Transactions([]record.Record{header(), tx(1, "1"), tx(2, "2"), footer(2, "3")})
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[1].Counter)
}
