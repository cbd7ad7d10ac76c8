// =============================================================================
// Batch File Toolkit - Structural Validation Module
// =============================================================================
//
// This module checks a decoded record sequence as a whole. Individual
// fields were already checked by the codec; here we check the shape of the
// batch and the arithmetic between the Footer and the Transactions.
//
// CHECK ORDER (stops at the first failure):
//   0. The sequence holds at least two records
//   1. The first record is a Header
//   2. The last record is a Footer
//   3. Every record in between is a Transaction
//   4. Footer total counter equals the number of Transactions
//   5. Footer control sum equals the sum of amounts (both rounded to 2 places)
//
// A failed check is reported in the Result. Validate never returns an error.
//
// =============================================================================

package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/batchfile/internal/record"
)

// =============================================================================
// RULES
// =============================================================================

// Rule names the structural check that failed.
type Rule string

const (
	RuleRecordCount  Rule = "record_count"
	RuleHeaderFirst  Rule = "header_first"
	RuleFooterLast   Rule = "footer_last"
	RuleTransactions Rule = "transactions_between"
	RuleTotalCounter Rule = "total_counter"
	RuleControlSum   Rule = "control_sum"
)

// minRecords is a Header plus a Footer.
const minRecords = 2

// =============================================================================
// RESULT STRUCTURES
// =============================================================================

// Violation describes the first structural check that failed.
type Violation struct {
	// Rule is the failed check.
	Rule Rule

	// Message is a human-readable reason.
	Message string

	// Index is the 0-based position of the offending record, or -1 when the
	// violation concerns the sequence as a whole.
	Index int
}

func (v *Violation) String() string {
	return fmt.Sprintf("[%s] %s", v.Rule, v.Message)
}

// Result is the verdict of Validate.
type Result struct {
	// IsValid is true when every check passed.
	IsValid bool

	// Violation is set when IsValid is false.
	Violation *Violation

	// TransactionCount is the number of records between Header and Footer
	// once checks 0-3 have passed.
	TransactionCount int

	// ComputedSum is the sum of Transaction amounts once checks 0-3 have
	// passed.
	ComputedSum decimal.Decimal
}

// Reason returns the violation message, or "" for a valid sequence.
func (r *Result) Reason() string {
	if r.Violation == nil {
		return ""
	}
	return r.Violation.Message
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate runs the structural checks over records in order.
func Validate(records []record.Record) *Result {
	if len(records) < minRecords {
		return invalid(RuleRecordCount, -1,
			fmt.Sprintf("batch needs at least a Header and a Footer, found %d record(s)", len(records)))
	}

	last := len(records) - 1

	if records[0].Kind() != record.KindHeader {
		return invalid(RuleHeaderFirst, 0,
			fmt.Sprintf("first record is not a Header (found %s)", records[0].Kind()))
	}

	footer, ok := records[last].(record.Footer)
	if !ok {
		return invalid(RuleFooterLast, last,
			fmt.Sprintf("last record is not a Footer (found %s)", records[last].Kind()))
	}

	middle := records[1:last]
	transactions := make([]record.Transaction, 0, len(middle))
	for i, rec := range middle {
		tx, ok := rec.(record.Transaction)
		if !ok {
			return invalid(RuleTransactions, i+1,
				fmt.Sprintf("some records between the Header and Footer are not Transactions (record %d is a %s)",
					i+2, rec.Kind()))
		}
		transactions = append(transactions, tx)
	}

	count, sum := Summarize(transactions)

	if footer.TotalCounter != count {
		r := invalid(RuleTotalCounter, last,
			fmt.Sprintf("footer total counter %d does not match the number of transactions %d",
				footer.TotalCounter, count))
		r.TransactionCount, r.ComputedSum = count, sum
		return r
	}

	// Both sides round half to even, so 20.005 and 20.00 agree.
	declared := footer.ControlSum.RoundBank(record.AmountPlaces)
	computed := sum.RoundBank(record.AmountPlaces)
	if !declared.Equal(computed) {
		r := invalid(RuleControlSum, last,
			fmt.Sprintf("footer control sum mismatch: expected %s, got %s",
				declared.StringFixed(record.AmountPlaces), computed.StringFixed(record.AmountPlaces)))
		r.TransactionCount, r.ComputedSum = count, sum
		return r
	}

	return &Result{IsValid: true, TransactionCount: count, ComputedSum: sum}
}

// Summarize returns the count and the exact sum of the transaction amounts.
func Summarize(transactions []record.Transaction) (int, decimal.Decimal) {
	sum := decimal.Zero
	for _, tx := range transactions {
		sum = sum.Add(tx.Amount)
	}
	return len(transactions), sum
}

// Transactions returns every Transaction in records, in order.
func Transactions(records []record.Record) []record.Transaction {
	var out []record.Transaction
	for _, rec := range records {
		if tx, ok := rec.(record.Transaction); ok {
			out = append(out, tx)
		}
	}
	return out
}

func invalid(rule Rule, index int, message string) *Result {
	return &Result{
		IsValid:   false,
		Violation: &Violation{Rule: rule, Message: message, Index: index},
	}
}
