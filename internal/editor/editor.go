// =============================================================================
// Batch File Toolkit - Editor
// =============================================================================
//
// The Editor is the programmatic surface the CLI calls into. Every operation
// runs a full cycle against its Store:
//
//   ReadAll -> operate on the in-memory sequence -> WriteAll (mutations only)
//
// OPERATIONS:
//   - GetField:          read a field from the first record of a kind
//   - ReplaceField:      rewrite one field in every record of a kind
//   - InsertTransaction: add a Transaction just before the last record
//   - InsertTransactions: add several Transactions with one rewrite
//   - Rebalance:         recompute the Footer from the Transactions
//   - Validate:          run the structural checks
//   - Records:           read the sequence without changing it
//
// Operations on one Editor are serialized. Separate Editors (or processes)
// sharing the same file are not coordinated.
//
// =============================================================================

package editor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/batchfile/internal/codec"
	"github.com/ginjaninja78/batchfile/internal/record"
	"github.com/ginjaninja78/batchfile/internal/store"
	"github.com/ginjaninja78/batchfile/internal/validation"
)

// ErrNotFound is returned when the batch holds no record of the requested
// kind, or the kind has no such field.
var ErrNotFound = errors.New("not found")

// Options configures an Editor.
type Options struct {
	// RebalanceOnInsert makes InsertTransaction also recompute the Footer.
	// Off by default: inserting leaves the Footer as it was.
	RebalanceOnInsert bool

	// Logger receives operation events. Nil disables logging.
	Logger *zerolog.Logger
}

// Editor reads and mutates a batch held in a Store.
type Editor struct {
	mu    sync.Mutex
	store store.Store
	opts  Options
	log   zerolog.Logger
}

// New creates an Editor over s.
func New(s store.Store, opts Options) *Editor {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Editor{store: s, opts: opts, log: log}
}

// =============================================================================
// QUERIES
// =============================================================================

// Records returns the decoded batch, including any lenient-mode diagnostics.
func (e *Editor) Records() (*codec.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.ReadAll()
}

// GetField returns the canonical text of field from the first record of
// kind.
//
// RETURNS:
//   - ErrUnknownKind (record package) for an invalid kind.
//   - ErrNotFound wrapping record.ErrUnknownField when the kind has no such
//     field.
//   - ErrNotFound when the batch has no record of that kind.
func (e *Editor) GetField(kind record.Kind, field string) (string, error) {
	if err := checkField(kind, field); err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := e.store.ReadAll()
	if err != nil {
		return "", err
	}

	for _, rec := range res.Records {
		if rec.Kind() != kind {
			continue
		}
		return rec.Field(field)
	}

	return "", fmt.Errorf("%w: no %s record in batch", ErrNotFound, kind)
}

// Validate reads the batch and runs the structural checks.
//
// Read and decode failures are returned as errors; structural problems are
// reported in the Result.
func (e *Editor) Validate() (*validation.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := e.store.ReadAll()
	if err != nil {
		return nil, err
	}

	verdict := validation.Validate(res.Records)
	if verdict.IsValid {
		e.log.Info().Int("transactions", verdict.TransactionCount).Msg("batch structure is valid")
	} else {
		e.log.Warn().
			Str("rule", string(verdict.Violation.Rule)).
			Str("reason", verdict.Violation.Message).
			Msg("batch structure is invalid")
	}
	return verdict, nil
}

// =============================================================================
// MUTATIONS
// =============================================================================

// ReplaceField sets field to value in every record of kind and rewrites the
// batch. Other records, and other fields, are left as they were.
//
// The value is parsed against the field's type first; an invalid value,
// unknown field, or a batch without records of that kind aborts with
// nothing written.
//
// RETURNS:
//   - The number of records changed.
func (e *Editor) ReplaceField(kind record.Kind, field, value string) (int, error) {
	if err := checkField(kind, field); err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := e.store.ReadAll()
	if err != nil {
		return 0, err
	}

	updated := make([]record.Record, len(res.Records))
	changed := 0
	for i, rec := range res.Records {
		if rec.Kind() != kind {
			updated[i] = rec
			continue
		}
		next, err := rec.WithField(field, value)
		if err != nil {
			return 0, err
		}
		updated[i] = next
		changed++
	}

	if changed == 0 {
		return 0, fmt.Errorf("%w: no %s record in batch", ErrNotFound, kind)
	}

	if err := e.store.WriteAll(updated); err != nil {
		return 0, err
	}

	e.log.Info().
		Str("kind", kind.String()).
		Str("field", field).
		Int("records", changed).
		Msg("field replaced")
	return changed, nil
}

// InsertTransaction adds a new Transaction immediately before the last
// record, whatever that record is, and rewrites the batch. An empty batch
// gets the Transaction as its only record.
//
// The Footer is left unchanged unless RebalanceOnInsert is set and the batch
// ends with a Footer.
func (e *Editor) InsertTransaction(counter int, amount decimal.Decimal, currency string) error {
	tx, err := record.NewTransaction(counter, amount, currency)
	if err != nil {
		return err
	}

	rebalancedFooter, err := e.insert([]record.Transaction{tx})
	if err != nil {
		return err
	}

	e.log.Info().
		Int("counter", tx.Counter).
		Str("amount", tx.Amount.StringFixed(record.AmountPlaces)).
		Str("currency", tx.Currency).
		Bool("rebalanced", rebalancedFooter).
		Msg("transaction inserted")
	return nil
}

// InsertTransactions adds txs, in order, immediately before the last record
// with a single rewrite. It follows the same rules as InsertTransaction.
//
// Every Transaction is checked first; one invalid Transaction aborts the
// whole insert with nothing written.
func (e *Editor) InsertTransactions(txs []record.Transaction) error {
	for i, tx := range txs {
		if _, err := record.NewTransaction(tx.Counter, tx.Amount, tx.Currency); err != nil {
			return fmt.Errorf("transaction %d: %w", i+1, err)
		}
	}
	if len(txs) == 0 {
		return nil
	}

	rebalancedFooter, err := e.insert(txs)
	if err != nil {
		return err
	}

	e.log.Info().
		Int("transactions", len(txs)).
		Bool("rebalanced", rebalancedFooter).
		Msg("transactions inserted")
	return nil
}

// insert writes txs before the last record and reports whether the Footer
// was recomputed. A batch that does not end in a Footer still gets the
// Transactions; only the rebalance is skipped.
func (e *Editor) insert(txs []record.Transaction) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := e.store.ReadAll()
	if err != nil {
		return false, err
	}

	records := insertBeforeLast(res.Records, txs)

	done := false
	if e.opts.RebalanceOnInsert {
		records, done = rebalanced(records)
		if !done {
			e.log.Warn().
				Int("records", len(records)).
				Msg("rebalance on insert skipped: batch does not end with a Footer")
		}
	}

	if err := e.store.WriteAll(records); err != nil {
		return false, err
	}
	return done, nil
}

// Rebalance recomputes the Footer's total counter and control sum from the
// Transactions in the batch and rewrites it.
//
// RETURNS:
//   - The new Footer.
//   - ErrNotFound when the last record is not a Footer.
func (e *Editor) Rebalance() (record.Footer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res, err := e.store.ReadAll()
	if err != nil {
		return record.Footer{}, err
	}

	records, ok := rebalanced(res.Records)
	if !ok {
		return record.Footer{}, fmt.Errorf("%w: batch does not end with a Footer", ErrNotFound)
	}

	footer := records[len(records)-1].(record.Footer)
	if _, err := record.NewFooter(footer.TotalCounter, footer.ControlSum); err != nil {
		return record.Footer{}, err
	}

	if err := e.store.WriteAll(records); err != nil {
		return record.Footer{}, err
	}

	e.log.Info().
		Int("total_counter", footer.TotalCounter).
		Str("control_sum", footer.ControlSum.StringFixed(record.AmountPlaces)).
		Msg("footer rebalanced")
	return footer, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// checkField rejects unknown kinds and fields before any I/O happens.
func checkField(kind record.Kind, field string) error {
	fields, err := record.FieldsOf(kind)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f == field {
			return nil
		}
	}
	return fmt.Errorf("%w: %s has no field %q: %w", ErrNotFound, kind, field, record.ErrUnknownField)
}

func insertBeforeLast(records []record.Record, txs []record.Transaction) []record.Record {
	out := make([]record.Record, 0, len(records)+len(txs))
	if len(records) == 0 {
		for _, tx := range txs {
			out = append(out, tx)
		}
		return out
	}
	last := len(records) - 1
	out = append(out, records[:last]...)
	for _, tx := range txs {
		out = append(out, tx)
	}
	return append(out, records[last])
}

// rebalanced returns a copy of records whose trailing Footer carries the
// count and sum of every Transaction. ok is false when there is no trailing
// Footer.
func rebalanced(records []record.Record) ([]record.Record, bool) {
	if len(records) == 0 {
		return records, false
	}
	last := len(records) - 1
	footer, ok := records[last].(record.Footer)
	if !ok {
		return records, false
	}

	count, sum := validation.Summarize(validation.Transactions(records[:last]))
	footer.TotalCounter = count
	footer.ControlSum = sum.RoundBank(record.AmountPlaces)

	out := append([]record.Record(nil), records...)
	out[last] = footer
	return out, true
}
