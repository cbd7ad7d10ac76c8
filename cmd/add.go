// =============================================================================
// Batch File Toolkit - Add Command
// =============================================================================
//
// COMMAND USAGE:
//   batchfile add --counter N --amount X --currency CCY --file batch.txt
//
// FLAGS:
//   --counter   : Transaction counter (0-999999)
//   --amount    : Amount, at most 2 decimals (e.g. 12.50)
//   --currency  : 3-letter currency code
//   --rebalance : Also recompute the Footer (overrides editor.rebalance_on_insert)
//
// The Transaction is inserted just before the last record. The Footer is not
// recomputed unless rebalancing is on; use 'batchfile rebalance' afterwards
// otherwise.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/batchfile/internal/record"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		counter   int
		amount    string
		currency  string
		rebalance bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Insert a Transaction before the last record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("%w: amount %q is not a decimal number", record.ErrInvalidValue, amount)
			}

			if cmd.Flags().Changed("rebalance") {
				a.cfg.Editor.RebalanceOnInsert = rebalance
			}

			ed, err := a.editor()
			if err != nil {
				return err
			}

			if err := ed.InsertTransaction(counter, value, currency); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "inserted transaction %d: %s %s\n",
				counter, value.StringFixed(record.AmountPlaces), currency)
			return nil
		},
	}

	cmd.Flags().IntVar(&counter, "counter", 0, "Transaction counter")
	cmd.Flags().StringVar(&amount, "amount", "", "Transaction amount (e.g. 12.50)")
	cmd.Flags().StringVar(&currency, "currency", "", "3-letter currency code")
	cmd.Flags().BoolVar(&rebalance, "rebalance", false, "Recompute the Footer after inserting")
	cmd.MarkFlagRequired("counter")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("currency")

	return cmd
}
