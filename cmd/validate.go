// =============================================================================
// Batch File Toolkit - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks the structure of a
// batch file without changing it.
//
// COMMAND USAGE:
//   batchfile validate --file batch.txt [--strict]
//
// CHECKS (in order, the first failure is reported):
//   1. At least two records
//   2. The first record is a Header
//   3. The last record is a Footer
//   4. Every record in between is a Transaction
//   5. Footer total counter equals the number of Transactions
//   6. Footer control sum equals the sum of amounts (rounded to 2 decimals)
//
// EXIT STATUS:
//   0 when the batch is valid, 1 when it is invalid or cannot be read.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/batchfile/internal/record"
)

// errInvalidBatch makes the command exit non-zero after printing the verdict.
var errInvalidBatch = errors.New("batch structure is invalid")

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the batch structure and Footer totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := a.editor()
			if err != nil {
				return err
			}

			result, err := ed.Validate()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !result.IsValid {
				fmt.Fprintf(out, "INVALID %s\n", result.Violation)
				return errInvalidBatch
			}

			fmt.Fprintf(out, "VALID: %d transaction(s), control sum %s\n",
				result.TransactionCount, result.ComputedSum.StringFixed(record.AmountPlaces))
			return nil
		},
	}
}
