// =============================================================================
// Batch File Toolkit - Get Command
// =============================================================================
//
// COMMAND USAGE:
//   batchfile get <kind> <field> --file batch.txt
//
// The kind is header, transaction or footer (or the tag 01, 02, 03). The
// value of the field in the FIRST record of that kind is printed.
//
// EXAMPLES:
//   batchfile get header surname -f batch.txt       -> Doe
//   batchfile get footer control_sum -f batch.txt   -> 30.50
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/batchfile/internal/record"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <kind> <field>",
		Short: "Print a field of the first record of a kind",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := record.ParseKind(args[0])
			if err != nil {
				return err
			}

			ed, err := a.editor()
			if err != nil {
				return err
			}

			value, err := ed.GetField(kind, args[1])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}
