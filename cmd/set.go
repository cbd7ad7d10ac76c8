// =============================================================================
// Batch File Toolkit - Set Command
// =============================================================================
//
// COMMAND USAGE:
//   batchfile set <kind> <field> <value> --file batch.txt
//
// Sets the field in EVERY record of the kind and rewrites the file. The value
// is checked against the field type first (width, digits, amount format); an
// invalid value leaves the file untouched.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/batchfile/internal/record"
)

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <kind> <field> <value>",
		Short: "Set a field in every record of a kind",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := record.ParseKind(args[0])
			if err != nil {
				return err
			}

			ed, err := a.editor()
			if err != nil {
				return err
			}

			n, err := ed.ReplaceField(kind, args[1], args[2])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "updated %s in %d %s record(s)\n", args[1], n, kind)
			return nil
		},
	}
}
