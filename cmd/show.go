// =============================================================================
// Batch File Toolkit - Show Command
// =============================================================================
//
// COMMAND USAGE:
//   batchfile show --file batch.txt
//
// OUTPUT:
//   #  KIND         FIELDS
//   1  Header       name=John surname=Doe patronymic=Paul address=1 Main St
//   2  Transaction  counter=1 amount=20.00 currency=USD
//   3  Footer       total_counter=1 control_sum=20.00
//
//   dropped: line 4: Transaction amount "00000001A00": invalid field value
//
// Lines dropped in lenient mode are listed after the records.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/batchfile/internal/record"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the records of the batch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := a.editor()
			if err != nil {
				return err
			}

			res, err := ed.Records()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tKIND\tFIELDS")
			for i, rec := range res.Records {
				fields, err := describe(rec)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, rec.Kind(), fields)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if len(res.Diagnostics) > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
				for _, d := range res.Diagnostics {
					fmt.Fprintf(cmd.OutOrStdout(), "dropped: %v\n", d)
				}
			}
			return nil
		},
	}
}

// describe renders the fields of rec as name=value pairs.
func describe(rec record.Record) (string, error) {
	var parts []string
	for _, name := range rec.Fields() {
		if name == record.FieldID {
			continue
		}
		value, err := rec.Field(name)
		if err != nil {
			return "", err
		}
		parts = append(parts, name+"="+value)
	}
	return strings.Join(parts, " "), nil
}
