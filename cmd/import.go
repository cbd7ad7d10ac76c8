// =============================================================================
// Batch File Toolkit - Import Command
// =============================================================================
//
// COMMAND USAGE:
//   batchfile import <source.csv|source.xlsx> --file batch.txt [flags]
//
// FLAGS:
//   --delimiter : CSV delimiter: , ; | or tab (default: ,)
//   --sheet     : XLSX sheet name (default: first sheet)
//   --rebalance : Recompute the Footer after inserting
//
// The source needs a header row with counter, amount and currency columns.
// All Transactions are checked before anything is written and are inserted
// before the last record in one rewrite.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/batchfile/internal/importer"
	"github.com/ginjaninja78/batchfile/internal/record"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		delimiter string
		sheet     string
		rebalance bool
	)

	cmd := &cobra.Command{
		Use:   "import <source>",
		Short: "Insert Transactions read from a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := importer.DetectSource(args[0])
			if err != nil {
				return err
			}

			var txs []record.Transaction
			switch source {
			case importer.SourceCSV:
				txs, err = importer.ReadCSVFile(args[0], importer.CSVOptions{Delimiter: delimiter})
			case importer.SourceXLSX:
				txs, err = importer.ReadXLSXFile(args[0], sheet)
			}
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("rebalance") {
				a.cfg.Editor.RebalanceOnInsert = rebalance
			}

			ed, err := a.editor()
			if err != nil {
				return err
			}

			if err := ed.InsertTransactions(txs); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d transaction(s) from %s\n", len(txs), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&delimiter, "delimiter", ",", "CSV delimiter: , ; | or tab")
	cmd.Flags().StringVar(&sheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	cmd.Flags().BoolVar(&rebalance, "rebalance", false, "Recompute the Footer after inserting")

	return cmd
}
