package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/batchfile/internal/record"
)

// newRebalanceCmd recomputes the Footer from the Transactions in the file.
func newRebalanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rebalance",
		Short: "Recompute the Footer's total counter and control sum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := a.editor()
			if err != nil {
				return err
			}

			footer, err := ed.Rebalance()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "footer: total_counter=%d control_sum=%s\n",
				footer.TotalCounter, footer.ControlSum.StringFixed(record.AmountPlaces))
			return nil
		},
	}
}
