// =============================================================================
// Batch File Toolkit - Scan Command
// =============================================================================
//
// This file defines the 'scan' command, which validates many batch files at
// once. Files are checked concurrently and none of them is changed.
//
// COMMAND USAGE:
//   batchfile scan <file|dir>... [flags]
//
// FLAGS:
//   --workers : Files checked in parallel (default: scan.workers)
//   --pattern : File name pattern inside directories (default: scan.pattern)
//
// OUTPUT:
//   ✓ incoming/a.txt: 2 transaction(s), control sum 30.50
//   ✗ incoming/b.txt: [control_sum] footer control sum mismatch: ...
//   ✗ incoming/c.txt: failed to open batch file: ...
//
//   === Scan Complete ===
//   Total files:  3
//   Valid:        1
//   Invalid:      1
//   Unreadable:   1
//
// EXIT STATUS:
//   0 when every file is valid, 1 otherwise.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/batchfile/internal/codec"
	"github.com/ginjaninja78/batchfile/internal/record"
	"github.com/ginjaninja78/batchfile/internal/scan"
)

func newScanCmd(a *app) *cobra.Command {
	var (
		workers int
		pattern string
	)

	cmd := &cobra.Command{
		Use:   "scan <file|dir>...",
		Short: "Validate many batch files concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Scan.Workers
			}
			if !cmd.Flags().Changed("pattern") {
				pattern = a.cfg.Scan.Pattern
			}

			files, err := scan.Discover(args, pattern)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "No batch files found.")
				return nil
			}

			results, summary := scan.Run(cmd.Context(), files, scan.Options{
				Workers: workers,
				Decode:  codec.Options{Policy: a.cfg.DecodePolicy()},
				Logger:  &a.log,
			})

			for _, r := range results {
				switch {
				case r.Err != nil:
					fmt.Fprintf(out, "  ✗ %s: %v\n", r.Path, r.Err)
				case !r.Verdict.IsValid:
					fmt.Fprintf(out, "  ✗ %s: %s\n", r.Path, r.Verdict.Violation)
				default:
					fmt.Fprintf(out, "  ✓ %s: %d transaction(s), control sum %s\n",
						r.Path, r.Verdict.TransactionCount, r.Verdict.ComputedSum.StringFixed(record.AmountPlaces))
				}
			}

			fmt.Fprintln(out, "\n=== Scan Complete ===")
			fmt.Fprintf(out, "Total files:  %d\n", summary.Files)
			fmt.Fprintf(out, "Valid:        %d\n", summary.Valid)
			fmt.Fprintf(out, "Invalid:      %d\n", summary.Invalid)
			fmt.Fprintf(out, "Unreadable:   %d\n", summary.Failed)

			if !summary.OK() {
				return errInvalidBatch
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", scan.DefaultWorkers, "Files checked in parallel")
	cmd.Flags().StringVar(&pattern, "pattern", "*.txt", "File name pattern inside directories")

	return cmd
}
