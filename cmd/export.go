// =============================================================================
// Batch File Toolkit - Export Command
// =============================================================================
//
// COMMAND USAGE:
//   batchfile export --file batch.txt [--format xml|xlsx|yaml] [--out DIR]
//
// FLAGS:
//   --format : Report format (default: xml)
//   --out    : Output directory (default: export.dir from the configuration)
//
// The report file name comes from export.name_format, where {name} is the
// batch file name without extension. The batch file is not changed.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/batchfile/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the batch as an XML, XLSX or YAML report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			ed, err := a.editor()
			if err != nil {
				return err
			}

			res, err := ed.Records()
			if err != nil {
				return err
			}

			dir := outDir
			if dir == "" {
				dir = a.cfg.Export.Dir
			}

			path, err := export.WriteFile(dir, a.cfg.Export.NameFormat, a.batchName(), f, res.Records)
			if err != nil {
				return err
			}

			a.log.Info().
				Str("format", string(f)).
				Str("output", path).
				Int("records", len(res.Records)).
				Msg("batch exported")

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "xml", "Report format: xml, xlsx or yaml")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default: export.dir)")

	return cmd
}
