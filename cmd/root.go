// =============================================================================
// Batch File Toolkit - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (batchfile)
//   ├── getCmd       (batchfile get <kind> <field>)
//   ├── setCmd       (batchfile set <kind> <field> <value>)
//   ├── addCmd       (batchfile add --counter N --amount X --currency CCY)
//   ├── importCmd    (batchfile import payments.csv)
//   ├── rebalanceCmd (batchfile rebalance)
//   ├── validateCmd  (batchfile validate)
//   ├── scanCmd      (batchfile scan incoming/)
//   ├── showCmd      (batchfile show)
//   ├── exportCmd    (batchfile export --format xml|xlsx|yaml)
//   └── versionCmd   (batchfile version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the configuration (--config, batchfile.yaml, BATCHFILE_* env)
//   2. Applies flag overrides (--strict, --verbose)
//   3. Sets up logging on stderr
//
// Command results are printed on stdout; logs and warnings go to stderr.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/batchfile/internal/codec"
	"github.com/ginjaninja78/batchfile/internal/config"
	"github.com/ginjaninja78/batchfile/internal/editor"
	"github.com/ginjaninja78/batchfile/internal/store"
	"github.com/ginjaninja78/batchfile/pkg/logger"
	"github.com/ginjaninja78/batchfile/pkg/utils"
)

// =============================================================================
// SHARED STATE
// =============================================================================

// app holds the persistent flags and the state built from them. One app
// belongs to one command tree, so tests can build fresh trees.
type app struct {
	// cfgFile is the configuration file path (--config).
	cfgFile string

	// batchFile is the batch file every subcommand works on (--file).
	batchFile string

	// strict forces the strict decode policy (--strict).
	strict bool

	// verbose enables debug logging (--verbose).
	verbose bool

	cfg *config.Config
	log zerolog.Logger
}

// errNoBatchFile is returned by commands that need --file when it is missing.
var errNoBatchFile = errors.New("no batch file given (use --file)")

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// NewRootCommand builds the complete command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "batchfile",
		Short: "Batch File Toolkit - Read, edit and validate fixed-width batch files",
		Long: `Batch File Toolkit works on fixed-width batch files made of one Header
record, any number of Transaction records and one Footer record carrying the
transaction count and control sum.

Key Features:
  - Read and rewrite single fields by record kind
  - Insert Transactions by hand or from CSV/XLSX and recompute the Footer
  - Structural validation with the first failing rule reported
  - Concurrent validation of whole directories
  - Lenient or strict handling of malformed lines
  - Atomic rewrites with optional timestamped backups
  - Reports in XML, XLSX or YAML

Example Usage:
  batchfile show --file batch.txt
  batchfile get header surname --file batch.txt
  batchfile set transaction currency EUR --file batch.txt
  batchfile add --counter 3 --amount 12.50 --currency USD --file batch.txt
  batchfile validate --file batch.txt --strict`,

		// Results are reported by the commands themselves.
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},

		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================
	// Persistent flags are available to this command and all subcommands.

	rootCmd.PersistentFlags().StringVar(
		&a.cfgFile,
		"config",
		"",
		"Path to the configuration file (default: batchfile.yaml in . or ./config)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&a.batchFile,
		"file",
		"f",
		"",
		"Path to the batch file",
	)
	rootCmd.PersistentFlags().BoolVar(
		&a.strict,
		"strict",
		false,
		"Fail on any malformed line instead of dropping it",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&a.verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.AddCommand(
		newGetCmd(a),
		newSetCmd(a),
		newAddCmd(a),
		newImportCmd(a),
		newRebalanceCmd(a),
		newValidateCmd(a),
		newScanCmd(a),
		newShowCmd(a),
		newExportCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// setup loads the configuration and sets up logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}

	if a.strict {
		cfg.Decode.Policy = codec.Strict.String()
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}

	a.cfg = cfg
	w := cmd.ErrOrStderr()
	if cfg.Log.Pretty {
		w = logger.ConsoleWriter(w)
	}
	a.log = logger.NewWithWriter(cfg.Log.Level, w)

	a.log.Debug().
		Str("policy", cfg.Decode.Policy).
		Str("file", a.batchFile).
		Msg("configuration loaded")
	return nil
}

// editor builds an Editor over the --file batch using the loaded
// configuration.
func (a *app) editor() (*editor.Editor, error) {
	if strings.TrimSpace(a.batchFile) == "" {
		return nil, errNoBatchFile
	}

	var backups *utils.FileManager
	if a.cfg.Storage.BackupDir != "" {
		backups = utils.NewFileManager(a.cfg.Storage.BackupDir)
		backups.UseTimestampSubdirs = a.cfg.Storage.TimestampSubdirs
		backups.Retention = a.cfg.Storage.BackupRetention
	}

	fs := store.NewFileStore(a.batchFile, store.FileOptions{
		Decode:  codec.Options{Policy: a.cfg.DecodePolicy()},
		Backups: backups,
		Logger:  &a.log,
	})

	return editor.New(fs, editor.Options{
		RebalanceOnInsert: a.cfg.Editor.RebalanceOnInsert,
		Logger:            &a.log,
	}), nil
}

// batchName is the batch file name without directory or extension.
func (a *app) batchName() string {
	base := filepath.Base(a.batchFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
