// =============================================================================
// Batch File Toolkit - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Batch File Toolkit CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   batchfile show       - List the records of a batch file
//   batchfile get        - Print a field of the first record of a kind
//   batchfile set        - Set a field in every record of a kind
//   batchfile add        - Insert a Transaction before the last record
//   batchfile import     - Insert Transactions from a CSV or XLSX file
//   batchfile rebalance  - Recompute the Footer
//   batchfile validate   - Check the batch structure
//   batchfile scan       - Validate many batch files concurrently
//   batchfile export     - Write an XML, XLSX or YAML report
//   batchfile version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/                : CLI command definitions (Cobra)
//   - internal/record     : Header, Transaction and Footer records
//   - internal/codec      : Fixed-width line encoding and decoding
//   - internal/validation : Structural checks
//   - internal/editor     : Read-modify-write operations on a batch
//   - internal/store      : File and in-memory batch storage
//   - internal/export     : XML, XLSX and YAML reports
//   - internal/importer   : Transactions from CSV and XLSX sources
//   - internal/scan       : Concurrent multi-file validation
//   - internal/config     : Configuration loading (Viper)
//   - pkg/                : Logging and file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/batchfile/cmd"
)

func main() {
	cmd.Execute()
}
