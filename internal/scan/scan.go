// =============================================================================
// Batch File Toolkit - Batch Scanner
// =============================================================================
//
// This module validates many batch files at once, typically every file in an
// incoming directory.
//
// PIPELINE (per file):
//   1. Read and decode the file with the configured policy
//   2. Run the structural checks
//   3. Report records read, lines dropped and the verdict
//
// CONCURRENCY:
//   Files are handed to a fixed pool of workers. Results come back in the
//   order the paths were given, whatever order the workers finish in. A
//   failure in one file does not stop the others; cancelling the context
//   marks the files not yet started as failed with the context error.
//
// =============================================================================

package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/batchfile/internal/codec"
	"github.com/ginjaninja78/batchfile/internal/store"
	"github.com/ginjaninja78/batchfile/internal/validation"
)

// DefaultWorkers is used when Options.Workers is not positive.
const DefaultWorkers = 4

// Options configures a scan.
type Options struct {
	// Workers is the number of files checked in parallel.
	Workers int

	// Decode controls how malformed lines are handled.
	Decode codec.Options

	// Logger receives per-file events. Nil disables logging.
	Logger *zerolog.Logger
}

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// FileResult is the outcome of checking a single file.
type FileResult struct {
	// Path is the file that was checked.
	Path string

	// Records is the number of records decoded.
	Records int

	// Dropped is the number of malformed lines skipped in lenient mode.
	Dropped int

	// Verdict is the structural check result. Nil when Err is set.
	Verdict *validation.Result

	// Err is set when the file could not be read or decoded.
	Err error

	// Duration is the time taken to check the file.
	Duration time.Duration
}

// Valid reports whether the file was read and passed every check.
func (r FileResult) Valid() bool {
	return r.Err == nil && r.Verdict != nil && r.Verdict.IsValid
}

// Summary counts the outcomes of a scan.
type Summary struct {
	Files   int
	Valid   int
	Invalid int // read fine, failed a structural check
	Failed  int // could not be read or decoded
	Elapsed time.Duration
}

// OK reports whether every file was valid.
func (s Summary) OK() bool {
	return s.Files == s.Valid
}

// =============================================================================
// DISCOVERY
// =============================================================================

// Discover expands paths into the list of files to check.
//
// Files are taken as given. Directories are walked recursively and only file
// names matching pattern (filepath.Match syntax, empty matches everything)
// are kept. The result is sorted and free of duplicates.
func Discover(paths []string, pattern string) ([]string, error) {
	if pattern != "" {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
		}
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if pattern != "" {
				if ok, _ := filepath.Match(pattern, d.Name()); !ok {
					return nil
				}
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// =============================================================================
// SCANNING
// =============================================================================

// Run checks every file in paths with a pool of workers.
//
// RETURNS:
//   - One FileResult per path, in the same order as paths.
//   - A Summary of the outcomes.
func Run(ctx context.Context, paths []string, opts Options) ([]FileResult, Summary) {
	start := time.Now()

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	results := make([]FileResult, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results[i] = FileResult{Path: paths[i], Err: err}
					continue
				}
				results[i] = checkFile(paths[i], opts.Decode, log)
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	summary := Summary{Files: len(paths), Elapsed: time.Since(start)}
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.Valid():
			summary.Valid++
		default:
			summary.Invalid++
		}
	}

	log.Info().
		Int("files", summary.Files).
		Int("valid", summary.Valid).
		Int("invalid", summary.Invalid).
		Int("failed", summary.Failed).
		Dur("elapsed", summary.Elapsed).
		Msg("scan complete")

	return results, summary
}

// checkFile reads and validates one file.
func checkFile(path string, decode codec.Options, log zerolog.Logger) FileResult {
	start := time.Now()
	result := FileResult{Path: path}

	res, err := store.NewFileStore(path, store.FileOptions{Decode: decode, Logger: &log}).ReadAll()
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		log.Warn().Err(err).Str("file", path).Msg("batch file could not be read")
		return result
	}

	result.Records = len(res.Records)
	result.Dropped = len(res.Diagnostics)
	result.Verdict = validation.Validate(res.Records)
	result.Duration = time.Since(start)

	log.Debug().
		Str("file", path).
		Bool("valid", result.Verdict.IsValid).
		Int("records", result.Records).
		Int("dropped", result.Dropped).
		Msg("batch file checked")
	return result
}
