// =============================================================================
// Batch File Toolkit - Record Store
// =============================================================================
//
// A Store loads the whole batch into memory and writes the whole batch back.
// There is no partial or incremental persistence: every operation reads the
// full file and every mutation rewrites it.
//
// IMPLEMENTATIONS:
//   - FileStore:   a batch file on disk, replaced atomically on write
//   - MemoryStore: encoded bytes held in memory
//
// A FileStore is safe for a single writer only. Two processes rewriting the
// same file will lose one of the updates.
//
// =============================================================================

package store

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/batchfile/internal/codec"
	"github.com/ginjaninja78/batchfile/internal/record"
	"github.com/ginjaninja78/batchfile/pkg/utils"
)

// Store reads and writes a complete record sequence.
type Store interface {
	// ReadAll decodes the whole batch.
	ReadAll() (*codec.Result, error)

	// WriteAll replaces the whole batch with records.
	WriteAll(records []record.Record) error
}

// =============================================================================
// FILE STORE
// =============================================================================

// FileOptions configures a FileStore.
type FileOptions struct {
	// Decode controls how malformed lines are handled on read.
	Decode codec.Options

	// Backups, when enabled, copies the previous file before each rewrite.
	Backups *utils.FileManager

	// Logger receives rewrite and backup events. Nil disables logging.
	Logger *zerolog.Logger
}

// FileStore keeps a batch in a single fixed-width file.
type FileStore struct {
	path    string
	decode  codec.Options
	backups *utils.FileManager
	log     zerolog.Logger
}

// NewFileStore creates a store for the batch file at path.
func NewFileStore(path string, opts FileOptions) *FileStore {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &FileStore{
		path:    path,
		decode:  opts.Decode,
		backups: opts.Backups,
		log:     log.With().Str("file", path).Logger(),
	}
}

// Path returns the batch file path.
func (s *FileStore) Path() string {
	return s.path
}

// ReadAll opens and decodes the batch file.
//
// A missing file yields an error wrapping fs.ErrNotExist.
func (s *FileStore) ReadAll() (*codec.Result, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()

	result, err := codec.Decode(f, s.decode)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}

	for _, d := range result.Diagnostics {
		s.log.Warn().Int("line", d.Line).Err(d.Err).Str("value", d.Value).Msg("malformed line dropped")
	}

	s.log.Debug().
		Int("records", len(result.Records)).
		Int("dropped", len(result.Diagnostics)).
		Msg("batch file read")

	return result, nil
}

// WriteAll encodes records and atomically replaces the batch file.
//
// Encoding happens first, so an overflow leaves the file untouched.
func (s *FileStore) WriteAll(records []record.Record) error {
	var buf bytes.Buffer
	if err := codec.Encode(&buf, records); err != nil {
		return err
	}

	if s.backups.Enabled() {
		backup, err := s.backups.BackupFile(s.path)
		if err != nil {
			return fmt.Errorf("failed to back up %s: %w", s.path, err)
		}
		if backup != "" {
			s.log.Info().Str("backup", backup).Msg("previous batch backed up")
		}
	}

	if err := utils.WriteFileAtomic(s.path, buf.Bytes()); err != nil {
		return err
	}

	s.log.Info().Int("records", len(records)).Msg("batch file rewritten")
	return nil
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemoryStore holds an encoded batch in memory. It goes through the same
// codec as FileStore.
type MemoryStore struct {
	mu     sync.Mutex
	data   []byte
	decode codec.Options
	writes int
}

// NewMemoryStore creates a store initialised with encoded batch data.
func NewMemoryStore(data []byte, opts codec.Options) *MemoryStore {
	return &MemoryStore{data: append([]byte(nil), data...), decode: opts}
}

// NewMemoryStoreFromRecords creates a store holding the encoded records.
func NewMemoryStoreFromRecords(records []record.Record, opts codec.Options) (*MemoryStore, error) {
	var buf bytes.Buffer
	if err := codec.Encode(&buf, records); err != nil {
		return nil, err
	}
	return &MemoryStore{data: buf.Bytes(), decode: opts}, nil
}

// ReadAll decodes the held bytes.
func (s *MemoryStore) ReadAll() (*codec.Result, error) {
	s.mu.Lock()
	data := s.data
	s.mu.Unlock()

	return codec.Decode(bytes.NewReader(data), s.decode)
}

// WriteAll replaces the held bytes with the encoded records.
func (s *MemoryStore) WriteAll(records []record.Record) error {
	var buf bytes.Buffer
	if err := codec.Encode(&buf, records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = buf.Bytes()
	s.writes++
	return nil
}

// Bytes returns a copy of the held encoded batch.
func (s *MemoryStore) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...)
}

// Writes returns how many times WriteAll succeeded.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
