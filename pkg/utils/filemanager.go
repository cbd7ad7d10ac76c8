// =============================================================================
// Batch File Toolkit - File Manager Utility
// =============================================================================
//
// This module provides the file handling used around batch rewrites:
//   - Backups of the previous batch file before it is replaced
//   - Atomic replacement (temp file + rename) so readers never see a
//     half-written batch
//   - Retention cleanup for old backups
//   - Output file naming for exports
//
// BACKUP STRATEGY:
//   - Backups are copies, the original stays in place until the rename
//   - Each backup name carries a timestamp so successive rewrites never
//     overwrite each other
//   - Optional date-based subdirectories (YYYY/MM/DD)
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles backups of batch files.
type FileManager struct {
	// BackupDir receives a copy of the batch file before each rewrite.
	// Empty disables backups.
	BackupDir string

	// UseTimestampSubdirs places backups under YYYY/MM/DD subdirectories.
	UseTimestampSubdirs bool

	// Retention removes backups older than this after each backup.
	// Zero keeps everything.
	Retention time.Duration

	// now is replaced in tests.
	now func() time.Time
}

// NewFileManager creates a FileManager that backs files up into backupDir.
func NewFileManager(backupDir string) *FileManager {
	return &FileManager{
		BackupDir: backupDir,
		now:       time.Now,
	}
}

// Enabled reports whether backups are configured.
func (fm *FileManager) Enabled() bool {
	return fm != nil && fm.BackupDir != ""
}

// =============================================================================
// BACKUP
// =============================================================================

// BackupFile copies filePath into the backup directory.
//
// RETURNS:
//   - The backup path, or "" when backups are disabled or filePath does not
//     exist yet (nothing to preserve).
//   - An error if the copy fails.
func (fm *FileManager) BackupFile(filePath string) (string, error) {
	if !fm.Enabled() {
		return "", nil
	}
	if !FileExists(filePath) {
		return "", nil
	}

	backupPath := fm.getBackupPath(filePath)

	if err := os.MkdirAll(filepath.Dir(backupPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	if err := copyFile(filePath, backupPath); err != nil {
		return "", fmt.Errorf("failed to copy file to backup: %w", err)
	}

	if fm.Retention > 0 {
		if _, err := CleanOldBackups(fm.BackupDir, fm.Retention); err != nil {
			return backupPath, err
		}
	}

	return backupPath, nil
}

// getBackupPath builds <backup>/[YYYY/MM/DD/]<name>.<timestamp>.bak.
func (fm *FileManager) getBackupPath(filePath string) string {
	now := fm.clock()
	fileName := fmt.Sprintf("%s.%s.bak", filepath.Base(filePath), now.Format("20060102_150405.000000000"))

	if fm.UseTimestampSubdirs {
		subDir := filepath.Join(
			fm.BackupDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
		return filepath.Join(subDir, fileName)
	}

	return filepath.Join(fm.BackupDir, fileName)
}

func (fm *FileManager) clock() time.Time {
	if fm.now == nil {
		return time.Now()
	}
	return fm.now()
}

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteFileAtomic writes data to a uniquely named temp file next to path and
// renames it over path.
//
// The temp file lives in the same directory so the rename never crosses a
// filesystem. The original permissions are kept when path already exists.
func WriteFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String()))

	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

// =============================================================================
// FILE NAMING
// =============================================================================

// GenerateOutputFileName builds an output file name from a format string.
//
// PLACEHOLDERS:
//   - {uuid}:      A random UUID
//   - {timestamp}: Current timestamp (YYYYMMDD_HHMMSS)
//   - {date}:      Current date (YYYYMMDD)
//   - {time}:      Current time (HHMMSS)
//   - {key}:       Any key from params
//
// The extension (with leading dot) is appended when missing.
func GenerateOutputFileName(format, ext string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// CleanOldBackups removes backup files older than maxAge.
//
// RETURNS:
//   - The number of files removed.
//   - An error if cleaning fails.
func CleanOldBackups(backupDir string, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.Walk(backupDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || !strings.HasSuffix(path, ".bak") {
			return nil
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}

		return nil
	})

	if err != nil {
		return removed, fmt.Errorf("failed to clean backups: %w", err)
	}

	return removed, nil
}
