// =============================================================================
// Batch File Toolkit - Export Module
// =============================================================================
//
// This module renders a decoded batch as a report in another format. The
// batch file itself is never changed by an export.
//
// FORMATS:
//   - xml:  one element per record, one child element per field
//   - xlsx: one sheet per record kind with a bold header row
//   - yaml: a list of records, fields in layout order
//
// Every format renders fields through record.Field, so amounts always carry
// two decimals and the output matches what GetField would print.
//
// =============================================================================

package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/batchfile/internal/record"
	"github.com/ginjaninja78/batchfile/pkg/utils"
)

// Format is an export file format.
type Format string

const (
	FormatXML  Format = "xml"
	FormatXLSX Format = "xlsx"
	FormatYAML Format = "yaml"
)

// Extension returns the file extension, with leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ParseFormat accepts xml, xlsx, yaml or yml (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xml":
		return FormatXML, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q (want xml, xlsx or yaml)", s)
}

// Write renders records to w in the given format.
func Write(w io.Writer, format Format, records []record.Record) error {
	switch format {
	case FormatXML:
		return WriteXML(w, records)
	case FormatXLSX:
		return WriteXLSX(w, records)
	case FormatYAML:
		return WriteYAML(w, records)
	}
	return fmt.Errorf("unknown export format %q", string(format))
}

// WriteFile renders records into a new file in dir.
//
// PARAMETERS:
//   - dir:        Output directory, created if missing.
//   - nameFormat: File name format (see utils.GenerateOutputFileName).
//   - name:       Value for the {name} placeholder, usually the batch name.
//   - format:     Export format.
//
// RETURNS:
//   - The path of the written file.
func WriteFile(dir, nameFormat, name string, format Format, records []record.Record) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, format, records); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}

	fileName := utils.GenerateOutputFileName(nameFormat, format.Extension(), map[string]string{"name": name})
	path := filepath.Join(dir, fileName)

	if err := utils.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// =============================================================================
// RECORD VIEW
// =============================================================================

// field is one rendered field of a record.
type field struct {
	Name  string
	Value string
}

// fieldsOf renders every field of rec except the discriminator tag.
func fieldsOf(rec record.Record) ([]field, error) {
	var out []field
	for _, name := range rec.Fields() {
		if name == record.FieldID {
			continue
		}
		value, err := rec.Field(name)
		if err != nil {
			return nil, err
		}
		out = append(out, field{Name: name, Value: value})
	}
	return out, nil
}

// elementName is the lower-case kind name, e.g. "transaction".
func elementName(k record.Kind) string {
	return strings.ToLower(k.String())
}
