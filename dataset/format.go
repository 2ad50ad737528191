package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an output file format.
type Format string

const (
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
	FormatJSONL   Format = "jsonl"
)

// DefaultFormat is used when no format is configured.
const DefaultFormat = FormatParquet

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatParquet, FormatCSV, FormatJSONL}
}

// Extensions returns the file extensions of all supported formats.
func Extensions() []string {
	formats := Formats()
	exts := make([]string, len(formats))
	for i, f := range formats {
		exts[i] = f.Ext()
	}
	return exts
}

// Ext returns the file extension for the format, without a dot.
func (f Format) Ext() string {
	return string(f)
}

// ParseFormat converts a case-insensitive name into a Format.
// An empty name yields DefaultFormat.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultFormat, nil
	}
	for _, f := range Formats() {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (use parquet, csv or jsonl)", ErrUnsupportedFormat, name)
}

// formatOf infers the format of path from its extension.
func formatOf(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}
