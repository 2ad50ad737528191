// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/parquet-go/parquet-go"
	"github.com/poiesic/newsprep/core"
)

// WriteOption configures Write.
type WriteOption func(*writeConfig)

type writeConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger Write reports to.
func WithLogger(logger *slog.Logger) WriteOption {
	return func(c *writeConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Write saves records to path in the given format and returns the final path.
// The format's extension is appended when path lacks it. Parent directories
// are created as needed.
func Write(path string, format Format, records []core.EmbeddedRecord, opts ...WriteOption) (string, error) {
	cfg := writeConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := ParseFormat(string(format)); err != nil {
		return "", err
	}
	if filepath.Ext(path) != "."+format.Ext() {
		path = path + "." + format.Ext()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("%w: %w", ErrWriteFailed, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	rows := NewRows(records)
	if err := encode(f, format, rows); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}

	cfg.logger.With("component", "dataset").Debug("wrote dataset",
		"path", path, "format", format, "rows", len(rows))
	return path, nil
}

func encode(w io.Writer, format Format, rows []Row) error {
	switch format {
	case FormatParquet:
		return writeParquet(w, rows)
	case FormatCSV:
		return writeCSV(w, rows)
	case FormatJSONL:
		return writeJSONL(w, rows)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func writeParquet(w io.Writer, rows []Row) error {
	pw := parquet.NewGenericWriter[Row](w)
	if _, err := pw.Write(rows); err != nil {
		_ = pw.Close()
		return err
	}
	return pw.Close()
}

func writeJSONL(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, row := range rows {
		record, err := csvRecord(row)
		if err != nil {
			return err
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRecord(row Row) ([]string, error) {
	category, err := json.Marshal(row.Category)
	if err != nil {
		return nil, err
	}
	flags, err := json.Marshal(row.Flags)
	if err != nil {
		return nil, err
	}
	embedding, err := json.Marshal(row.Embedding)
	if err != nil {
		return nil, err
	}

	pub := ""
	if row.PubDatetime != nil {
		pub = strconv.FormatInt(*row.PubDatetime, 10)
	}

	return []string{
		row.ArticleID,
		row.Title,
		row.CleanedText,
		row.Source,
		row.URL,
		string(category),
		strconv.FormatInt(row.CharacterCount, 10),
		strconv.FormatInt(row.TokenCount, 10),
		strconv.FormatInt(row.SentenceCount, 10),
		pub,
		row.Domain,
		row.CategoryTag,
		row.SourceCategory,
		string(flags),
		string(embedding),
	}, nil
}
