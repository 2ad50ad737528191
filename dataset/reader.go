package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/parquet-go/parquet-go"
)

// maxLineBytes bounds a single JSON Lines record.
const maxLineBytes = 64 << 20

// Read loads a dataset written by Write, inferring the format from the extension.
func Read(path string) ([]Row, error) {
	format, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	if format == FormatParquet {
		rows, err := parquet.ReadFile[Row](path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrReadFailed, path, err)
		}
		return rows, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	defer f.Close()

	var rows []Row
	switch format {
	case FormatJSONL:
		rows, err = readJSONL(f)
	case FormatCSV:
		rows, err = readCSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFailed, path, err)
	}
	return rows, nil
}

func readJSONL(r io.Reader) ([]Row, error) {
	var rows []Row
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var row Row
		if err := json.Unmarshal(scanner.Bytes(), &row); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, scanner.Err()
}

func readCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, name := range Columns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		row, err := parseCSVRecord(record, index)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

func parseCSVRecord(record []string, index map[string]int) (Row, error) {
	get := func(name string) string { return record[index[name]] }

	var row Row
	row.ArticleID = get("article_id")
	row.Title = get("title")
	row.CleanedText = get("cleaned_text")
	row.Source = get("source")
	row.URL = get("url")
	row.Domain = get("domain")
	row.CategoryTag = get("category_tag")
	row.SourceCategory = get("source_category")

	var err error
	if row.CharacterCount, err = strconv.ParseInt(get("character_count"), 10, 64); err != nil {
		return Row{}, err
	}
	if row.TokenCount, err = strconv.ParseInt(get("token_count"), 10, 64); err != nil {
		return Row{}, err
	}
	if row.SentenceCount, err = strconv.ParseInt(get("sentence_count"), 10, 64); err != nil {
		return Row{}, err
	}
	if pub := get("pub_datetime"); pub != "" {
		ts, err := strconv.ParseInt(pub, 10, 64)
		if err != nil {
			return Row{}, err
		}
		row.PubDatetime = &ts
	}

	if err := json.Unmarshal([]byte(get("category")), &row.Category); err != nil {
		return Row{}, fmt.Errorf("category: %w", err)
	}
	if err := json.Unmarshal([]byte(get("flags")), &row.Flags); err != nil {
		return Row{}, fmt.Errorf("flags: %w", err)
	}
	if err := json.Unmarshal([]byte(get("embedding")), &row.Embedding); err != nil {
		return Row{}, fmt.Errorf("embedding: %w", err)
	}
	return row, nil
}
