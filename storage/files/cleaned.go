package files

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/poiesic/newsprep/core"
)

const (
	cleanedPrefix = "clean"
	cleanedExt    = "json"
)

// SaveCleaned writes cleaned articles to dir as an indented JSON array.
// An empty input still produces a file containing [].
func SaveCleaned(dir string, articles []core.CleanedArticle, now time.Time) (string, error) {
	if articles == nil {
		articles = []core.CleanedArticle{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(articles); err != nil {
		return "", fmt.Errorf("%w: encoding cleaned articles: %w", ErrWriteFailed, err)
	}

	stem, err := NextPath(dir, cleanedPrefix, now, cleanedExt)
	if err != nil {
		return "", err
	}
	path := WithExt(stem, cleanedExt)
	if err := createExclusive(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// LoadCleaned reads a file written by SaveCleaned.
func LoadCleaned(path string) ([]core.CleanedArticle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	var articles []core.CleanedArticle
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailed, path, err)
	}
	return articles, nil
}
