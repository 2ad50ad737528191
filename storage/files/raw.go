package files

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/poiesic/newsprep/core"
)

const (
	rawPrefix = "raw"
	rawExt    = "json"
)

// SaveRaw writes the API response body to dir exactly as received.
// Returns the path of the new file.
func SaveRaw(dir string, raw []byte, now time.Time) (string, error) {
	stem, err := NextPath(dir, rawPrefix, now, rawExt)
	if err != nil {
		return "", err
	}
	path := WithExt(stem, rawExt)
	if err := createExclusive(path, raw); err != nil {
		return "", err
	}
	return path, nil
}

// LoadRaw reads a stored response and decodes its envelope.
func LoadRaw(path string) (*core.RawPayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	var payload core.RawPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailed, path, err)
	}
	return &payload, nil
}
