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


package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	// maxCounter keeps the search bounded if a directory is unwritable.
	maxCounter = 10000
)

// NextPath returns the first free stem dir/<prefix>_<YYYYMMDD>_<NN> for date.
// A counter is free when no file stem.<ext> exists for any of exts.
// The returned stem carries no extension. dir is created if missing.
func NextPath(dir, prefix string, date time.Time, exts ...string) (string, error) {
	if len(exts) == 0 {
		return "", ErrNoExtension
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("%w: creating %s: %w", ErrWriteFailed, dir, err)
	}

	day := date.Format("20060102")
	for counter := 1; counter < maxCounter; counter++ {
		stem := filepath.Join(dir, fmt.Sprintf("%s_%s_%02d", prefix, day, counter))
		taken, err := anyExists(stem, exts)
		if err != nil {
			return "", err
		}
		if !taken {
			return stem, nil
		}
	}
	return "", fmt.Errorf("%w: no free name for %s_%s in %s", ErrWriteFailed, prefix, day, dir)
}

// WithExt appends ext to stem unless it already ends with it.
func WithExt(stem, ext string) string {
	ext = "." + strings.TrimPrefix(ext, ".")
	if strings.HasSuffix(stem, ext) {
		return stem
	}
	return stem + ext
}

func anyExists(stem string, exts []string) (bool, error) {
	for _, ext := range exts {
		_, err := os.Stat(WithExt(stem, ext))
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("%w: %w", ErrReadFailed, err)
		}
	}
	return false, nil
}

// createExclusive writes data to a new file, failing if path already exists.
func createExclusive(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}
	return nil
}
