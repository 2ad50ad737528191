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

import "errors"

var (
	// ErrWriteFailed indicates an artifact could not be written.
	ErrWriteFailed = errors.New("files: write failed")

	// ErrReadFailed indicates an artifact could not be read.
	ErrReadFailed = errors.New("files: read failed")

	// ErrDecodeFailed indicates an artifact did not contain valid JSON.
	ErrDecodeFailed = errors.New("files: decode failed")

	// ErrNoExtension is returned when NextPath is called without extensions.
	ErrNoExtension = errors.New("files: at least one extension is required")
)
