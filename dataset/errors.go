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

import "errors"

var (
	// ErrUnsupportedFormat indicates an unknown output format.
	ErrUnsupportedFormat = errors.New("dataset: unsupported format")

	// ErrWriteFailed indicates the dataset could not be written.
	ErrWriteFailed = errors.New("dataset: write failed")

	// ErrReadFailed indicates the dataset could not be read.
	ErrReadFailed = errors.New("dataset: read failed")
)
