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


package embedding

import (
	"errors"

	"github.com/poiesic/newsprep/core"
)

var (
	// ErrNoEmbedder is returned when a Generator is created without an embedder.
	ErrNoEmbedder = errors.New("embedding: embedder is required")

	// ErrInvalidBatchSize is returned when the batch size is less than 1.
	ErrInvalidBatchSize = errors.New("embedding: batch size must be at least 1")

	// ErrInvalidDimensions is returned when the embedder declares no dimensionality.
	ErrInvalidDimensions = errors.New("embedding: embedder dimensions must be at least 1")

	// ErrEmbeddingFailed wraps errors returned by the embedder.
	ErrEmbeddingFailed = errors.New("embedding: embedder failed")

	// ErrCountMismatch indicates the embedder returned the wrong number of vectors.
	ErrCountMismatch = errors.New("embedding: vector count mismatch")

	// ErrDimensionMismatch indicates a vector of the wrong length.
	ErrDimensionMismatch = core.ErrDimensionMismatch
)
