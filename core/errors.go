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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidArticle indicates a CleanedArticle failed validation.
	ErrInvalidArticle = errors.New("invalid article")

	// ErrInvalidRecord indicates an EmbeddedRecord failed validation.
	ErrInvalidRecord = errors.New("invalid embedded record")

	// ErrEmptyBody indicates the BodyText field is empty.
	ErrEmptyBody = errors.New("body text cannot be empty")

	// ErrMissingArticleID indicates the ArticleID field is empty.
	ErrMissingArticleID = errors.New("article id cannot be empty")

	// ErrEmptyEmbedding indicates the embedding vector is missing.
	ErrEmptyEmbedding = errors.New("embedding cannot be empty")

	// ErrDimensionMismatch indicates an embedding has the wrong length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
