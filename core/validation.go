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

import (
	"fmt"
	"time"
)

// allowedClockSkew tolerates publishers whose clocks run slightly ahead.
const allowedClockSkew = 24 * time.Hour

// ValidateCleanedArticle validates a CleanedArticle according to domain rules.
// Validation rules:
//   - ArticleID must not be empty
//   - BodyText must not be empty
//
// NOT validated (optional in the source data):
//   - Title, Source, Domain, Category, URL
//   - PubDatetime; future dates are flagged during cleaning, not rejected
func ValidateCleanedArticle(article *CleanedArticle) error {
	if article == nil {
		return fmt.Errorf("%w: article is nil", ErrInvalidArticle)
	}

	if article.ArticleID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArticle, ErrMissingArticleID)
	}

	if article.BodyText == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArticle, ErrEmptyBody)
	}

	return nil
}

// ValidateEmbeddedRecord validates an EmbeddedRecord against the declared dimensionality.
func ValidateEmbeddedRecord(record *EmbeddedRecord, dimensions int) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if err := ValidateCleanedArticle(&record.Article); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	if len(record.Embedding) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyEmbedding)
	}

	if dimensions > 0 && len(record.Embedding) != dimensions {
		return fmt.Errorf("%w: %w: expected %d, got %d",
			ErrInvalidRecord, ErrDimensionMismatch, dimensions, len(record.Embedding))
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future, allowing for skew).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now().Add(allowedClockSkew))
}
