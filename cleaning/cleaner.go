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


package cleaning

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/newsprep/core"
)

const (
	// DefaultMinLength drops articles whose cleaned body is shorter.
	DefaultMinLength = 50

	// DefaultMaxLength flags articles whose cleaned body is longer.
	DefaultMaxLength = 100000
)

// Options controls the tunable cleaning steps.
type Options struct {
	NormalizeNumbers bool
	MinLength        int
	MaxLength        int
}

// DefaultOptions returns the standard cleaning options.
func DefaultOptions() Options {
	return Options{
		MinLength: DefaultMinLength,
		MaxLength: DefaultMaxLength,
	}
}

// Validate checks the options for consistency.
func (o Options) Validate() error {
	if o.MinLength < 0 {
		return fmt.Errorf("%w: MinLength must not be negative", ErrInvalidOptions)
	}
	if o.MaxLength < o.MinLength {
		return fmt.Errorf("%w: MaxLength must be at least MinLength", ErrInvalidOptions)
	}
	return nil
}

// Report counts what happened to each input article.
type Report struct {
	Input      int
	Rejected   int // failed schema enforcement or validation
	TooShort   int
	Duplicates int
	Output     int
	Flagged    int
}

// Removed returns how many input articles did not make it to the output.
func (r Report) Removed() int {
	return r.Input - r.Output
}

// Cleaner applies the cleaning steps to raw articles.
type Cleaner struct {
	opts   Options
	logger *slog.Logger
}

// NewCleaner creates a cleaner. A nil logger uses slog.Default.
func NewCleaner(opts Options, logger *slog.Logger) (*Cleaner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		opts:   opts,
		logger: logger.With("component", "cleaning"),
	}, nil
}

// CleanRecord normalizes title and body, checks length and recomputes flags,
// statistics and fingerprint. Publication times more than a day ahead of the
// clock are kept and flagged. Applying it to its own output is a no-op.
// Returns ErrTooShort when the body is below the minimum length.
func (c *Cleaner) CleanRecord(article core.CleanedArticle) (core.CleanedArticle, error) {
	article.Title = NormalizeTitle(article.Title)
	article.BodyText = NormalizeBody(article.BodyText, c.opts.NormalizeNumbers)
	if article.BodyText == "" {
		return core.CleanedArticle{}, fmt.Errorf("%w: article %s", ErrTooShort, article.ArticleID)
	}

	applyStatistics(&article)

	flags, ok := lengthFlags(article.CharacterCount, c.opts.MinLength, c.opts.MaxLength)
	if !ok {
		return core.CleanedArticle{}, fmt.Errorf("%w: article %s has %d characters",
			ErrTooShort, article.ArticleID, article.CharacterCount)
	}
	if published := article.PublishedAt(); published != nil && !core.IsValidTimestamp(*published) {
		flags = append(flags, core.FlagFutureDated)
	}
	article.Flags = flags
	article.Fingerprint = core.Fingerprint(article.BodyText)
	return article, nil
}

// Clean runs every cleaning step over raw and returns the surviving articles
// in input order. Articles repeating an earlier fingerprint or URL are dropped.
func (c *Cleaner) Clean(raw []core.RawArticle) ([]core.CleanedArticle, Report) {
	report := Report{Input: len(raw)}
	cleaned := make([]core.CleanedArticle, 0, len(raw))
	seenFingerprints := make(map[string]string)
	seenURLs := make(map[string]string)

	for idx, item := range raw {
		article, err := EnforceSchema(item, idx)
		if err != nil {
			report.Rejected++
			c.logger.Debug("article rejected", "index", idx, "err", err)
			continue
		}

		article, err = c.CleanRecord(article)
		if err != nil {
			if errors.Is(err, ErrTooShort) {
				report.TooShort++
			}
			c.logger.Debug("article dropped", "index", idx, "err", err)
			continue
		}
		if err := core.ValidateCleanedArticle(&article); err != nil {
			report.Rejected++
			c.logger.Debug("article rejected", "index", idx, "err", err)
			continue
		}

		if first, dup := seenFingerprints[article.Fingerprint]; dup {
			report.Duplicates++
			c.logger.Debug("duplicate content", "article_id", article.ArticleID, "first", first)
			continue
		}
		if article.URL != "" {
			if first, dup := seenURLs[article.URL]; dup {
				report.Duplicates++
				c.logger.Debug("duplicate url", "article_id", article.ArticleID, "first", first)
				continue
			}
			seenURLs[article.URL] = article.ArticleID
		}
		seenFingerprints[article.Fingerprint] = article.ArticleID

		if len(article.Flags) > 0 {
			report.Flagged++
		}
		cleaned = append(cleaned, article)
	}

	report.Output = len(cleaned)
	c.logger.Info("cleaned articles",
		"input", report.Input,
		"output", report.Output,
		"rejected", report.Rejected,
		"too_short", report.TooShort,
		"duplicates", report.Duplicates)
	return cleaned, report
}
