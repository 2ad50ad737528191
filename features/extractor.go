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


package features

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/poiesic/newsprep/cleaning"
	"github.com/poiesic/newsprep/core"
)

// Feature names, matching the JSON tags of core.Features.
const (
	TokenCount     = "token_count"
	SentenceCount  = "sentence_count"
	PubDatetime    = "pub_datetime"
	SourceCategory = "source_category"
	Domain         = "domain"
	CategoryTag    = "category_tag"
)

// Feature is a named function that sets one field of core.Features.
type Feature struct {
	Name  string
	Apply func(article *core.CleanedArticle, out *core.Features)
}

// Extractor applies an ordered list of features to cleaned articles.
type Extractor struct {
	features []Feature
	logger   *slog.Logger
}

// NewExtractor creates an extractor running features in the given order.
func NewExtractor(features ...Feature) (*Extractor, error) {
	seen := make(map[string]struct{}, len(features))
	for i, f := range features {
		if f.Name == "" || f.Apply == nil {
			return nil, fmt.Errorf("%w: feature %d", ErrInvalidFeature, i)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFeature, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return &Extractor{
		features: append([]Feature(nil), features...),
		logger:   slog.Default().With("component", "features"),
	}, nil
}

// WithLogger routes the extractor's log lines through logger.
func (e *Extractor) WithLogger(logger *slog.Logger) *Extractor {
	if logger != nil {
		e.logger = logger.With("component", "features")
	}
	return e
}

// DefaultExtractor returns an extractor with the six standard features.
func DefaultExtractor() *Extractor {
	e, err := NewExtractor(DefaultFeatures()...)
	if err != nil {
		// the standard set is static
		panic(err)
	}
	return e
}

// DefaultFeatures returns the standard feature functions in output order.
func DefaultFeatures() []Feature {
	return []Feature{
		{Name: TokenCount, Apply: tokenCount},
		{Name: SentenceCount, Apply: sentenceCount},
		{Name: PubDatetime, Apply: pubDatetime},
		{Name: SourceCategory, Apply: sourceCategory},
		{Name: Domain, Apply: domain},
		{Name: CategoryTag, Apply: categoryTag},
	}
}

// Names returns the feature names in application order.
func (e *Extractor) Names() []string {
	names := make([]string, len(e.features))
	for i, f := range e.features {
		names[i] = f.Name
	}
	return names
}

// ExtractOne computes the features of a single article.
func (e *Extractor) ExtractOne(article core.CleanedArticle) core.FeatureRecord {
	var out core.Features
	for _, f := range e.features {
		f.Apply(&article, &out)
	}
	return core.FeatureRecord{Article: article, Features: out}
}

// Extract computes features for every article, preserving order.
func (e *Extractor) Extract(articles []core.CleanedArticle) []core.FeatureRecord {
	records := make([]core.FeatureRecord, len(articles))
	for i, article := range articles {
		records[i] = e.ExtractOne(article)
	}
	e.logger.Debug("extracted features", "records", len(records), "features", len(e.features))
	return records
}

func tokenCount(a *core.CleanedArticle, out *core.Features) {
	out.TokenCount = cleaning.CountTokens(a.BodyText)
}

func sentenceCount(a *core.CleanedArticle, out *core.Features) {
	out.SentenceCount = cleaning.CountSentences(a.BodyText)
}

func pubDatetime(a *core.CleanedArticle, out *core.Features) {
	out.PubDatetime = a.PublishedAt()
}

func sourceCategory(a *core.CleanedArticle, out *core.Features) {
	out.SourceCategory = a.Source
}

func domain(a *core.CleanedArticle, out *core.Features) {
	out.Domain = DomainOf(a.URL)
}

func categoryTag(a *core.CleanedArticle, out *core.Features) {
	if len(a.Category) > 0 {
		out.CategoryTag = a.Category[0]
	}
}

// DomainOf returns the host of rawURL. Without a scheme the first path
// segment is used, so "example.com/news" yields "example.com".
func DomainOf(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if u.Host != "" {
		return u.Host
	}
	segment, _, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	return segment
}
