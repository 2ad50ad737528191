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
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/newsprep/ai"
	"github.com/poiesic/newsprep/core"
)

// DefaultBatchSize matches the batch size of the reference embedding model.
const DefaultBatchSize = 32

// Generator embeds feature records in batches.
type Generator struct {
	embedder  ai.Embedder
	batchSize int
	normalize bool
	progress  io.Writer
	logger    *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithBatchSize sets how many texts are sent to the embedder per call.
func WithBatchSize(size int) Option {
	return func(g *Generator) {
		g.batchSize = size
	}
}

// WithNormalize scales every vector to unit length.
func WithNormalize(normalize bool) Option {
	return func(g *Generator) {
		g.normalize = normalize
	}
}

// WithProgress reports progress to w. A nil writer disables reporting.
func WithProgress(w io.Writer) Option {
	return func(g *Generator) {
		g.progress = w
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates a generator around embedder.
func NewGenerator(embedder ai.Embedder, opts ...Option) (*Generator, error) {
	if embedder == nil {
		return nil, ErrNoEmbedder
	}
	g := &Generator{
		embedder:  embedder,
		batchSize: DefaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.batchSize < 1 {
		return nil, ErrInvalidBatchSize
	}
	if embedder.Dimensions() < 1 {
		return nil, ErrInvalidDimensions
	}
	g.logger = g.logger.With("component", "embedding")
	return g, nil
}

// Dimensions returns the vector length every record will carry.
func (g *Generator) Dimensions() int {
	return g.embedder.Dimensions()
}

// Generate embeds the body text of each record and returns the records with
// their vectors attached, in input order. The first failing batch aborts the
// whole call.
func (g *Generator) Generate(ctx context.Context, records []core.FeatureRecord) ([]core.EmbeddedRecord, error) {
	out := make([]core.EmbeddedRecord, 0, len(records))
	if len(records) == 0 {
		return out, nil
	}

	dims := g.embedder.Dimensions()
	progress := newBatchProgress(g.progress, len(records), g.batchSize)

	g.logger.Info("generating embeddings", "records", len(records),
		"batch_size", g.batchSize, "dimensions", dims)

	for start := 0; start < len(records); start += g.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(start+g.batchSize, len(records))
		batch := records[start:end]

		texts := make([]string, len(batch))
		for i, record := range batch {
			texts[i] = record.Article.BodyText
		}

		vectors, err := g.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			g.logger.Error("embedding batch failed", "start", start, "size", len(batch), "err", err)
			return nil, fmt.Errorf("%w: batch starting at %d: %w", ErrEmbeddingFailed, start, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrCountMismatch, len(batch), len(vectors))
		}

		for i, record := range batch {
			vector := vectors[i]
			if g.normalize {
				vector = NormalizeVector(vector)
			}
			embedded := core.EmbeddedRecord{FeatureRecord: record, Embedding: vector}
			if err := core.ValidateEmbeddedRecord(&embedded, dims); err != nil {
				return nil, fmt.Errorf("article %s: %w", record.Article.ArticleID, err)
			}
			out = append(out, embedded)
		}
		progress.batchDone(len(batch))
	}

	g.logger.Info("generated embeddings", "records", len(out))
	return out, nil
}
