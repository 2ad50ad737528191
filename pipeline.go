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


package newsprep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/poiesic/newsprep/ai"
	"github.com/poiesic/newsprep/ai/openai"
	"github.com/poiesic/newsprep/cleaning"
	"github.com/poiesic/newsprep/config"
	"github.com/poiesic/newsprep/core"
	"github.com/poiesic/newsprep/dataset"
	"github.com/poiesic/newsprep/embedding"
	"github.com/poiesic/newsprep/features"
	"github.com/poiesic/newsprep/newsdata"
	"github.com/poiesic/newsprep/storage"
	"github.com/poiesic/newsprep/storage/badger"
	"github.com/poiesic/newsprep/storage/files"
)

const datasetPrefix = "dataset"

// Step names used in logs and ledger errors.
const (
	StepFetch        = "fetch"
	StepSaveRaw      = "save_raw"
	StepClean        = "clean"
	StepExtract      = "extract"
	StepEmbed        = "embed"
	StepWriteDataset = "write_dataset"
)

// NewsFetcher retrieves the latest articles from a news API.
type NewsFetcher interface {
	FetchLatest(ctx context.Context, params newsdata.LatestParams) (*newsdata.Response, error)
}

// Result summarizes one pipeline run.
type Result struct {
	RunID       core.ID
	Status      core.RunStatus
	RawPath     string
	CleanedPath string
	DatasetPath string
	Fetched     int
	Cleaned     int
	Embedded    int
	Report      cleaning.Report
	Duration    time.Duration
}

// Pipeline runs the stages in fixed order: fetch, save raw, clean, extract,
// embed and write dataset. It is not safe for concurrent use.
type Pipeline struct {
	cfg        *config.Config
	news       NewsFetcher
	embedder   ai.Embedder
	runs       storage.RunRepository
	cleaner    *cleaning.Cleaner
	extractor  *features.Extractor
	generator  *embedding.Generator
	logger     *slog.Logger
	baseLogger *slog.Logger // untagged, each stage adds its own component
	logOutput  io.Writer
	clock      func() time.Time
	progress   io.Writer

	// closers release resources the pipeline opened itself, in reverse order.
	closers []func() error
	closed  bool
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithEmbedder sets the embedding backend.
// Default is an OpenAI-compatible embedder built from the config.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(p *Pipeline) error {
		p.embedder = embedder
		return nil
	}
}

// WithNewsClient sets the news source.
// Default is a newsdata.Client using the configured API key.
func WithNewsClient(news NewsFetcher) Option {
	return func(p *Pipeline) error {
		p.news = news
		return nil
	}
}

// WithRunRepository sets the run ledger.
// Default is a badger ledger in the configured ledger directory.
func WithRunRepository(runs storage.RunRepository) Option {
	return func(p *Pipeline) error {
		p.runs = runs
		return nil
	}
}

// WithLogger sets a custom logger. The log file is not written when set.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		p.logger = logger
		return nil
	}
}

// WithLogOutput sets where console logs go alongside the log file.
// Default is os.Stderr.
func WithLogOutput(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.logOutput = w
		return nil
	}
}

// WithClock sets the time source used for file names and the ledger.
func WithClock(clock func() time.Time) Option {
	return func(p *Pipeline) error {
		if clock == nil {
			clock = time.Now
		}
		p.clock = clock
		return nil
	}
}

// WithProgress reports embedding progress to w. A nil writer disables it.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.progress = w
		return nil
	}
}

// NewPipeline validates cfg and assembles the stages. Dependencies not
// supplied through options are built from cfg and released by Close.
func NewPipeline(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:       cfg,
		logOutput: os.Stderr,
		clock:     time.Now,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	if err := p.init(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) init() error {
	if p.logger == nil {
		logger, closer, err := newRunLogger(p.cfg, p.logOutput)
		if err != nil {
			return err
		}
		p.logger = logger
		p.own(closer)
	}
	p.baseLogger = p.logger
	p.logger = p.logger.With("component", "pipeline")

	if p.news == nil {
		client, err := newsdata.NewClient(p.cfg.APIKey,
			newsdata.WithBaseURL(p.cfg.News.BaseURL),
			newsdata.WithTimeout(p.cfg.Timeout()),
			newsdata.WithLogger(p.baseLogger),
		)
		if err != nil {
			return err
		}
		p.news = client
	}

	if p.embedder == nil {
		provider, err := openai.NewProvider(p.cfg.AIConfig())
		if err != nil {
			return err
		}
		p.embedder = provider.Embedder()
		p.own(provider.Close)
	}

	if p.runs == nil {
		backend, err := badger.OpenBackend(p.cfg.Paths.LedgerDir, false, badger.WithLogger(p.baseLogger))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrLedgerFailed, err)
		}
		p.own(backend.Close)
		runs, err := badger.NewRunRepository(backend)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrLedgerFailed, err)
		}
		p.runs = runs
		p.own(runs.Close)
	}

	cleaner, err := cleaning.NewCleaner(p.cfg.CleaningOptions(), p.baseLogger)
	if err != nil {
		return err
	}
	p.cleaner = cleaner
	p.extractor = features.DefaultExtractor().WithLogger(p.baseLogger)

	generator, err := embedding.NewGenerator(p.embedder,
		embedding.WithBatchSize(p.cfg.Embedding.BatchSize),
		embedding.WithNormalize(p.cfg.Embedding.Normalize),
		embedding.WithProgress(p.progress),
		embedding.WithLogger(p.baseLogger),
	)
	if err != nil {
		return err
	}
	p.generator = generator
	return nil
}

func (p *Pipeline) own(closer func() error) {
	p.closers = append(p.closers, closer)
}

// Close releases resources the pipeline opened. Injected dependencies are
// left to their owners.
func (p *Pipeline) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	p.closers = nil
	return errors.Join(errs...)
}

// Run executes every stage once. The run is recorded in the ledger as
// running, then as succeeded, empty or failed. A failed run returns the
// partial result along with an error tagged with the failing step.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if p.closed {
		return nil, ErrPipelineClosed
	}

	started := p.clock().UTC()
	run, err := p.runs.AddRun(ctx, &core.Run{
		Status:    core.RunStatusRunning,
		StartedAt: started,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLedgerFailed, err)
	}

	logger := p.logger.With("run_id", run.Id)
	logger.Info("pipeline started")

	result := &Result{RunID: run.Id, Status: core.RunStatusRunning}
	runErr := p.execute(ctx, logger, started, result)
	result.Duration = p.clock().UTC().Sub(started)

	switch {
	case runErr != nil:
		result.Status = core.RunStatusFailed
		logger.Error("pipeline failed", "err", runErr)
	case result.Status == core.RunStatusEmpty:
		logger.Warn("pipeline finished without output", "duration", result.Duration)
	default:
		result.Status = core.RunStatusSucceeded
		logger.Info("pipeline complete",
			"fetched", result.Fetched,
			"cleaned", result.Cleaned,
			"embedded", result.Embedded,
			"dataset", result.DatasetPath,
			"duration", result.Duration)
	}

	// The ledger entry is closed out even when ctx was cancelled.
	if err := p.finish(context.WithoutCancel(ctx), run, result, runErr); err != nil {
		logger.Error("recording run failed", "err", err)
		if runErr == nil {
			runErr = fmt.Errorf("%w: %w", ErrLedgerFailed, err)
		}
	}
	return result, runErr
}

func (p *Pipeline) execute(ctx context.Context, logger *slog.Logger, now time.Time, result *Result) error {
	// fetch
	logger.Info("fetching articles", "step", StepFetch, "language", p.params().Language)
	resp, err := p.news.FetchLatest(ctx, p.params())
	if err != nil {
		return fmt.Errorf("%s: %w: %w", StepFetch, ErrFetchFailed, err)
	}
	result.Fetched = len(resp.Results)
	logger.Info("fetched articles", "step", StepFetch, "count", result.Fetched, "total", resp.TotalResults)

	// save raw
	rawPath, err := files.SaveRaw(p.cfg.Paths.RawDir, resp.Raw, now)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", StepSaveRaw, ErrSaveRawFailed, err)
	}
	result.RawPath = rawPath
	logger.Info("saved raw response", "step", StepSaveRaw, "path", rawPath, "bytes", len(resp.Raw))

	// clean
	cleaned, report := p.cleaner.Clean(resp.Results)
	result.Report = report
	result.Cleaned = len(cleaned)
	cleanedPath, err := files.SaveCleaned(p.cfg.Paths.CleanedDir, cleaned, now)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", StepClean, ErrCleanFailed, err)
	}
	result.CleanedPath = cleanedPath
	logger.Info("cleaned articles", "step", StepClean,
		"input", report.Input,
		"output", report.Output,
		"removed", report.Removed(),
		"path", cleanedPath)

	if len(cleaned) == 0 {
		logger.Warn("no articles survived cleaning, skipping dataset", "step", StepClean)
		result.Status = core.RunStatusEmpty
		return nil
	}

	// extract
	records := p.extractor.Extract(cleaned)
	logger.Info("extracted features", "step", StepExtract,
		"records", len(records), "features", len(p.extractor.Names()))

	// embed
	embedded, err := p.generator.Generate(ctx, records)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", StepEmbed, ErrEmbedFailed, err)
	}
	result.Embedded = len(embedded)
	logger.Info("generated embeddings", "step", StepEmbed,
		"records", len(embedded), "dimensions", p.generator.Dimensions())

	// write dataset
	format := p.cfg.OutputFormat()
	stem, err := files.NextPath(p.cfg.Paths.OutputDir, datasetPrefix, now, dataset.Extensions()...)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", StepWriteDataset, ErrWriteDatasetFailed, err)
	}
	datasetPath, err := dataset.Write(stem, format, embedded, dataset.WithLogger(p.baseLogger))
	if err != nil {
		return fmt.Errorf("%s: %w: %w", StepWriteDataset, ErrWriteDatasetFailed, err)
	}
	result.DatasetPath = datasetPath
	logger.Info("wrote dataset", "step", StepWriteDataset,
		"path", datasetPath, "format", format, "rows", len(embedded))
	return nil
}

func (p *Pipeline) params() newsdata.LatestParams {
	return newsdata.LatestParams{
		Language:    p.cfg.News.Language,
		Query:       p.cfg.News.Query,
		Country:     p.cfg.News.Country,
		FullContent: p.cfg.News.FullContent,
	}
}

func (p *Pipeline) finish(ctx context.Context, run *core.Run, result *Result, runErr error) error {
	run.Status = result.Status
	run.FinishedAt = p.clock().UTC()
	run.RawPath = result.RawPath
	run.CleanedPath = result.CleanedPath
	run.DatasetPath = result.DatasetPath
	run.Fetched = result.Fetched
	run.Cleaned = result.Cleaned
	run.Embedded = result.Embedded
	if runErr != nil {
		run.Error = runErr.Error()
	}
	_, err := p.runs.UpdateRun(ctx, run)
	return err
}
