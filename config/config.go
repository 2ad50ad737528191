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


// Package config loads the static settings of a pipeline run.
//
// Settings come from three layers, later layers winning: built-in defaults,
// an optional YAML file, and the process environment (after loading a .env
// file). The news API key is only ever read from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/newsprep/ai"
	"github.com/poiesic/newsprep/cleaning"
	"github.com/poiesic/newsprep/dataset"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile is read when Load is called without a path and the file exists.
	DefaultFile = "newsprep.yaml"

	// DefaultEnvFile is loaded into the environment before it is read.
	DefaultEnvFile = ".env"

	EnvAPIKey          = "API_KEY"
	EnvEmbeddingHost   = "EMBEDDING_HOST"
	EnvEmbeddingModel  = "EMBEDDING_MODEL"
	EnvEmbeddingAPIKey = "EMBEDDING_API_KEY"
)

// Configuration validation errors.
var (
	ErrMissingAPIKey    = errors.New("API_KEY not found: create a .env file containing API_KEY=your_api_key_here")
	ErrConfigFile       = errors.New("config file could not be loaded")
	ErrMissingDir       = errors.New("paths.raw_dir, paths.cleaned_dir, paths.output_dir and paths.ledger_dir are required")
	ErrInvalidLength    = errors.New("cleaning.min_length must be non-negative and not exceed cleaning.max_length")
	ErrInvalidFormat    = errors.New("output.format must be one of: parquet, csv, jsonl")
	ErrInvalidLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidTimeout   = errors.New("news.timeout_sec must be at least 1")
	ErrInvalidEmbedding = errors.New("embedding.dimensions and embedding.batch_size must be at least 1")
)

// Config is the complete pipeline configuration.
type Config struct {
	APIKey    string          `yaml:"-"`
	News      NewsConfig      `yaml:"news"`
	Paths     PathsConfig     `yaml:"paths"`
	Cleaning  CleaningConfig  `yaml:"cleaning"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// NewsConfig controls the news API request.
type NewsConfig struct {
	BaseURL     string `yaml:"base_url"`
	Language    string `yaml:"language"`
	Query       string `yaml:"query"`
	Country     string `yaml:"country"`
	FullContent bool   `yaml:"full_content"`
	TimeoutSec  int    `yaml:"timeout_sec"`
}

// PathsConfig names the directories and files a run writes to.
type PathsConfig struct {
	RawDir     string `yaml:"raw_dir"`
	CleanedDir string `yaml:"cleaned_dir"`
	OutputDir  string `yaml:"output_dir"`
	LedgerDir  string `yaml:"ledger_dir"`
	LogFile    string `yaml:"log_file"`
}

// CleaningConfig controls the tunable cleaning steps.
type CleaningConfig struct {
	NormalizeNumbers bool `yaml:"normalize_numbers"`
	MinLength        int  `yaml:"min_length"`
	MaxLength        int  `yaml:"max_length"`
}

// EmbeddingConfig selects the embedding service and model.
type EmbeddingConfig struct {
	Host       string `yaml:"host"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"-"`
	Dimensions int    `yaml:"dimensions"`
	BatchSize  int    `yaml:"batch_size"`
	Normalize  bool   `yaml:"normalize"`
}

// OutputConfig controls the final dataset.
type OutputConfig struct {
	Format string `yaml:"format"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration. APIKey is left empty.
func Default() *Config {
	aiDefaults := ai.DefaultConfig()
	cleanDefaults := cleaning.DefaultOptions()
	return &Config{
		News: NewsConfig{
			Language:   "en",
			TimeoutSec: 30,
		},
		Paths: PathsConfig{
			RawDir:     "data/raw",
			CleanedDir: "data/cleaned",
			OutputDir:  "data/output",
			LedgerDir:  "data/ledger",
			LogFile:    "pipeline.log",
		},
		Cleaning: CleaningConfig{
			NormalizeNumbers: cleanDefaults.NormalizeNumbers,
			MinLength:        cleanDefaults.MinLength,
			MaxLength:        cleanDefaults.MaxLength,
		},
		Embedding: EmbeddingConfig{
			Host:       aiDefaults.EmbeddingHost,
			Model:      aiDefaults.EmbeddingModel,
			Dimensions: aiDefaults.Dimensions,
			BatchSize:  aiDefaults.BatchSize,
		},
		Output:  OutputConfig{Format: string(dataset.DefaultFormat)},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the configuration like Read and validates it.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg, err := Read(path, envFiles...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read builds the configuration from defaults, the YAML file at path and the
// environment without validating it. An empty path reads DefaultFile when it
// exists. envFiles defaults to DefaultEnvFile; missing env files are ignored
// and variables already set in the process are never overridden.
func Read(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfigFile, file, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrConfigFile, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: parsing %s: %w", ErrConfigFile, path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		c.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvEmbeddingHost)); v != "" {
		c.Embedding.Host = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvEmbeddingModel)); v != "" {
		c.Embedding.Model = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvEmbeddingAPIKey)); v != "" {
		c.Embedding.APIKey = v
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if err := c.ValidatePaths(); err != nil {
		return err
	}
	if c.News.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}
	if err := c.CleaningOptions().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLength, err)
	}
	if c.Embedding.Dimensions < 1 || c.Embedding.BatchSize < 1 {
		return ErrInvalidEmbedding
	}
	if _, err := dataset.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// ValidatePaths checks only the data directories. Commands that read local
// state without calling a remote service need nothing more.
func (c *Config) ValidatePaths() error {
	if c.Paths.RawDir == "" || c.Paths.CleanedDir == "" || c.Paths.OutputDir == "" || c.Paths.LedgerDir == "" {
		return ErrMissingDir
	}
	return nil
}

// AIConfig returns the embedding backend configuration.
func (c *Config) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.Embedding.Host),
		ai.WithEmbeddingModel(c.Embedding.Model),
		ai.WithEmbeddingToken(c.Embedding.APIKey),
		ai.WithDimensions(c.Embedding.Dimensions),
		ai.WithBatchSize(c.Embedding.BatchSize),
	)
}

// CleaningOptions returns the options for the cleaning stage.
func (c *Config) CleaningOptions() cleaning.Options {
	return cleaning.Options{
		NormalizeNumbers: c.Cleaning.NormalizeNumbers,
		MinLength:        c.Cleaning.MinLength,
		MaxLength:        c.Cleaning.MaxLength,
	}
}

// OutputFormat returns the dataset format. Validate must have succeeded.
func (c *Config) OutputFormat() dataset.Format {
	format, err := dataset.ParseFormat(c.Output.Format)
	if err != nil {
		return dataset.DefaultFormat
	}
	return format
}

// Timeout returns the news API request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.News.TimeoutSec) * time.Second
}

// ParseLevel converts a level name into a slog.Level.
// An empty name yields slog.LevelInfo.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
	}
}
