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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/newsprep"
	"github.com/poiesic/newsprep/config"
	"github.com/poiesic/newsprep/dataset"
	"github.com/poiesic/newsprep/newsdata"
	"github.com/poiesic/newsprep/storage/badger"
	"github.com/urfave/cli/v2"
)

const maxTitleWidth = 60

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		stop()
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "newsprep",
		Usage: "Build a machine learning dataset from the latest news articles",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file (default: " + config.DefaultFile + " when present)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Action: runCommand,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Fetch, clean, embed and write a dataset (default)",
				Action: runCommand,
			},
			{
				Name:   "sources",
				Usage:  "List the news sources available to the API key",
				Action: sourcesCommand,
			},
			{
				Name:      "search",
				Usage:     "Search recent articles by keyword without running the pipeline",
				ArgsUsage: "<keyword>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "language",
						Usage: "Article language (default: news.language from the config)",
					},
				},
			},
			{
				Name:      "inspect",
				Usage:     "Summarize a dataset file written by a run",
				ArgsUsage: "<dataset>",
				Action:    inspectCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "rows",
						Usage: "Number of rows to preview",
						Value: 5,
					},
				},
			},
			{
				Name:   "runs",
				Usage:  "Show recent pipeline runs from the ledger",
				Action: runsCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Number of runs to show (0 for all)",
						Value:   10,
					},
				},
			},
		},
	}
}

// loadConfig reads the configuration and applies command line overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	return cfg, nil
}

// loadLocalConfig reads the configuration for commands that only touch local
// state, so a missing API key does not block them.
func loadLocalConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Read(c.String("config"))
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidatePaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	pipeline, err := newsprep.NewPipeline(cfg,
		newsprep.WithLogOutput(c.App.ErrWriter),
		newsprep.WithProgress(c.App.ErrWriter),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Close()

	result, err := pipeline.Run(c.Context)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	out := c.App.Writer
	fmt.Fprintf(out, "Run %d: %s\n", result.RunID, result.Status)
	fmt.Fprintf(out, "Fetched: %d, cleaned: %d, embedded: %d\n", result.Fetched, result.Cleaned, result.Embedded)
	fmt.Fprintf(out, "Raw: %s\n", result.RawPath)
	fmt.Fprintf(out, "Cleaned: %s\n", result.CleanedPath)
	if result.DatasetPath != "" {
		fmt.Fprintf(out, "Dataset: %s\n", result.DatasetPath)
	}
	return nil
}

func sourcesCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	client, err := newsdata.NewClient(cfg.APIKey,
		newsdata.WithBaseURL(cfg.News.BaseURL),
		newsdata.WithTimeout(cfg.Timeout()),
	)
	if err != nil {
		return err
	}

	resp, err := client.Sources(c.Context)
	if err != nil {
		return fmt.Errorf("listing sources failed: %w", err)
	}

	tbl := newTable(c.App.Writer, "ID", "NAME", "LANGUAGE", "CATEGORY", "URL")
	for _, source := range resp.Results {
		tbl.addRow(
			source.ID,
			source.Name,
			strings.Join(source.Language, ","),
			strings.Join(source.Category, ","),
			source.URL)
	}
	return tbl.render()
}

func searchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one keyword, got %d", c.NArg())
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	client, err := newsdata.NewClient(cfg.APIKey,
		newsdata.WithBaseURL(cfg.News.BaseURL),
		newsdata.WithTimeout(cfg.Timeout()),
	)
	if err != nil {
		return err
	}

	language := c.String("language")
	if language == "" {
		language = cfg.News.Language
	}
	resp, err := client.Search(c.Context, c.Args().First(), language)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Showing %d of %d articles\n\n", len(resp.Results), resp.TotalResults)
	tbl := newTable(c.App.Writer, "ID", "SOURCE", "TITLE", "LINK")
	for _, article := range resp.Results {
		title := article.Title
		if title == "" {
			title = article.Headline
		}
		link := article.Link
		if link == "" {
			link = article.URL
		}
		tbl.addRow(article.ArticleID, article.SourceID, truncate(title, maxTitleWidth), link)
	}
	return tbl.render()
}

func runsCommand(c *cli.Context) error {
	cfg, err := loadLocalConfig(c)
	if err != nil {
		return err
	}

	backend, err := badger.OpenBackend(cfg.Paths.LedgerDir, false)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewRunRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	runs, err := repo.ListRuns(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}

	tbl := newTable(c.App.Writer, "ID", "STARTED", "STATUS", "FETCHED", "CLEANED", "EMBEDDED", "DATASET", "ERROR")
	for _, run := range runs {
		tbl.addRow(
			strconv.FormatUint(uint64(run.Id), 10),
			run.StartedAt.Local().Format(time.DateTime),
			string(run.Status),
			strconv.Itoa(run.Fetched),
			strconv.Itoa(run.Cleaned),
			strconv.Itoa(run.Embedded),
			run.DatasetPath,
			run.Error)
	}
	return tbl.render()
}

func inspectCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one dataset path, got %d", c.NArg())
	}

	rows, err := dataset.Read(c.Args().First())
	if err != nil {
		return err
	}

	out := c.App.Writer
	fmt.Fprintf(out, "Rows: %d\n", len(rows))
	fmt.Fprintf(out, "Columns: %s\n", strings.Join(dataset.Columns, ", "))
	if len(rows) > 0 {
		fmt.Fprintf(out, "Embedding dimensions: %d\n", len(rows[0].Embedding))
	}
	fmt.Fprintln(out)

	tbl := newTable(out, "ID", "PUBLISHED", "DOMAIN", "TOKENS", "TITLE")
	for _, row := range rows[:min(len(rows), max(c.Int("rows"), 0))] {
		published := "-"
		if row.PubDatetime != nil {
			published = time.Unix(*row.PubDatetime, 0).UTC().Format(time.DateTime)
		}
		tbl.addRow(
			row.ArticleID,
			published,
			row.Domain,
			strconv.FormatInt(row.TokenCount, 10),
			truncate(row.Title, maxTitleWidth))
	}
	return tbl.render()
}

// truncate shortens s to at most width runes.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

func setupLogger(c *cli.Context) error {
	level, err := config.ParseLevel(c.String("log-level"))
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
