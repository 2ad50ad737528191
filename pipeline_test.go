package newsprep

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/newsprep/ai/mock"
	"github.com/poiesic/newsprep/config"
	"github.com/poiesic/newsprep/core"
	"github.com/poiesic/newsprep/dataset"
	"github.com/poiesic/newsprep/storage"
	"github.com/poiesic/newsprep/storage/badger"
	"github.com/poiesic/newsprep/storage/files"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDimensions = 16

const oneArticleBody = `{"status":"success","totalResults":1,"results":[{"article_id":"a1","title":"Markets  rally","description":"Stocks rose sharply on Wednesday as investors cheered new inflation figures.","content":"Analysts expect the central bank to hold rates steady next month.","link":"https://www.example.com/markets/1","pubDate":"2025-01-15 10:30:00","source_id":"example","category":["business"]}],"nextPage":"cursor-2"}`

const paywalledBody = `{"status":"success","totalResults":1,"results":[{"article_id":"p1","title":"Paywalled","content":"ONLY AVAILABLE IN PAID PLANS","link":"https://www.example.com/paid/1"}]}`

var testClock = func() time.Time {
	return time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
}

type fixture struct {
	cfg      *config.Config
	embedder *mock.MockEmbedder
	runs     storage.RunRepository
	server   *httptest.Server
}

func newFixture(t *testing.T, status int, body string) *fixture {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	runs, backend, err := badger.NewMemoryRunRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		runs.Close()
		backend.Close()
	})

	dir := t.TempDir()
	cfg := config.Default()
	cfg.APIKey = "test-key"
	cfg.News.BaseURL = server.URL
	cfg.Paths.RawDir = filepath.Join(dir, "raw")
	cfg.Paths.CleanedDir = filepath.Join(dir, "cleaned")
	cfg.Paths.OutputDir = filepath.Join(dir, "output")
	cfg.Paths.LedgerDir = filepath.Join(dir, "ledger")
	cfg.Paths.LogFile = filepath.Join(dir, "pipeline.log")
	cfg.Embedding.Dimensions = testDimensions

	return &fixture{
		cfg:      cfg,
		embedder: mock.NewMockEmbedderWithDimensions(testDimensions),
		runs:     runs,
		server:   server,
	}
}

func (f *fixture) pipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	base := []Option{
		WithEmbedder(f.embedder),
		WithRunRepository(f.runs),
		WithClock(testClock),
		WithLogOutput(io.Discard),
	}
	p, err := NewPipeline(f.cfg, append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestNewPipeline_RequiresConfig(t *testing.T) {
	_, err := NewPipeline(nil)
	assert.ErrorIs(t, err, ErrConfigRequired)
}

func TestNewPipeline_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	_, err := NewPipeline(cfg)
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestPipelineRun_EndToEnd(t *testing.T) {
	f := newFixture(t, http.StatusOK, oneArticleBody)
	p := f.pipeline(t)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, core.RunStatusSucceeded, result.Status)
	assert.Equal(t, 1, result.Fetched)
	assert.Equal(t, 1, result.Cleaned)
	assert.Equal(t, 1, result.Embedded)

	// raw response stored byte for byte
	assert.Equal(t, filepath.Join(f.cfg.Paths.RawDir, "raw_20250115_01.json"), result.RawPath)
	raw, err := os.ReadFile(result.RawPath)
	require.NoError(t, err)
	assert.Equal(t, oneArticleBody, string(raw))

	cleaned, err := files.LoadCleaned(result.CleanedPath)
	require.NoError(t, err)
	require.Len(t, cleaned, 1)
	assert.Equal(t, "markets rally", cleaned[0].Title)

	assert.Equal(t, filepath.Join(f.cfg.Paths.OutputDir, "dataset_20250115_01.parquet"), result.DatasetPath)
	rows, err := dataset.Read(result.DatasetPath)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "a1", row.ArticleID)
	assert.NotEmpty(t, row.CleanedText)
	assert.Positive(t, row.TokenCount)
	assert.Positive(t, row.SentenceCount)
	assert.NotEmpty(t, row.Domain)
	require.NotNil(t, row.PubDatetime)
	assert.Len(t, row.Embedding, testDimensions)

	stored, err := f.runs.GetRun(context.Background(), result.RunID)
	require.NoError(t, err)
	assert.Equal(t, core.RunStatusSucceeded, stored.Status)
	assert.Equal(t, result.DatasetPath, stored.DatasetPath)
	assert.Equal(t, 1, stored.Embedded)
	assert.Empty(t, stored.Error)
	assert.True(t, testClock().Equal(stored.StartedAt))

	logData, err := os.ReadFile(f.cfg.Paths.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(logData), "pipeline complete")
	assert.Contains(t, string(logData), "component=pipeline")
}

func TestPipelineRun_OutputFormats(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"parquet", ".parquet"},
		{"csv", ".csv"},
		{"jsonl", ".jsonl"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f := newFixture(t, http.StatusOK, oneArticleBody)
			f.cfg.Output.Format = tt.format
			p := f.pipeline(t)

			result, err := p.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.ext, filepath.Ext(result.DatasetPath))

			rows, err := dataset.Read(result.DatasetPath)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Len(t, rows[0].Embedding, testDimensions)
		})
	}
}

func TestPipelineRun_NoSurvivors(t *testing.T) {
	f := newFixture(t, http.StatusOK, paywalledBody)
	p := f.pipeline(t)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, core.RunStatusEmpty, result.Status)
	assert.Equal(t, 1, result.Fetched)
	assert.Zero(t, result.Cleaned)
	assert.Empty(t, result.DatasetPath)
	assert.Zero(t, f.embedder.CallCount())

	data, err := os.ReadFile(result.CleanedPath)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	_, err = os.Stat(f.cfg.Paths.OutputDir)
	assert.True(t, os.IsNotExist(err))

	stored, err := f.runs.GetRun(context.Background(), result.RunID)
	require.NoError(t, err)
	assert.Equal(t, core.RunStatusEmpty, stored.Status)
}

func TestPipelineRun_FetchError(t *testing.T) {
	f := newFixture(t, http.StatusUnauthorized, `{"status":"error","results":{"message":"invalid key"}}`)
	p := f.pipeline(t)

	result, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, core.RunStatusFailed, result.Status)
	assert.Empty(t, result.RawPath)

	_, statErr := os.Stat(f.cfg.Paths.RawDir)
	assert.True(t, os.IsNotExist(statErr))

	stored, getErr := f.runs.GetRun(context.Background(), result.RunID)
	require.NoError(t, getErr)
	assert.Equal(t, core.RunStatusFailed, stored.Status)
	assert.Contains(t, stored.Error, "fetch:")
}

func TestPipelineRun_EmbedError(t *testing.T) {
	f := newFixture(t, http.StatusOK, oneArticleBody)
	f.embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding service unavailable")
	}
	p := f.pipeline(t)

	result, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmbedFailed)
	assert.Contains(t, err.Error(), "embed:")

	assert.NotEmpty(t, result.RawPath)
	assert.NotEmpty(t, result.CleanedPath)
	assert.Empty(t, result.DatasetPath)

	stored, getErr := f.runs.GetRun(context.Background(), result.RunID)
	require.NoError(t, getErr)
	assert.Equal(t, core.RunStatusFailed, stored.Status)
	assert.Contains(t, stored.Error, "embedding service unavailable")
}

func TestPipelineRun_CancelledContext(t *testing.T) {
	f := newFixture(t, http.StatusOK, oneArticleBody)
	p := f.pipeline(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := p.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	stored, getErr := f.runs.GetRun(context.Background(), result.RunID)
	require.NoError(t, getErr)
	assert.Equal(t, core.RunStatusFailed, stored.Status)
}

func TestPipelineRun_SequentialFileNames(t *testing.T) {
	f := newFixture(t, http.StatusOK, oneArticleBody)
	p := f.pipeline(t)

	first, err := p.Run(context.Background())
	require.NoError(t, err)
	second, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "raw_20250115_01.json", filepath.Base(first.RawPath))
	assert.Equal(t, "raw_20250115_02.json", filepath.Base(second.RawPath))
	assert.Equal(t, "dataset_20250115_02.parquet", filepath.Base(second.DatasetPath))
	assert.Greater(t, second.RunID, first.RunID)

	runs, err := f.runs.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.RunID, runs[0].Id)
}

func TestPipelineRun_AfterClose(t *testing.T) {
	f := newFixture(t, http.StatusOK, oneArticleBody)
	p := f.pipeline(t)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, err := p.Run(context.Background())
	assert.ErrorIs(t, err, ErrPipelineClosed)
}

func TestPipeline_OwnsLedger(t *testing.T) {
	f := newFixture(t, http.StatusOK, oneArticleBody)
	p, err := NewPipeline(f.cfg,
		WithEmbedder(f.embedder),
		WithClock(testClock),
		WithLogOutput(io.Discard),
	)
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, p.Close())

	backend, err := badger.OpenBackend(f.cfg.Paths.LedgerDir, false)
	require.NoError(t, err)
	defer backend.Close()
	runs, err := badger.NewRunRepository(backend)
	require.NoError(t, err)
	defer runs.Close()

	stored, err := runs.GetRun(context.Background(), result.RunID)
	require.NoError(t, err)
	assert.Equal(t, core.RunStatusSucceeded, stored.Status)
}

func TestPipelineRun_StageLogsReachLogFile(t *testing.T) {
	f := newFixture(t, http.StatusOK, oneArticleBody)
	f.cfg.Logging.Level = "debug"
	p, err := NewPipeline(f.cfg,
		WithEmbedder(f.embedder),
		WithClock(testClock),
		WithLogOutput(io.Discard),
	)
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, p.Close())

	data, err := os.ReadFile(f.cfg.Paths.LogFile)
	require.NoError(t, err)
	logText := string(data)

	for _, component := range []string{"pipeline", "newsdata", "cleaning", "features", "embedding", "dataset", "ledger"} {
		assert.Contains(t, logText, "component="+component)
	}
	assert.NotContains(t, logText, "component=pipeline component=")
}
