package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/newsprep/core"
	"github.com/poiesic/newsprep/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const sourcesBody = `{"status":"success","totalResults":2,"results":[{"id":"bbc","name":"BBC News","url":"https://www.bbc.co.uk","category":["top","world"],"language":["english"],"country":["united kingdom"]},{"id":"reuters","name":"Reuters","url":"https://www.reuters.com","category":"business","language":"english"}]}`

// setupWorkspace creates a working directory with a config file pointing at
// newsURL and an API key in the environment.
func setupWorkspace(t *testing.T, newsURL string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("API_KEY", "test-key")

	cfg := "news:\n" +
		"  base_url: " + newsURL + "\n" +
		"paths:\n" +
		"  raw_dir: data/raw\n" +
		"  cleaned_dir: data/cleaned\n" +
		"  output_dir: data/output\n" +
		"  ledger_dir: data/ledger\n" +
		"  log_file: pipeline.log\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "newsprep.yaml"), []byte(cfg), 0644))
	return dir
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.RunContext(context.Background(), append([]string{"newsprep"}, args...))
	return out.String(), err
}

func findFlag(flags []cli.Flag, name string) cli.Flag {
	for _, flag := range flags {
		for _, n := range flag.Names() {
			if n == name {
				return flag
			}
		}
	}
	return nil
}

func TestAppFlags(t *testing.T) {
	app := newApp()

	t.Run("log-level defaults to info", func(t *testing.T) {
		flag, ok := findFlag(app.Flags, "log-level").(*cli.StringFlag)
		require.True(t, ok)
		assert.Equal(t, "info", flag.Value)
		assert.Contains(t, flag.Aliases, "l")
	})

	t.Run("config has no default path", func(t *testing.T) {
		flag, ok := findFlag(app.Flags, "config").(*cli.StringFlag)
		require.True(t, ok)
		assert.Empty(t, flag.Value)
		assert.False(t, flag.Required)
	})

	t.Run("runs without arguments", func(t *testing.T) {
		assert.NotNil(t, app.Action)
	})

	t.Run("subcommands", func(t *testing.T) {
		var names []string
		for _, cmd := range app.Commands {
			names = append(names, cmd.Name)
		}
		assert.ElementsMatch(t, []string{"run", "sources", "search", "inspect", "runs"}, names)
	})
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := runApp(t, "--log-level", "loud", "runs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestMissingAPIKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_KEY", "")

	_, err := runApp(t, "sources")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_KEY")
}

func TestRunsCommand_WithoutAPIKey(t *testing.T) {
	setupWorkspace(t, "http://127.0.0.1:0")
	t.Setenv("API_KEY", "")

	out, err := runApp(t, "runs")
	require.NoError(t, err)
	assert.Contains(t, out, "STATUS")
}

func TestMissingConfigFile(t *testing.T) {
	setupWorkspace(t, "http://127.0.0.1:0")

	_, err := runApp(t, "--config", "missing.yaml", "runs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file")
}

func TestSourcesCommand(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(sourcesBody))
	}))
	defer srv.Close()
	setupWorkspace(t, srv.URL)

	out, err := runApp(t, "sources")
	require.NoError(t, err)

	assert.Equal(t, "/api/1/sources", gotPath)
	assert.Contains(t, out, "BBC News")
	assert.Contains(t, out, "top,world")
	assert.Contains(t, out, "reuters")
}

func TestSearchCommand(t *testing.T) {
	const searchBody = `{"status":"success","totalResults":7,"results":[{"article_id":"s1","title":"Election results roll in","link":"https://www.example.com/politics/1","source_id":"example"}]}`
	var gotPath string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(searchBody))
	}))
	defer srv.Close()
	setupWorkspace(t, srv.URL)

	out, err := runApp(t, "search", "--language", "fr", "elections")
	require.NoError(t, err)

	assert.Equal(t, "/api/1/search", gotPath)
	assert.Equal(t, []string{"elections"}, gotQuery["q"])
	assert.Equal(t, []string{"fr"}, gotQuery["language"])
	assert.Contains(t, out, "Showing 1 of 7 articles")
	assert.Contains(t, out, "Election results roll in")
	assert.Contains(t, out, "https://www.example.com/politics/1")
}

func TestSearchCommand_RequiresKeyword(t *testing.T) {
	_, err := runApp(t, "search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyword")
}

func TestRunsCommand_Empty(t *testing.T) {
	setupWorkspace(t, "http://127.0.0.1:0")

	out, err := runApp(t, "runs")
	require.NoError(t, err)
	assert.Contains(t, out, "STATUS")
}

func TestDefaultAction_RecordsFailedRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()
	dir := setupWorkspace(t, srv.URL)

	_, err := runApp(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch")

	logData, readErr := os.ReadFile(filepath.Join(dir, "pipeline.log"))
	require.NoError(t, readErr)
	assert.Contains(t, string(logData), "pipeline failed")

	out, err := runApp(t, "runs", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "502")
}

func TestInspectCommand(t *testing.T) {
	ts := int64(1736937000)
	records := []core.EmbeddedRecord{
		{
			FeatureRecord: core.FeatureRecord{
				Article: core.CleanedArticle{
					ArticleID:   "a1",
					Title:       "markets rally as inflation cools and investors pile back into equities worldwide",
					BodyText:    "stocks rose sharply on wednesday.",
					PubDatetime: &ts,
				},
				Features: core.Features{TokenCount: 5, Domain: "example.com"},
			},
			Embedding: []float32{0.1, 0.2, 0.3},
		},
	}
	path, err := dataset.Write(filepath.Join(t.TempDir(), "dataset"), dataset.FormatJSONL, records)
	require.NoError(t, err)

	out, err := runApp(t, "inspect", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Rows: 1")
	assert.Contains(t, out, "Embedding dimensions: 3")
	assert.Contains(t, out, "example.com")
	assert.Contains(t, out, "...")
}

func TestInspectCommand_RequiresPath(t *testing.T) {
	_, err := runApp(t, "inspect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset path")
}
