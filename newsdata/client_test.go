package newsdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const latestBody = `{"status":"success","totalResults":1,"results":[{"article_id":"a1","title":"Rates &amp; Markets","description":"Stocks rose.","content":"ONLY AVAILABLE IN PAID PLANS","link":"https://www.example.com/markets/1","pubDate":"2025-01-15 10:30:00","source_id":"example","category":["business"]}],"nextPage":"cursor-2"}`

func newTestServer(t *testing.T, status int, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient("")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestFetchLatest(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	srv := newTestServer(t, http.StatusOK, latestBody, func(r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
	})

	client, err := NewClient("secret", WithBaseURL(srv.URL))
	require.NoError(t, err)

	resp, err := client.FetchLatest(context.Background(), LatestParams{})
	require.NoError(t, err)

	assert.Equal(t, "/api/1/latest", gotPath)
	assert.Equal(t, []string{"secret"}, gotQuery["apikey"])
	assert.Equal(t, []string{"en"}, gotQuery["language"])
	assert.NotContains(t, gotQuery, "full_content")
	assert.NotContains(t, gotQuery, "page")
	assert.NotContains(t, gotQuery, "q")

	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 1, resp.TotalResults)
	assert.Equal(t, "cursor-2", resp.NextPage)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "a1", resp.Results[0].ArticleID)
	assert.Equal(t, []string{"business"}, []string(resp.Results[0].Category))
	assert.Equal(t, []byte(latestBody), resp.Raw)

	payload := resp.Payload()
	assert.Equal(t, resp.Results, payload.Results)
}

func TestFetchLatest_OptionalParams(t *testing.T) {
	var gotQuery map[string][]string
	srv := newTestServer(t, http.StatusOK, latestBody, func(r *http.Request) {
		gotQuery = r.URL.Query()
	})
	client, err := NewClient("secret", WithBaseURL(srv.URL+"/"))
	require.NoError(t, err)

	_, err = client.FetchLatest(context.Background(), LatestParams{
		Language:    "fr",
		Query:       "climate",
		Country:     "fr",
		Page:        "cursor-2",
		FullContent: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"fr"}, gotQuery["language"])
	assert.Equal(t, []string{"climate"}, gotQuery["q"])
	assert.Equal(t, []string{"fr"}, gotQuery["country"])
	assert.Equal(t, []string{"cursor-2"}, gotQuery["page"])
	assert.Equal(t, []string{"1"}, gotQuery["full_content"])
}

func TestFetchLatest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{
			name:    "http error status",
			status:  http.StatusUnauthorized,
			body:    `{"status":"error"}`,
			wantErr: ErrRequestFailed,
			wantMsg: "401",
		},
		{
			name:    "api error status",
			status:  http.StatusOK,
			body:    `{"status":"error","results":{"message":"API key invalid","code":"Unauthorized"}}`,
			wantErr: ErrAPIError,
			wantMsg: "API key invalid",
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `{"status":`,
			wantErr: ErrMalformedResponse,
		},
		{
			name:    "results not a list",
			status:  http.StatusOK,
			body:    `{"status":"success","results":"nope"}`,
			wantErr: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.body, nil)
			client, err := NewClient("secret", WithBaseURL(srv.URL))
			require.NoError(t, err)

			_, err = client.FetchLatest(context.Background(), LatestParams{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestFetchLatest_NoRetry(t *testing.T) {
	calls := 0
	srv := newTestServer(t, http.StatusInternalServerError, "boom", func(r *http.Request) {
		calls++
	})
	client, err := NewClient("secret", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = client.FetchLatest(context.Background(), LatestParams{})
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Equal(t, 1, calls)
}

func TestFetchLatest_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(latestBody))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient("secret", WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	_, err = client.FetchLatest(context.Background(), LatestParams{})
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestNewClient_HTTPClientOptions(t *testing.T) {
	t.Run("timeout leaves an injected client alone", func(t *testing.T) {
		injected := &http.Client{Timeout: 5 * time.Second}

		client, err := NewClient("secret", WithTimeout(time.Second), WithHTTPClient(injected))
		require.NoError(t, err)

		assert.Same(t, injected, client.httpClient)
		assert.Equal(t, 5*time.Second, injected.Timeout)
	})

	t.Run("timeout after a nil client", func(t *testing.T) {
		var client *Client
		var err error
		require.NotPanics(t, func() {
			client, err = NewClient("secret", WithHTTPClient(nil), WithTimeout(time.Second))
		})
		require.NoError(t, err)
		require.NotNil(t, client.httpClient)
		assert.Equal(t, time.Second, client.httpClient.Timeout)
	})

	t.Run("default timeout", func(t *testing.T) {
		client, err := NewClient("secret")
		require.NoError(t, err)
		assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
	})
}

func TestSearch(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	srv := newTestServer(t, http.StatusOK, latestBody, func(r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
	})
	client, err := NewClient("secret", WithBaseURL(srv.URL))
	require.NoError(t, err)

	resp, err := client.Search(context.Background(), "elections", "")
	require.NoError(t, err)

	assert.Equal(t, "/api/1/search", gotPath)
	assert.Equal(t, []string{"elections"}, gotQuery["q"])
	assert.Equal(t, []string{"en"}, gotQuery["language"])
	assert.Len(t, resp.Results, 1)
}

func TestSources(t *testing.T) {
	body := `{"status":"success","totalResults":2,"results":[{"id":"bbc","name":"BBC","url":"https://www.bbc.co.uk","category":["top","world"],"language":["english"],"country":["united kingdom"]},{"id":"reuters","name":"Reuters","url":"https://www.reuters.com","category":"business"}]}`
	var gotPath string
	srv := newTestServer(t, http.StatusOK, body, func(r *http.Request) {
		gotPath = r.URL.Path
	})
	client, err := NewClient("secret", WithBaseURL(srv.URL))
	require.NoError(t, err)

	resp, err := client.Sources(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/api/1/sources", gotPath)
	assert.Equal(t, 2, resp.TotalResults)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "BBC", resp.Results[0].Name)
	assert.Equal(t, []string{"top", "world"}, []string(resp.Results[0].Category))
	assert.Equal(t, []string{"business"}, []string(resp.Results[1].Category))
	assert.Equal(t, []byte(body), resp.Raw)
}
