package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusunglee/thaiconv/internal/db"
	"github.com/jusunglee/thaiconv/internal/db/sqlite"
	"github.com/jusunglee/thaiconv/internal/transliteration"
)

func newTestServer(t *testing.T, repo db.Repository) *httptest.Server {
	t.Helper()
	engine, err := transliteration.NewDefault()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(engine, repo, log, Config{AdminPassword: "secret"})
	srv := httptest.NewServer(router.Handler(ctx))
	t.Cleanup(srv.Close)
	return srv
}

func newTestRepo(t *testing.T) db.Repository {
	t.Helper()
	repo, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

type convertResult struct {
	Results []struct {
		Original string `json:"original"`
		Best     *struct {
			Thai   string `json:"thai"`
			Tone   string `json:"tone"`
			Source string `json:"source"`
		} `json:"best"`
		Error string `json:"error"`
	} `json:"results"`
	Rendered string `json:"rendered"`
}

func TestConvert(t *testing.T) {
	srv := newTestServer(t, nil)

	t.Run("phrase", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/v1/convert", map[string]any{"text": "aroi khon baan"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[convertResult](t, resp)
		assert.Equal(t, "อร่อย คน บ้าน", body.Rendered)
		require.Len(t, body.Results, 3)
		assert.Equal(t, "dictionary", body.Results[0].Best.Source)
	})

	t.Run("invalid word keeps its spelling", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/v1/convert", map[string]any{"text": "aroi kh0n"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[convertResult](t, resp)
		assert.Equal(t, "อร่อย kh0n", body.Rendered)
		require.Len(t, body.Results, 2)
		assert.Nil(t, body.Results[1].Best)
		assert.Contains(t, body.Results[1].Error, "invalid token")
	})

	t.Run("explicit tone", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/v1/convert", map[string]any{"text": "khon", "tone": 3})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decode[convertResult](t, resp)
		require.Len(t, body.Results, 1)
		assert.Equal(t, "คน", body.Results[0].Best.Thai)
		assert.Equal(t, "falling", body.Results[0].Best.Tone)
	})

	tests := []struct {
		name string
		body any
	}{
		{name: "empty text", body: map[string]any{"text": "  "}},
		{name: "tone with two words", body: map[string]any{"text": "khon baan", "tone": 2}},
		{name: "tone out of range", body: map[string]any{"text": "khon", "tone": 6}},
		{name: "not an object", body: []int{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/v1/convert", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, decode[map[string]string](t, resp)["error"])
		})
	}
}

func TestSuggest(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/v1/suggest?q=khon&limit=3")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "public, max-age=300", resp.Header.Get("Cache-Control"))

	body := decode[struct {
		Query       string                       `json:"query"`
		Suggestions []transliteration.Suggestion `json:"suggestions"`
	}](t, resp)
	assert.Equal(t, "khon", body.Query)
	require.Len(t, body.Suggestions, 3)
	assert.Equal(t, "คน", body.Suggestions[0].Thai)
	assert.Equal(t, transliteration.KindConversion, body.Suggestions[0].Kind)

	missing, err := http.Get(srv.URL + "/api/v1/suggest")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusBadRequest, missing.StatusCode)
}

func TestFeedbackWithoutDatabase(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/v1/feedback", map[string]string{"input": "khon", "expected": "ขน"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestFeedback(t *testing.T) {
	repo := newTestRepo(t)
	srv := newTestServer(t, repo)

	resp := postJSON(t, srv.URL+"/api/v1/feedback", map[string]string{
		"input":    "khon",
		"expected": "ขน",
		"comment":  "meant the hair",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[map[string]any](t, resp)
	assert.Equal(t, "khon", created["input"])
	assert.Equal(t, "คน", created["got"])
	assert.Equal(t, "web", created["source"])

	t.Run("rejects romanized expected", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/v1/feedback", map[string]string{"input": "khon", "expected": "khon"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("list requires auth", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/feedback")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("list", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/feedback?limit=10", nil)
		require.NoError(t, err)
		req.SetBasicAuth("admin", "secret")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decode[struct {
			Data []struct {
				Input    string `json:"input"`
				Expected string `json:"expected"`
				Comment  string `json:"comment"`
			} `json:"data"`
			Pagination struct {
				Page  int   `json:"page"`
				Limit int   `json:"limit"`
				Total int64 `json:"total"`
			} `json:"pagination"`
		}](t, resp)
		require.Len(t, body.Data, 1)
		assert.Equal(t, "ขน", body.Data[0].Expected)
		assert.Equal(t, "meant the hair", body.Data[0].Comment)
		assert.Equal(t, 1, body.Pagination.Page)
		assert.Equal(t, 10, body.Pagination.Limit)
		assert.Equal(t, int64(1), body.Pagination.Total)
	})

	t.Run("rejects oversized body", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/v1/feedback", map[string]string{
			"input":    "khon",
			"expected": "ขน",
			"comment":  strings.Repeat("a", 20000),
		})
		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)

		count, err := repo.CountFeedback(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "nothing stored")
	})

	t.Run("accepts fields at their limits", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/v1/feedback", map[string]string{
			"input":    strings.TrimSpace(strings.Repeat("khon ", 40)),
			"expected": strings.Repeat("ก", 200),
			"comment":  strings.Repeat("ข", 500),
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})
}

func TestHealthAndIndex(t *testing.T) {
	srv := newTestServer(t, newTestRepo(t))

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["database"])
	assert.Greater(t, body["dictionary"], float64(100))

	index, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer index.Body.Close()
	assert.Equal(t, http.StatusOK, index.StatusCode)
	html, err := io.ReadAll(index.Body)
	require.NoError(t, err)
	assert.Contains(t, string(html), "/api/v1/convert")

	metrics, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	assert.Equal(t, http.StatusOK, metrics.StatusCode)
}
