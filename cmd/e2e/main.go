package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/jusunglee/thaiconv/internal/db/sqlite"
	"github.com/jusunglee/thaiconv/internal/logger"
	"github.com/jusunglee/thaiconv/internal/transliteration"
	"github.com/jusunglee/thaiconv/internal/web"
)

const adminPassword = "e2e-secret"

func main() {
	if err := run(); err != nil {
		slog.Error("E2E FAILED", "error", err)
		os.Exit(1)
	}
	slog.Info("E2E PASSED")
}

func run() error {
	_ = godotenv.Load()

	log := logger.New()
	ctx := context.Background()

	// E2E_BASE_URL points at a running web server; without it one is started
	// in-process over a temporary SQLite database.
	baseURL := os.Getenv("E2E_BASE_URL")
	password := os.Getenv("E2E_ADMIN_PASSWORD")
	if baseURL == "" {
		log.Info("Phase 1: Starting in-process web server...")
		url, stop, err := startServer(ctx, log)
		if err != nil {
			return err
		}
		defer stop()
		baseURL = url
		password = adminPassword
	}
	c := &client{base: strings.TrimRight(baseURL, "/"), http: &http.Client{Timeout: 10 * time.Second}}

	log.Info("Phase 2: Health...", "base_url", c.base)
	var health struct {
		Status     string `json:"status"`
		Dictionary int    `json:"dictionary"`
		Database   bool   `json:"database"`
	}
	if err := c.do(http.MethodGet, "/health", nil, "", http.StatusOK, &health); err != nil {
		return fmt.Errorf("health: %w", err)
	}
	if health.Status != "ok" || health.Dictionary == 0 {
		return fmt.Errorf("health has unexpected state: status=%s dictionary=%d", health.Status, health.Dictionary)
	}
	log.Info("server healthy", "dictionary", health.Dictionary, "database", health.Database)

	log.Info("Phase 3: Converting...")
	cases := []struct {
		text string
		want string
	}{
		{"sawatdii khrap", "สวัสดี ครับ"},
		{"aroi khon baan", "อร่อย คน บ้าน"},
	}
	for _, tc := range cases {
		var resp struct {
			Rendered string `json:"rendered"`
		}
		if err := c.do(http.MethodPost, "/api/v1/convert", map[string]any{"text": tc.text}, "", http.StatusOK, &resp); err != nil {
			return fmt.Errorf("converting %q: %w", tc.text, err)
		}
		if resp.Rendered != tc.want {
			return fmt.Errorf("converting %q: got %q, want %q", tc.text, resp.Rendered, tc.want)
		}
		log.Info("converted", "text", tc.text, "rendered", resp.Rendered)
	}
	if err := c.do(http.MethodPost, "/api/v1/convert", map[string]any{"text": "khon baan", "tone": 3}, "", http.StatusBadRequest, nil); err != nil {
		return fmt.Errorf("tone on a phrase: %w", err)
	}

	log.Info("Phase 4: Suggesting...")
	var sug struct {
		Suggestions []transliteration.Suggestion `json:"suggestions"`
	}
	if err := c.do(http.MethodGet, "/api/v1/suggest?q=khon&limit=5", nil, "", http.StatusOK, &sug); err != nil {
		return fmt.Errorf("suggest: %w", err)
	}
	if len(sug.Suggestions) == 0 || sug.Suggestions[0].Thai != "คน" {
		return fmt.Errorf("suggest has unexpected results: %+v", sug.Suggestions)
	}
	log.Info("suggestions verified", "count", len(sug.Suggestions))

	if !health.Database {
		log.Warn("server has no database, skipping feedback phase")
		return nil
	}

	log.Info("Phase 5: Feedback...")
	var created struct {
		ID  int64  `json:"id"`
		Got string `json:"got"`
	}
	body := map[string]any{"input": "khon", "expected": "คน", "comment": "e2e"}
	if err := c.do(http.MethodPost, "/api/v1/feedback", body, "", http.StatusCreated, &created); err != nil {
		return fmt.Errorf("creating feedback: %w", err)
	}
	if created.Got != "คน" {
		return fmt.Errorf("feedback recorded %q as the conversion", created.Got)
	}
	if password == "" {
		log.Warn("E2E_ADMIN_PASSWORD not set, skipping feedback listing")
		return nil
	}
	var list struct {
		Data []struct {
			ID int64 `json:"id"`
		} `json:"data"`
	}
	if err := c.do(http.MethodGet, "/api/v1/feedback?limit=100", nil, password, http.StatusOK, &list); err != nil {
		return fmt.Errorf("listing feedback: %w", err)
	}
	found := false
	for _, f := range list.Data {
		found = found || f.ID == created.ID
	}
	if !found {
		return fmt.Errorf("feedback %d missing from listing", created.ID)
	}

	log.Info("all verifications passed", "feedback_id", created.ID)
	return nil
}

func startServer(ctx context.Context, log *slog.Logger) (string, func(), error) {
	dbPath := fmt.Sprintf("%s/thaiconv-e2e-%d.db", os.TempDir(), time.Now().UnixNano())
	repo, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp SQLite: %w", err)
	}
	engine, err := transliteration.NewDefault()
	if err != nil {
		repo.Close()
		return "", nil, fmt.Errorf("building engine: %w", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		repo.Close()
		return "", nil, fmt.Errorf("listening: %w", err)
	}
	serverCtx, cancel := context.WithCancel(ctx)
	router := web.NewRouter(engine, repo, log, web.Config{AdminPassword: adminPassword})
	server := &http.Server{Handler: router.Handler(serverCtx), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("e2e server stopped", "error", err)
		}
	}()

	stop := func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
		cancel()
		repo.Close()
		os.Remove(dbPath)
	}
	return "http://" + ln.Addr().String(), stop, nil
}

type client struct {
	base string
	http *http.Client
}

// do sends a request and decodes the response into out when it has the
// wanted status.
func (c *client) do(method, path string, body any, password string, want int, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if password != "" {
		req.SetBasicAuth(envOr("E2E_ADMIN_USER", "admin"), password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return fmt.Errorf("%s %s: status %d, want %d", method, path, resp.StatusCode, want)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
