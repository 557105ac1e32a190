package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/imagedrop/service/internal/config"
	"github.com/imagedrop/service/internal/upload"
)

// stubStore is a minimal ObjectStore for routing tests.
type stubStore struct{}

func (stubStore) EnsureBucket(ctx context.Context) error { return nil }

func (stubStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return nil
}

func (stubStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://store.local/images/" + key, nil
}

func (stubStore) PublicURL(key string) string { return "https://store.local/images/" + key }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Greeting:     "hello world",
		URLPolicy:    config.URLPolicySigned,
		SignedURLTTL: time.Hour,
	}
	svc := upload.NewService(stubStore{}, cfg, zerolog.Nop())
	return NewRouter(cfg, upload.NewHandler(svc, zerolog.Nop()), zerolog.Nop())
}

func TestGreetingRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.OK {
		t.Error("ok flag not set")
	}
	if body.Message != "hello world" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestHealthRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != "healthy" {
		t.Errorf("body = %q, want the literal %q", got, "healthy")
	}
}

func TestMetricsRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("go_goroutines")) {
		t.Error("expected prometheus output")
	}
}

func TestUploadRouteIsWired(t *testing.T) {
	// Method routing only; the handler itself is covered in the upload package.
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/upload-image", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /upload-image status = %d, want 405", rec.Code)
	}
}
