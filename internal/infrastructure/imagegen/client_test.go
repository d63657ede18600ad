package imagegen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"z-logo-ai-api/internal/application/workflow"
	"z-logo-ai-api/internal/config"
)

func testConfig(baseURL string) config.ImageGenConfig {
	return config.ImageGenConfig{
		BaseURL:          baseURL,
		APIKey:           "test-key",
		Timeout:          5 * time.Second,
		PollInterval:     time.Millisecond,
		MaxPollAttempts:  10,
		MaxRetries:       2,
		RetryBackoffBase: time.Millisecond,
	}
}

func TestGenerateImageHappyPath(t *testing.T) {
	var submits, polls int32

	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("POST /v1/flux-kontext-pro", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&submits, 1)
		assert.Equal(t, "test-key", r.Header.Get("x-key"))

		var req submitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a logo", req.Prompt)
		assert.Equal(t, "1:1", req.AspectRatio)
		assert.Equal(t, 28, req.Steps)

		_ = json.NewEncoder(w).Encode(submitResponse{
			ID:         "task-1",
			PollingURL: server.URL + "/v1/get_result?id=task-1",
		})
	})
	mux.HandleFunc("GET /v1/get_result", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&polls, 1)
		resp := pollResponse{ID: "task-1", Status: statusPending}
		if n >= 3 {
			resp.Status = statusReady
			resp.Result.Sample = "https://img.example/sample.png"
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	c := NewClient(testConfig(server.URL))
	result, err := c.GenerateImage(context.Background(), workflow.GenerateParams{
		Prompt:      "a logo",
		AspectRatio: "1:1",
		Steps:       28,
		Guidance:    3.0,
	})
	require.NoError(t, err)

	assert.Equal(t, "https://img.example/sample.png", result.ImageURL)
	assert.Equal(t, "task-1", result.RequestID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&submits))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&polls), int32(3))
}

func TestSubmitRetriesWithBackoff(t *testing.T) {
	var submits int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/flux-kontext-pro", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&submits, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(submitResponse{ID: "task-1"})
	})
	mux.HandleFunc("GET /v1/get_result", func(w http.ResponseWriter, _ *http.Request) {
		resp := pollResponse{ID: "task-1", Status: statusReady}
		resp.Result.Sample = "https://img.example/sample.png"
		_ = json.NewEncoder(w).Encode(resp)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := NewClient(testConfig(server.URL))
	result, err := c.GenerateImage(context.Background(), workflow.GenerateParams{Prompt: "a logo"})
	require.NoError(t, err)

	assert.Equal(t, int32(3), atomic.LoadInt32(&submits))
	assert.Equal(t, "https://img.example/sample.png", result.ImageURL)
}

func TestSubmitExhaustsRetries(t *testing.T) {
	var submits int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&submits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient(testConfig(server.URL))
	_, err := c.GenerateImage(context.Background(), workflow.GenerateParams{Prompt: "a logo"})
	require.Error(t, err)

	// MaxRetries=2 意味着最多 3 次提交
	assert.Equal(t, int32(3), atomic.LoadInt32(&submits))
}

func TestPollModerationIsTerminal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/flux-kontext-pro", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(submitResponse{ID: "task-1"})
	})
	var polls int32
	mux.HandleFunc("GET /v1/get_result", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&polls, 1)
		_ = json.NewEncoder(w).Encode(pollResponse{ID: "task-1", Status: statusContentModerated})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := NewClient(testConfig(server.URL))
	_, err := c.GenerateImage(context.Background(), workflow.GenerateParams{Prompt: "a logo"})
	require.Error(t, err)

	assert.Contains(t, err.Error(), "moderation")
	assert.Equal(t, int32(1), atomic.LoadInt32(&polls), "moderation must stop polling immediately")
}

func TestPollExceedsMaxAttempts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/flux-kontext-pro", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(submitResponse{ID: "task-1"})
	})
	var polls int32
	mux.HandleFunc("GET /v1/get_result", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&polls, 1)
		_ = json.NewEncoder(w).Encode(pollResponse{ID: "task-1", Status: statusPending})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.MaxPollAttempts = 4

	c := NewClient(cfg)
	_, err := c.GenerateImage(context.Background(), workflow.GenerateParams{Prompt: "a logo"})
	require.Error(t, err)

	assert.Contains(t, err.Error(), "max attempts")
	assert.Equal(t, int32(4), atomic.LoadInt32(&polls))
}

func TestEditImageRequiresInputImage(t *testing.T) {
	c := NewClient(testConfig("http://unused"))

	_, err := c.EditImage(context.Background(), "", workflow.EditParams{Prompt: "edit"})
	assert.Error(t, err)
}

func TestEditImageSendsStrengthAndImage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/flux-kontext-pro", func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "aW1hZ2U=", req.InputImage)
		assert.InDelta(t, 0.7, req.Strength, 1e-9)

		_ = json.NewEncoder(w).Encode(submitResponse{ID: "task-1"})
	})
	mux.HandleFunc("GET /v1/get_result", func(w http.ResponseWriter, _ *http.Request) {
		resp := pollResponse{ID: "task-1", Status: statusReady}
		resp.Result.Sample = "https://img.example/edited.png"
		_ = json.NewEncoder(w).Encode(resp)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := NewClient(testConfig(server.URL))
	result, err := c.EditImage(context.Background(), "aW1hZ2U=", workflow.EditParams{
		Prompt:   "make it bluer",
		Strength: 0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/edited.png", result.ImageURL)
}

func TestGenerateImageContextCancellation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/flux-kontext-pro", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(submitResponse{ID: "task-1"})
	})
	mux.HandleFunc("GET /v1/get_result", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(pollResponse{ID: "task-1", Status: statusPending})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.PollInterval = 50 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	c := NewClient(cfg)
	_, err := c.GenerateImage(ctx, workflow.GenerateParams{Prompt: "a logo"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
