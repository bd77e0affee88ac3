// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-blog/internal/api"
	"github.com/taibuivan/yomira-blog/internal/platform/config"
	"github.com/taibuivan/yomira-blog/internal/platform/dberr"
	"github.com/taibuivan/yomira-blog/internal/post"
)

var discard = slog.New(slog.NewJSONHandler(io.Discard, nil))

// emptyRepository is a store with no posts.
type emptyRepository struct{}

func (emptyRepository) Create(context.Context, post.NewPost) (*post.Post, error) {
	return nil, errors.New("read only")
}
func (emptyRepository) FindByID(context.Context, string) (*post.Post, error) {
	return nil, dberr.ErrNotFound
}
func (emptyRepository) FindBySlug(context.Context, string) (*post.Post, error) {
	return nil, dberr.ErrNotFound
}
func (emptyRepository) FindMany(context.Context, post.Query) ([]*post.Post, error) { return nil, nil }
func (emptyRepository) Count(context.Context, post.Predicate) (int, error)         { return 0, nil }
func (emptyRepository) Update(context.Context, string, post.Changes) (*post.Post, error) {
	return nil, dberr.ErrNotFound
}
func (emptyRepository) Delete(context.Context, string) error { return dberr.ErrNotFound }
func (emptyRepository) IncrementViewCount(context.Context, string, int) (*post.Post, error) {
	return nil, dberr.ErrNotFound
}

func newTestRouter(t *testing.T, deps api.HealthDependencies) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	liveness, readiness := api.NewHealthHandlers(deps, discard)
	cfg := &config.Config{ServerPort: "0", Environment: "test"}

	server := api.NewServer(ctx, cfg, discard, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Post:      post.NewHandler(post.NewService(emptyRepository{}, discard)),
	})
	return server.Handler()
}

func get(t *testing.T, handler http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	if recorder.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	}
	return recorder, body
}

/*
TestServer_Routes checks infra endpoints, the mounted API and the 404 envelope.
*/
func TestServer_Routes(t *testing.T) {
	router := newTestRouter(t, api.HealthDependencies{})

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"info", "/", http.StatusOK},
		{"liveness", "/health", http.StatusOK},
		{"readiness_without_deps", "/ready", http.StatusOK},
		{"posts_list", "/api/posts", http.StatusOK},
		{"post_missing", "/api/posts/0190f1c2-0000-7000-8000-000000000000", http.StatusNotFound},
		{"unknown_route", "/api/nothing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, _ := get(t, router, tt.path)
			assert.Equal(t, tt.status, recorder.Code)
			assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
		})
	}

	recorder, _ := get(t, router, "/metrics")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "yomira_blog_http_requests_total")
}

/*
TestServer_Readiness reports 503 with per-dependency results when a check fails.
*/
func TestServer_Readiness(t *testing.T) {
	router := newTestRouter(t, api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
		CheckCache:    func(context.Context) error { return errors.New("redis: ping failed") },
	})

	recorder, body := get(t, router, "/ready")

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Equal(t, false, body["success"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "degraded", data["status"])
	checks := data["checks"].([]any)
	require.Len(t, checks, 2)
	assert.Equal(t, true, checks[0].(map[string]any)["ok"])
	assert.Equal(t, false, checks[1].(map[string]any)["ok"])
}
