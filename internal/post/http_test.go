// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-blog/internal/post"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
	Pagination *struct {
		Page       int  `json:"page"`
		Total      int  `json:"total"`
		TotalPages int  `json:"totalPages"`
		HasNext    bool `json:"hasNext"`
	} `json:"pagination"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	service, _ := newService()

	router := chi.NewRouter()
	router.Mount("/api/posts", post.NewHandler(service).Routes())

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func call(t *testing.T, server *httptest.Server, method, path, body string) (int, envelope) {
	t.Helper()

	request, err := http.NewRequest(method, server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")

	response, err := server.Client().Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	var decoded envelope
	require.NoError(t, json.NewDecoder(response.Body).Decode(&decoded))
	return response.StatusCode, decoded
}

func decodePost(t *testing.T, raw json.RawMessage) post.Post {
	t.Helper()
	var decoded post.Post
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return decoded
}

func createVia(t *testing.T, server *httptest.Server, body string) post.Post {
	t.Helper()
	status, response := call(t, server, http.MethodPost, "/api/posts", body)
	require.Equal(t, http.StatusCreated, status, response.Error)
	return decodePost(t, response.Data)
}

/*
TestHandler_Create covers the success envelope and boundary validation.
*/
func TestHandler_Create(t *testing.T) {
	server := newTestServer(t)

	t.Run("created", func(t *testing.T) {
		status, response := call(t, server, http.MethodPost, "/api/posts",
			`{"title":"Hello World!!!","content":"This is the first post."}`)

		assert.Equal(t, http.StatusCreated, status)
		assert.True(t, response.Success)
		assert.Equal(t, "Post created successfully", response.Message)

		created := decodePost(t, response.Data)
		assert.Equal(t, "hello-world", created.Slug)
		assert.Nil(t, created.Excerpt)
		assert.Contains(t, string(response.Data), `"excerpt":null`)
		assert.Contains(t, string(response.Data), `"viewCount":0`)
	})

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"short_title", `{"title":"Hi","content":"Long enough content."}`, "title"},
		{"short_content", `{"title":"Hello","content":"short"}`, "content"},
		{"long_excerpt", `{"title":"Hello","content":"Long enough content.","excerpt":"` + strings.Repeat("x", 301) + `"}`, "excerpt"},
		{"bad_slug", `{"title":"Hello","content":"Long enough content.","slug":"Not Valid"}`, "slug"},
		{"underivable_slug", `{"title":"!!!???","content":"Long enough content."}`, "slug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, response := call(t, server, http.MethodPost, "/api/posts", tt.body)

			assert.Equal(t, http.StatusBadRequest, status)
			assert.False(t, response.Success)
			assert.Equal(t, "VALIDATION_ERROR", response.Code)
			require.NotEmpty(t, response.Details)
			assert.Equal(t, tt.field, response.Details[0].Field)
		})
	}

	t.Run("invalid_json", func(t *testing.T) {
		status, response := call(t, server, http.MethodPost, "/api/posts", `{"title":`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Invalid JSON payload", response.Error)
	})
}

/*
TestHandler_List covers pagination metadata and query validation.
*/
func TestHandler_List(t *testing.T) {
	server := newTestServer(t)
	for _, title := range []string{"One post", "Two post", "Three post", "Four post"} {
		createVia(t, server, `{"title":"`+title+`","content":"Content long enough."}`)
	}

	status, response := call(t, server, http.MethodGet, "/api/posts?page=1&limit=3", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Posts retrieved successfully", response.Message)

	var posts []post.Post
	require.NoError(t, json.Unmarshal(response.Data, &posts))
	assert.Len(t, posts, 3)
	require.NotNil(t, response.Pagination)
	assert.Equal(t, 4, response.Pagination.Total)
	assert.Equal(t, 2, response.Pagination.TotalPages)
	assert.True(t, response.Pagination.HasNext)

	status, response = call(t, server, http.MethodGet, "/api/posts?search=nothing-matches", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", string(response.Data))

	status, _ = call(t, server, http.MethodGet, "/api/posts?sortOrder=sideways", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, server, http.MethodGet, "/api/posts?limit=101", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, server, http.MethodGet, "/api/posts?limit=abc&sortBy=bogus", "")
	assert.Equal(t, http.StatusOK, status)
}

/*
TestHandler_GetBySlug verifies that each slug read counts one view.
*/
func TestHandler_GetBySlug(t *testing.T) {
	server := newTestServer(t)
	created := createVia(t, server, `{"title":"Viewed Post","content":"Content long enough."}`)

	_, first := call(t, server, http.MethodGet, "/api/posts/slug/viewed-post", "")
	_, second := call(t, server, http.MethodGet, "/api/posts/slug/viewed-post", "")

	assert.Equal(t, 1, decodePost(t, first.Data).ViewCount)
	assert.Equal(t, 2, decodePost(t, second.Data).ViewCount)

	// Reads by id do not count.
	status, byID := call(t, server, http.MethodGet, "/api/posts/"+created.ID, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, decodePost(t, byID.Data).ViewCount)

	status, missing := call(t, server, http.MethodGet, "/api/posts/slug/nope", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Post not found", missing.Error)
}

/*
TestHandler_Update covers tri-state fields and the empty-body rule.
*/
func TestHandler_Update(t *testing.T) {
	server := newTestServer(t)
	created := createVia(t, server, `{"title":"Original","content":"Content long enough.","excerpt":"An excerpt"}`)
	path := "/api/posts/" + created.ID

	status, response := call(t, server, http.MethodPut, path, `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "body", response.Details[0].Field)

	status, _ = call(t, server, http.MethodPut, path, `{"title":null}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, response = call(t, server, http.MethodPut, path, `{"excerpt":null}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Post updated successfully", response.Message)
	updated := decodePost(t, response.Data)
	assert.Nil(t, updated.Excerpt)
	assert.Equal(t, "original", updated.Slug)

	status, response = call(t, server, http.MethodPut, path, `{"title":"Renamed Post","slug":null}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "renamed-post", decodePost(t, response.Data).Slug)

	status, _ = call(t, server, http.MethodPut, "/api/posts/missing", `{"title":"Whatever"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

/*
TestHandler_Delete returns a message-only envelope, then 404.
*/
func TestHandler_Delete(t *testing.T) {
	server := newTestServer(t)
	created := createVia(t, server, `{"title":"Short lived","content":"Content long enough."}`)

	status, response := call(t, server, http.MethodDelete, "/api/posts/"+created.ID, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Post deleted successfully", response.Message)
	assert.Empty(t, response.Data)

	status, _ = call(t, server, http.MethodDelete, "/api/posts/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
}

/*
TestHandler_Render serves sanitized HTML.
*/
func TestHandler_Render(t *testing.T) {
	server := newTestServer(t)
	created := createVia(t, server, `{"title":"Rendered","content":"# Heading\n\nBody **text**."}`)

	status, response := call(t, server, http.MethodGet, "/api/posts/"+created.ID+"/html", "")
	require.Equal(t, http.StatusOK, status)

	var rendered post.Rendered
	require.NoError(t, json.Unmarshal(response.Data, &rendered))
	assert.Contains(t, rendered.HTML, "<strong>text</strong>")
}
