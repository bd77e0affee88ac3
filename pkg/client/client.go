// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package client is a typed Go client for the blog API.

[Client] performs the HTTP calls and decodes the response envelope.
[Reconciler] layers an optimistic query cache on top of it: mutations patch
the cache immediately and are either confirmed by a refetch or rolled back.
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taibuivan/yomira-blog/pkg/pagination"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return text
	}
	return "An error occurred"
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// envelope mirrors the server response body.
type envelope[T any] struct {
	Success    bool             `json:"success"`
	Data       *T               `json:"data"`
	Message    string           `json:"message"`
	Error      string           `json:"error"`
	Code       string           `json:"code"`
	Pagination *pagination.Meta `json:"pagination"`
}

// Client talks to the blog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// New returns a client for the API rooted at baseURL, e.g. "http://localhost:3001/api".
func New(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// # Posts

// ListPosts returns one page of posts.
func (c *Client) ListPosts(context context.Context, filter ListFilter) (*PaginatedPosts, error) {
	path := "/posts"
	if query := filter.Values().Encode(); query != "" {
		path += "?" + query
	}

	var body envelope[[]Post]
	if err := c.do(context, http.MethodGet, path, nil, &body); err != nil {
		return nil, err
	}

	page := &PaginatedPosts{Posts: []Post{}}
	if body.Data != nil {
		page.Posts = *body.Data
	}
	if body.Pagination != nil {
		page.Pagination = *body.Pagination
	}
	return page, nil
}

// GetPost returns the post with the given id.
func (c *Client) GetPost(context context.Context, id string) (*Post, error) {
	return c.post(context, http.MethodGet, "/posts/"+url.PathEscape(id), nil, "Post not found")
}

// GetPostBySlug returns the post with the given slug. The server counts it as a view.
func (c *Client) GetPostBySlug(context context.Context, slug string) (*Post, error) {
	return c.post(context, http.MethodGet, "/posts/slug/"+url.PathEscape(slug), nil, "Post not found")
}

// CreatePost creates a post.
func (c *Client) CreatePost(context context.Context, input CreatePostInput) (*Post, error) {
	return c.post(context, http.MethodPost, "/posts", input, "Failed to create post")
}

// UpdatePost applies a partial update.
func (c *Client) UpdatePost(context context.Context, id string, input UpdatePostInput) (*Post, error) {
	return c.post(context, http.MethodPut, "/posts/"+url.PathEscape(id), input, "Failed to update post")
}

// DeletePost deletes a post.
func (c *Client) DeletePost(context context.Context, id string) error {
	var body envelope[json.RawMessage]
	return c.do(context, http.MethodDelete, "/posts/"+url.PathEscape(id), nil, &body)
}

// # Transport

func (c *Client) post(context context.Context, method, path string, payload any, emptyMessage string) (*Post, error) {
	var body envelope[Post]
	if err := c.do(context, method, path, payload, &body); err != nil {
		return nil, err
	}
	if body.Data == nil {
		return nil, errors.New(emptyMessage)
	}
	return body.Data, nil
}

func (c *Client) do(context context.Context, method, path string, payload any, target any) error {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(context, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("client: network error: %w", err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("client: read response: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		apiErr := &APIError{StatusCode: response.StatusCode}
		var failure envelope[json.RawMessage]
		if json.Unmarshal(raw, &failure) == nil {
			apiErr.Code = failure.Code
			apiErr.Message = failure.Error
		}
		return apiErr
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}
