// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"net/url"
	"time"

	"github.com/taibuivan/yomira-blog/pkg/pagination"
	"github.com/taibuivan/yomira-blog/pkg/patch"
)

// Post is a blog post as served by the API.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Excerpt   *string   `json:"excerpt"`
	Slug      string    `json:"slug"`
	ViewCount int       `json:"viewCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PaginatedPosts is one page of a list query.
type PaginatedPosts struct {
	Posts      []Post          `json:"posts"`
	Pagination pagination.Meta `json:"pagination"`
}

// CreatePostInput is the body of a create request.
type CreatePostInput struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Excerpt *string `json:"excerpt,omitempty"`
	Slug    *string `json:"slug,omitempty"`
}

// UpdatePostInput is the body of an update request. Unset fields are omitted;
// a cleared Excerpt is sent as null.
type UpdatePostInput struct {
	Title   patch.Field[string] `json:"title,omitzero"`
	Content patch.Field[string] `json:"content,omitzero"`
	Excerpt patch.Field[string] `json:"excerpt,omitzero"`
	Slug    patch.Field[string] `json:"slug,omitzero"`
}

// ListFilter holds the list query parameters. Empty fields are not sent.
type ListFilter struct {
	Page      string
	Limit     string
	SortBy    string
	SortOrder string
	Search    string
}

// Values encodes the non-empty parameters.
func (f ListFilter) Values() url.Values {
	values := url.Values{}
	for name, value := range map[string]string{
		"page":      f.Page,
		"limit":     f.Limit,
		"sortBy":    f.SortBy,
		"sortOrder": f.SortOrder,
		"search":    f.Search,
	} {
		if value != "" {
			values.Set(name, value)
		}
	}
	return values
}
