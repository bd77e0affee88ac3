// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package post implements the blog's only domain: text posts.

It covers the full lifecycle of a post, from creation with a unique URL slug,
through filtered and paginated listing, partial updates and view counting, to
hard deletion.

Layers:

  - Entity and DTOs: [Post], [CreateInput], [UpdateInput], [ListFilter].
  - Service: slug resolution, CRUD orchestration, error translation.
  - Repository: storage contract with PostgreSQL and Redis-cached implementations.
  - Handler: chi routes with request validation at the boundary.
*/
package post

import (
	"time"

	"github.com/taibuivan/yomira-blog/pkg/pagination"
	"github.com/taibuivan/yomira-blog/pkg/patch"
)

// # Domain Entity

// Post is a single blog article.
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

// Rendered is a post whose markdown content has been converted to sanitized HTML.
type Rendered struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// # Field Identifiers

// JSON field names used in validation details and query strings.
const (
	FieldTitle     = "title"
	FieldContent   = "content"
	FieldExcerpt   = "excerpt"
	FieldSlug      = "slug"
	FieldPage      = "page"
	FieldLimit     = "limit"
	FieldSortBy    = "sortBy"
	FieldSortOrder = "sortOrder"
	FieldSearch    = "search"
	FieldBody      = "body"
)

// Length limits enforced at the HTTP boundary.
const (
	TitleMinLen   = 3
	TitleMaxLen   = 200
	ContentMinLen = 10
	ExcerptMaxLen = 300
)

// # Service Inputs

// CreateInput carries the client-supplied fields of a new post.
type CreateInput struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Excerpt *string `json:"excerpt,omitempty"`
	Slug    *string `json:"slug,omitempty"`
}

// UpdateInput carries a partial update. Every field is tri-state: absent keys
// are left untouched and explicit nulls are distinguishable from values.
type UpdateInput struct {
	Title   patch.Field[string] `json:"title,omitzero"`
	Content patch.Field[string] `json:"content,omitzero"`
	Excerpt patch.Field[string] `json:"excerpt,omitzero"`
	Slug    patch.Field[string] `json:"slug,omitzero"`
}

// IsEmpty reports whether no field was supplied at all.
func (in UpdateInput) IsEmpty() bool {
	return in.Title.IsZero() && in.Content.IsZero() && in.Excerpt.IsZero() && in.Slug.IsZero()
}

// ListFilter holds the raw, unvalidated list parameters as they arrive in the query string.
type ListFilter struct {
	Page      string
	Limit     string
	SortBy    string
	SortOrder string
	Search    string
}

// ListResult is one page of posts with its pagination metadata.
type ListResult struct {
	Posts      []*Post         `json:"posts"`
	Pagination pagination.Meta `json:"pagination"`
}

// # Repository Inputs

// NewPost is a fully resolved post ready for insertion.
type NewPost struct {
	Title   string
	Content string
	Excerpt *string
	Slug    string
}

// Changes describes a partial row update. Nil pointers are left untouched;
// Excerpt keeps its tri-state so it can be cleared. The store always refreshes updatedAt.
type Changes struct {
	Title   *string
	Content *string
	Excerpt patch.Field[string]
	Slug    *string
}

// # Query Model

// SortField is a sortable post attribute, named as the API exposes it.
type SortField string

const (
	SortTitle     SortField = "title"
	SortViewCount SortField = "viewCount"
	SortUpdatedAt SortField = "updatedAt"
	SortCreatedAt SortField = "createdAt"
)

// Direction is an ORDER BY direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Predicate filters posts: a post matches when any of Fields contains Search.
// The zero value matches every post.
type Predicate struct {
	Search string
	Fields []string
}

// IsZero reports whether the predicate filters nothing.
func (p Predicate) IsZero() bool {
	return p.Search == ""
}

// Query is a store-agnostic description of one list page.
type Query struct {
	Where     Predicate
	OrderBy   SortField
	Direction Direction
	Skip      int
	Take      int
}
