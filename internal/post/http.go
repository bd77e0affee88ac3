// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-blog/internal/platform/apperr"
	requestutil "github.com/taibuivan/yomira-blog/internal/platform/request"
	"github.com/taibuivan/yomira-blog/internal/platform/respond"
	"github.com/taibuivan/yomira-blog/internal/platform/validate"
	"github.com/taibuivan/yomira-blog/pkg/pagination"
	"github.com/taibuivan/yomira-blog/pkg/slug"
)

// Response messages.
const (
	msgCreated   = "Post created successfully"
	msgListed    = "Posts retrieved successfully"
	msgRetrieved = "Post retrieved successfully"
	msgRendered  = "Post rendered successfully"
	msgUpdated   = "Post updated successfully"
	msgDeleted   = "Post deleted successfully"
)

// # Handler Implementation

// Handler implements the HTTP layer for posts.
// It validates requests at the boundary and translates them into [Service] calls.
type Handler struct {
	service *Service
}

// NewHandler constructs a new post [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the post endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listPosts)
	router.Post("/", handler.createPost)

	// Slug lookups are public reads and count as a view.
	router.Get("/slug/{slug}", handler.getPostBySlug)

	router.Get("/{id}", handler.getPost)
	router.Get("/{id}/html", handler.renderPost)
	router.Put("/{id}", handler.updatePost)
	router.Delete("/{id}", handler.deletePost)

	return router
}

// # Post Endpoints

/*
GET /api/posts.

Description: Retrieves a paginated list of posts.

Request:
  - page: int (default 1)
  - limit: int (default 3, max 100)
  - sortBy: string (title, viewCount, updatedAt, createdAt)
  - sortOrder: string (asc, desc)
  - search: string (substring of title, content or excerpt)

Response:
  - 200: []Post with pagination metadata
*/
func (handler *Handler) listPosts(writer http.ResponseWriter, request *http.Request) {
	filter := ListFilter{
		Page:      requestutil.Query(request, FieldPage),
		Limit:     requestutil.Query(request, FieldLimit),
		SortBy:    requestutil.Query(request, FieldSortBy),
		SortOrder: requestutil.Query(request, FieldSortOrder),
		Search:    requestutil.Query(request, FieldSearch),
	}

	if err := validateListFilter(filter); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.List(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result.Posts, result.Pagination, msgListed)
}

/*
POST /api/posts.

Request Body:
  - title: string (3-200 chars)
  - content: string (min 10 chars)
  - excerpt: string (optional, max 300 chars)
  - slug: string (optional, lowercase letters, digits, hyphens)

Response:
  - 201: Post
*/
func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := validateCreate(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created, msgCreated)
}

/*
GET /api/posts/{id}.

Response:
  - 200: Post
  - 404: Post not found
*/
func (handler *Handler) getPost(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.RequiredParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.service.GetByID(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if found == nil {
		respond.Error(writer, request, apperr.NotFound(msgNotFound))
		return
	}

	respond.OK(writer, found, msgRetrieved)
}

/*
GET /api/posts/slug/{slug}.

Description: Resolves a post by slug and records one view. The response
carries the post as it is after the increment.

Response:
  - 200: Post
  - 404: Post not found
*/
func (handler *Handler) getPostBySlug(writer http.ResponseWriter, request *http.Request) {
	postSlug, err := requestutil.RequiredParam(request, "slug")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	found, err := handler.service.GetBySlug(request.Context(), postSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if found == nil {
		respond.Error(writer, request, apperr.NotFound(msgNotFound))
		return
	}

	viewed, err := handler.service.IncrementViewCount(request.Context(), found.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, viewed, msgRetrieved)
}

/*
GET /api/posts/{id}/html.

Response:
  - 200: Rendered (sanitized HTML of the post content)
  - 404: Post not found
*/
func (handler *Handler) renderPost(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.RequiredParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	rendered, err := handler.service.Render(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, rendered, msgRendered)
}

/*
PUT /api/posts/{id}.

Description: Partial update. Absent fields are kept; "excerpt": null clears
the excerpt; "slug": null is ignored.

Response:
  - 200: Post
  - 400: Validation failed (including an empty body)
  - 404: Post not found
  - 409: Slug conflict
*/
func (handler *Handler) updatePost(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.RequiredParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := validateUpdate(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated, msgUpdated)
}

/*
DELETE /api/posts/{id}.

Response:
  - 200: Message only
  - 404: Post not found
*/
func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.RequiredParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, msgDeleted)
}

// # Boundary Validation

func validateCreate(input CreateInput) error {
	validator := &validate.Validator{}

	validator.Length(FieldTitle, input.Title, TitleMinLen, TitleMaxLen).
		MinLen(FieldContent, input.Content, ContentMinLen)

	if input.Excerpt != nil {
		validator.MaxLen(FieldExcerpt, *input.Excerpt, ExcerptMaxLen)
	}

	if input.Slug != nil {
		validator.Slug(FieldSlug, *input.Slug)
	} else {
		validator.Custom(FieldSlug, input.Title != "" && slug.Generate(input.Title) == "",
			"Title has no letters or digits to derive a slug from; provide a slug")
	}

	return validator.Err()
}

func validateUpdate(input UpdateInput) error {
	if input.IsEmpty() {
		return validate.RequiredError(FieldBody, "At least one field must be provided for update")
	}

	validator := &validate.Validator{}

	validator.Custom(FieldTitle, input.Title.IsClear(), "Title cannot be null")
	if title, ok := input.Title.Get(); ok {
		validator.Length(FieldTitle, title, TitleMinLen, TitleMaxLen)
	}

	validator.Custom(FieldContent, input.Content.IsClear(), "Content cannot be null")
	if content, ok := input.Content.Get(); ok {
		validator.MinLen(FieldContent, content, ContentMinLen)
	}

	if excerpt, ok := input.Excerpt.Get(); ok {
		validator.MaxLen(FieldExcerpt, excerpt, ExcerptMaxLen)
	}

	if supplied, ok := input.Slug.Get(); ok {
		validator.Slug(FieldSlug, supplied)
	} else if title, ok := input.Title.Get(); ok && title != "" {
		validator.Custom(FieldSlug, slug.Generate(title) == "",
			"Title has no letters or digits to derive a slug from; provide a slug")
	}

	return validator.Err()
}

func validateListFilter(filter ListFilter) error {
	validator := &validate.Validator{}

	if filter.SortOrder != "" {
		validator.OneOf(FieldSortOrder, filter.SortOrder, string(Asc), string(Desc))
	}

	if limit, err := strconv.Atoi(strings.TrimSpace(filter.Limit)); err == nil {
		validator.Max(FieldLimit, limit, pagination.MaxLimit)
	}

	return validator.Err()
}
