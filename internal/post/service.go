// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/yomira-blog/internal/platform/apperr"
	"github.com/taibuivan/yomira-blog/internal/platform/dberr"
	"github.com/taibuivan/yomira-blog/internal/platform/metrics"
	"github.com/taibuivan/yomira-blog/pkg/pagination"
	"github.com/taibuivan/yomira-blog/pkg/pointer"
	"github.com/taibuivan/yomira-blog/pkg/slug"
)

// Client-facing messages for store outcomes.
const (
	msgNotFound     = "Post"
	msgSlugConflict = "Post with this slug already exists"
)

// # Service Layer

// Service orchestrates the business logic for blog posts.
// It owns slug resolution and translates storage outcomes into application errors.
type Service struct {
	repo     Repository
	renderer *Renderer
	logger   *slog.Logger
}

// NewService constructs a new [Service] over the given repository.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		renderer: NewRenderer(),
		logger:   logger,
	}
}

// # Post Management

/*
Create persists a new post with a unique slug.

Description: The slug is the supplied one or, when absent, derived from the
title. Either way it is passed through uniqueness resolution, so a taken
slug gains a numeric suffix. A concurrent writer may still claim the slug
between resolution and insert; the store's constraint then reports a
conflict, which is returned without retrying.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Post: The created post
  - error: Conflict on a lost slug race, or store errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (created *Post, err error) {
	defer func() { metrics.ObservePostOperation("create", err) }()

	// An explicit but empty slug falls back to the title.
	base := pointer.Or(pointer.NonEmpty(input.Slug), slug.Generate(input.Title))

	resolved, err := service.ensureUniqueSlug(context, base, "")
	if err != nil {
		return nil, err
	}

	created, err = service.repo.Create(context, NewPost{
		Title:   input.Title,
		Content: input.Content,
		Excerpt: input.Excerpt,
		Slug:    resolved,
	})
	if err != nil {
		return nil, service.translate(context, err, resolved)
	}

	service.logger.InfoContext(context, "post_created",
		slog.String("post_id", created.ID),
		slog.String("slug", created.Slug),
	)

	return created, nil
}

/*
List returns one page of posts and its pagination metadata.

Description: The page and the total are fetched concurrently. They are two
independent reads, so a write landing between them can make the total
disagree with the page by one.
*/
func (service *Service) List(context context.Context, filter ListFilter) (*ListResult, error) {
	query, params := BuildListQuery(filter)

	var (
		posts []*Post
		total int
	)

	group, groupCtx := errgroup.WithContext(context)
	group.Go(func() error {
		var err error
		posts, err = service.repo.FindMany(groupCtx, query)
		return err
	})
	group.Go(func() error {
		var err error
		total, err = service.repo.Count(groupCtx, query.Where)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	if posts == nil {
		posts = []*Post{}
	}

	return &ListResult{
		Posts:      posts,
		Pagination: pagination.NewMeta(params.Page, params.Limit, total),
	}, nil
}

// GetByID returns the post with the given id, or nil when none exists.
func (service *Service) GetByID(context context.Context, id string) (*Post, error) {
	return absentAsNil(service.repo.FindByID(context, id))
}

// GetBySlug returns the post with the given slug, or nil when none exists.
func (service *Service) GetBySlug(context context.Context, slug string) (*Post, error) {
	return absentAsNil(service.repo.FindBySlug(context, slug))
}

/*
Update applies a partial update to an existing post.

Description: Only supplied fields change. The slug is re-resolved when a
slug is supplied, or otherwise when the title changes, excluding the post
itself so that keeping its own slug never collides. An explicit null slug
counts as absent. An update with no fields is accepted and only refreshes
updatedAt.

Returns:
  - *Post: The updated post
  - error: NotFound, Conflict, or store errors
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (updated *Post, err error) {
	defer func() { metrics.ObservePostOperation("update", err) }()

	// Existence check
	if _, err := service.repo.FindByID(context, id); err != nil {
		return nil, service.translate(context, err, "")
	}

	changes := Changes{Excerpt: input.Excerpt}
	if title, ok := input.Title.Get(); ok {
		changes.Title = &title
	}
	if content, ok := input.Content.Get(); ok {
		changes.Content = &content
	}

	// Slug re-resolution
	base, resolve := input.Slug.Get()
	if !resolve && changes.Title != nil {
		base, resolve = slug.Generate(*changes.Title), true
	}
	if resolve {
		resolved, err := service.ensureUniqueSlug(context, base, id)
		if err != nil {
			return nil, err
		}
		changes.Slug = &resolved
	}

	var attempted string
	if changes.Slug != nil {
		attempted = *changes.Slug
	}

	updated, err = service.repo.Update(context, id, changes)
	if err != nil {
		return nil, service.translate(context, err, attempted)
	}

	service.logger.InfoContext(context, "post_updated",
		slog.String("post_id", updated.ID),
		slog.String("slug", updated.Slug),
	)

	return updated, nil
}

// Delete removes a post permanently.
func (service *Service) Delete(context context.Context, id string) (err error) {
	defer func() { metrics.ObservePostOperation("delete", err) }()

	if err := service.repo.Delete(context, id); err != nil {
		return service.translate(context, err, "")
	}

	service.logger.InfoContext(context, "post_deleted", slog.String("post_id", id))
	return nil
}

// IncrementViewCount adds one view to a post and returns the updated post.
// The increment happens in a single store statement, so concurrent views are never lost.
func (service *Service) IncrementViewCount(context context.Context, id string) (*Post, error) {
	updated, err := service.repo.IncrementViewCount(context, id, 1)
	if err != nil {
		return nil, service.translate(context, err, "")
	}
	return updated, nil
}

// Render returns a post's content as sanitized HTML.
func (service *Service) Render(context context.Context, id string) (*Rendered, error) {
	found, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, service.translate(context, err, "")
	}

	html, err := service.renderer.Render(found.Content)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &Rendered{ID: found.ID, Slug: found.Slug, Title: found.Title, HTML: html}, nil
}

// # Slug Resolution

/*
ensureUniqueSlug finds the first free slug among base, base-1, base-2, ...

Description: Each candidate costs one store lookup. A candidate held by
excludeID counts as free. Store errors, including context cancellation
surfaced by the store, end the search and are returned unchanged.

Returns:
  - string: A slug no other post held at the time of the check
  - error: ValidationError when base is empty, or store errors
*/
func (service *Service) ensureUniqueSlug(context context.Context, base, excludeID string) (string, error) {
	if base == "" {
		return "", apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldSlug,
			Message: "A slug could not be derived from the title; provide one explicitly",
		})
	}

	candidate := base
	for counter := 1; ; counter++ {
		existing, err := service.repo.FindBySlug(context, candidate)
		if errors.Is(err, dberr.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		if excludeID != "" && existing.ID == excludeID {
			return candidate, nil
		}

		metrics.SlugCollisionsTotal.Inc()
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

// # Helpers

// translate maps repository sentinels to client-facing errors.
func (service *Service) translate(context context.Context, err error, slug string) error {
	switch {
	case errors.Is(err, dberr.ErrNotFound):
		return apperr.NotFound(msgNotFound)
	case errors.Is(err, dberr.ErrUniqueViolation):
		service.logger.WarnContext(context, "post_slug_conflict", slog.String("slug", slug))
		return apperr.Conflict(msgSlugConflict)
	default:
		return err
	}
}

func absentAsNil(found *Post, err error) (*Post, error) {
	if errors.Is(err, dberr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return found, nil
}
