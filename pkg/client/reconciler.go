// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"context"
	"strconv"
	"time"

	"github.com/taibuivan/yomira-blog/pkg/pointer"
	"github.com/taibuivan/yomira-blog/pkg/querycache"
	"github.com/taibuivan/yomira-blog/pkg/uuid"
)

// Prefixes of placeholder identifiers given to posts the server has not confirmed yet.
const (
	TempIDPrefix   = "temp-"
	TempSlugPrefix = "temp-slug-"
)

// PostAPI is the remote surface the [Reconciler] drives. [*Client] implements it.
type PostAPI interface {
	ListPosts(context context.Context, filter ListFilter) (*PaginatedPosts, error)
	GetPost(context context.Context, id string) (*Post, error)
	GetPostBySlug(context context.Context, slug string) (*Post, error)
	CreatePost(context context.Context, input CreatePostInput) (*Post, error)
	UpdatePost(context context.Context, id string, input UpdatePostInput) (*Post, error)
	DeletePost(context context.Context, id string) error
}

/*
Reconciler keeps a [querycache.Cache] in step with post mutations.

Description: Each mutation runs as a small transaction over the cache:

 1. Cancel in-flight fetches of the affected region.
 2. Snapshot the region and apply the speculative patch in one step.
 3. Call the API.
 4. On success invalidate ["posts"] so the next read fetches server truth.
    On failure restore the snapshot verbatim and return the error.

The reconciler never retries and never imposes a timeout; the caller's
context governs the request.
*/
type Reconciler struct {
	api   PostAPI
	cache *querycache.Cache
	now   func() time.Time
}

// ReconcilerOption configures a [Reconciler].
type ReconcilerOption func(*Reconciler)

// WithNow replaces the clock used for placeholder timestamps.
func WithNow(now func() time.Time) ReconcilerOption {
	return func(r *Reconciler) { r.now = now }
}

// NewReconciler binds api to cache.
func NewReconciler(api PostAPI, cache *querycache.Cache, opts ...ReconcilerOption) *Reconciler {
	reconciler := &Reconciler{api: api, cache: cache, now: time.Now}
	for _, opt := range opts {
		opt(reconciler)
	}
	return reconciler
}

// # Reads

// Posts returns the page for filter, from the cache when fresh.
func (r *Reconciler) Posts(ctx context.Context, filter ListFilter) (*PaginatedPosts, error) {
	return querycache.Query(ctx, r.cache, ListKey(filter), func(ctx context.Context) (*PaginatedPosts, error) {
		return r.api.ListPosts(ctx, filter)
	})
}

// Post returns the post with id, from the cache when fresh.
func (r *Reconciler) Post(ctx context.Context, id string) (*Post, error) {
	return querycache.Query(ctx, r.cache, DetailKey(id), func(ctx context.Context) (*Post, error) {
		return r.api.GetPost(ctx, id)
	})
}

// PostBySlug returns the post with slug, from the cache when fresh.
func (r *Reconciler) PostBySlug(ctx context.Context, slug string) (*Post, error) {
	return querycache.Query(ctx, r.cache, SlugKey(slug), func(ctx context.Context) (*Post, error) {
		return r.api.GetPostBySlug(ctx, slug)
	})
}

// Refresh eagerly refetches every invalidated post query.
func (r *Reconciler) Refresh(ctx context.Context) error {
	return r.cache.RefetchStale(ctx, AllPostsKey)
}

// # Mutations

// CreatePost prepends a placeholder to every cached list while the create is in flight.
func (r *Reconciler) CreatePost(ctx context.Context, input CreatePostInput) (*Post, error) {
	r.cache.Cancel(ListsKey)

	placeholder := r.placeholder(input)

	var snapshot *querycache.Snapshot
	r.cache.Mutate(func(tx *querycache.Tx) {
		snapshot = tx.Snapshot(ListsKey)
		tx.Update(ListsKey, func(_ querycache.Key, value any) (any, bool) {
			page, ok := value.(*PaginatedPosts)
			if !ok || page == nil {
				return nil, false
			}
			next := &PaginatedPosts{
				Posts:      append([]Post{placeholder}, page.Posts...),
				Pagination: page.Pagination,
			}
			next.Pagination.Total++
			return next, true
		})
	})

	created, err := r.api.CreatePost(ctx, input)
	if err != nil {
		r.cache.Restore(snapshot)
		return nil, err
	}

	r.cache.Invalidate(AllPostsKey)
	return created, nil
}

// UpdatePost merges input into the cached post and every list row holding it.
// Nothing is patched when the post is not cached yet.
func (r *Reconciler) UpdatePost(ctx context.Context, id string, input UpdatePostInput) (*Post, error) {
	detail := DetailKey(id)
	r.cache.Cancel(detail)
	r.cache.Cancel(ListsKey)

	var snapshot *querycache.Snapshot
	r.cache.Mutate(func(tx *querycache.Tx) {
		snapshot = tx.Snapshot(detail, ListsKey)

		value, _ := tx.Get(detail)
		current, ok := value.(*Post)
		if !ok || current == nil {
			return
		}

		merged := mergePost(*current, input, r.now())
		tx.Set(detail, &merged)
		tx.Update(ListsKey, func(_ querycache.Key, value any) (any, bool) {
			return replacePost(value, merged)
		})
	})

	updated, err := r.api.UpdatePost(ctx, id, input)
	if err != nil {
		r.cache.Restore(snapshot)
		return nil, err
	}

	r.cache.Invalidate(AllPostsKey)
	return updated, nil
}

// DeletePost removes the post from every cached list and drops its detail entry.
func (r *Reconciler) DeletePost(ctx context.Context, id string) error {
	detail := DetailKey(id)
	r.cache.Cancel(AllPostsKey)

	var snapshot *querycache.Snapshot
	r.cache.Mutate(func(tx *querycache.Tx) {
		snapshot = tx.Snapshot(ListsKey, detail)
		tx.Update(ListsKey, func(_ querycache.Key, value any) (any, bool) {
			return removePost(value, id)
		})
		tx.Remove(detail)
	})

	if err := r.api.DeletePost(ctx, id); err != nil {
		r.cache.Restore(snapshot)
		return err
	}

	r.cache.Invalidate(AllPostsKey)
	return nil
}

// # Patches

func (r *Reconciler) placeholder(input CreatePostInput) Post {
	now := r.now()
	return Post{
		ID:        TempIDPrefix + uuid.New(),
		Title:     input.Title,
		Content:   input.Content,
		Excerpt:   pointer.NonEmpty(input.Excerpt),
		Slug:      pointer.Or(pointer.NonEmpty(input.Slug), TempSlugPrefix+strconv.FormatInt(now.UnixMilli(), 10)),
		ViewCount: 0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// mergePost applies the same field rules as the server: title and content
// when set, excerpt tri-state, slug only when a non-empty value is given.
func mergePost(current Post, input UpdatePostInput, now time.Time) Post {
	if title, ok := input.Title.Get(); ok {
		current.Title = title
	}
	if content, ok := input.Content.Get(); ok {
		current.Content = content
	}
	current.Excerpt = input.Excerpt.Apply(current.Excerpt)
	if slug, ok := input.Slug.Get(); ok && slug != "" {
		current.Slug = slug
	}
	current.UpdatedAt = now
	return current
}

func replacePost(value any, merged Post) (any, bool) {
	page, ok := value.(*PaginatedPosts)
	if !ok || page == nil {
		return nil, false
	}

	posts := make([]Post, len(page.Posts))
	found := false
	for i, p := range page.Posts {
		if p.ID == merged.ID {
			p, found = merged, true
		}
		posts[i] = p
	}
	if !found {
		return nil, false
	}
	return &PaginatedPosts{Posts: posts, Pagination: page.Pagination}, true
}

func removePost(value any, id string) (any, bool) {
	page, ok := value.(*PaginatedPosts)
	if !ok || page == nil {
		return nil, false
	}

	posts := make([]Post, 0, len(page.Posts))
	for _, p := range page.Posts {
		if p.ID != id {
			posts = append(posts, p)
		}
	}

	next := &PaginatedPosts{Posts: posts, Pagination: page.Pagination}
	next.Pagination.Total = max(0, next.Pagination.Total-1)
	return next, true
}
