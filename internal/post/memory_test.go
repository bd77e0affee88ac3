// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/yomira-blog/internal/platform/dberr"
	"github.com/taibuivan/yomira-blog/internal/post"
)

// memoryRepository is an in-process [post.Repository] with the same
// observable contract as the PostgreSQL store: unique slugs, sentinel
// errors, and atomic view increments.
type memoryRepository struct {
	mu     sync.Mutex
	posts  map[string]*post.Post
	nextID int
	clock  time.Time

	// Hooks for fault injection.
	createErr     error
	findBySlugErr error
	slugLookups   int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		posts: make(map[string]*post.Post),
		clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick advances the fake clock so that every write gets a later timestamp.
func (repository *memoryRepository) tick() time.Time {
	repository.clock = repository.clock.Add(time.Second)
	return repository.clock
}

func (repository *memoryRepository) slugTaken(slug, exceptID string) bool {
	for _, existing := range repository.posts {
		if existing.Slug == slug && existing.ID != exceptID {
			return true
		}
	}
	return false
}

func (repository *memoryRepository) Create(ctx context.Context, input post.NewPost) (*post.Post, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.createErr != nil {
		return nil, repository.createErr
	}
	if repository.slugTaken(input.Slug, "") {
		return nil, dberr.ErrUniqueViolation
	}

	repository.nextID++
	now := repository.tick()
	created := &post.Post{
		ID:        fmt.Sprintf("00000000-0000-7000-8000-%012d", repository.nextID),
		Title:     input.Title,
		Content:   input.Content,
		Excerpt:   input.Excerpt,
		Slug:      input.Slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	repository.posts[created.ID] = created

	clone := *created
	return &clone, nil
}

func (repository *memoryRepository) FindByID(ctx context.Context, id string) (*post.Post, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	found, ok := repository.posts[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	clone := *found
	return &clone, nil
}

func (repository *memoryRepository) FindBySlug(ctx context.Context, slug string) (*post.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.slugLookups++
	if repository.findBySlugErr != nil {
		return nil, repository.findBySlugErr
	}
	for _, existing := range repository.posts {
		if existing.Slug == slug {
			clone := *existing
			return &clone, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repository *memoryRepository) matching(where post.Predicate) []*post.Post {
	var matched []*post.Post
	for _, candidate := range repository.posts {
		if where.IsZero() ||
			strings.Contains(candidate.Title, where.Search) ||
			strings.Contains(candidate.Content, where.Search) ||
			(candidate.Excerpt != nil && strings.Contains(*candidate.Excerpt, where.Search)) {
			clone := *candidate
			matched = append(matched, &clone)
		}
	}
	return matched
}

func (repository *memoryRepository) FindMany(ctx context.Context, query post.Query) ([]*post.Post, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	matched := repository.matching(query.Where)

	less := func(a, b *post.Post) bool {
		switch query.OrderBy {
		case post.SortTitle:
			if a.Title != b.Title {
				return a.Title < b.Title
			}
		case post.SortViewCount:
			if a.ViewCount != b.ViewCount {
				return a.ViewCount < b.ViewCount
			}
		case post.SortUpdatedAt:
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.Before(b.UpdatedAt)
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		}
		return a.ID < b.ID
	}

	sort.Slice(matched, func(i, j int) bool {
		if query.Direction == post.Asc {
			return less(matched[i], matched[j])
		}
		return less(matched[j], matched[i])
	})

	if query.Skip >= len(matched) {
		return nil, nil
	}
	end := min(query.Skip+query.Take, len(matched))
	return matched[query.Skip:end], nil
}

func (repository *memoryRepository) Count(ctx context.Context, where post.Predicate) (int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	return len(repository.matching(where)), nil
}

func (repository *memoryRepository) Update(ctx context.Context, id string, changes post.Changes) (*post.Post, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	existing, ok := repository.posts[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	if changes.Slug != nil && repository.slugTaken(*changes.Slug, id) {
		return nil, dberr.ErrUniqueViolation
	}

	if changes.Title != nil {
		existing.Title = *changes.Title
	}
	if changes.Content != nil {
		existing.Content = *changes.Content
	}
	existing.Excerpt = changes.Excerpt.Apply(existing.Excerpt)
	if changes.Slug != nil {
		existing.Slug = *changes.Slug
	}
	existing.UpdatedAt = repository.tick()

	clone := *existing
	return &clone, nil
}

func (repository *memoryRepository) Delete(ctx context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.posts[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(repository.posts, id)
	return nil
}

func (repository *memoryRepository) IncrementViewCount(ctx context.Context, id string, delta int) (*post.Post, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	existing, ok := repository.posts[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	existing.ViewCount += delta
	existing.UpdatedAt = repository.tick()

	clone := *existing
	return &clone, nil
}
