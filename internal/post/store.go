// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import "context"

// Repository defines the persistence contract for posts.
//
// Lookups and targeted writes return [dberr.ErrNotFound] when the row does not
// exist; writes that break slug uniqueness return [dberr.ErrUniqueViolation].
type Repository interface {
	Create(context context.Context, post NewPost) (*Post, error)
	FindByID(context context.Context, id string) (*Post, error)
	FindBySlug(context context.Context, slug string) (*Post, error)
	FindMany(context context.Context, query Query) ([]*Post, error)
	Count(context context.Context, where Predicate) (int, error)
	Update(context context.Context, id string, changes Changes) (*Post, error)
	Delete(context context.Context, id string) error
	IncrementViewCount(context context.Context, id string, delta int) (*Post, error)
}
