// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns the repositories query, so SQL
// builders never carry bare identifiers.
package schema

// BlogPostTable represents the 'blog.post' table
type BlogPostTable struct {
	Table     string
	ID        string
	Title     string
	Content   string
	Excerpt   string
	Slug      string
	ViewCount string
	CreatedAt string
	UpdatedAt string
}

// BlogPost is the schema definition for blog.post
var BlogPost = BlogPostTable{
	Table:     "blog.post",
	ID:        "id",
	Title:     "title",
	Content:   "content",
	Excerpt:   "excerpt",
	Slug:      "slug",
	ViewCount: "viewcount",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns lists every column in scan order.
func (t BlogPostTable) Columns() []string {
	return []string{t.ID, t.Title, t.Content, t.Excerpt, t.Slug, t.ViewCount, t.CreatedAt, t.UpdatedAt}
}
