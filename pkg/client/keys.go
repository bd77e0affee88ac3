// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import "github.com/taibuivan/yomira-blog/pkg/querycache"

// Query keys for post data.
//
//	["posts"]                      everything
//	["posts","list",<filters>]     one list page
//	["posts","detail",<id>]        one post by id
//	["posts","slug",<slug>]        one post by slug
var (
	AllPostsKey = querycache.NewKey("posts")
	ListsKey    = AllPostsKey.Append("list")
	DetailsKey  = AllPostsKey.Append("detail")
)

// ListKey identifies the page selected by filter. Filters are canonicalised,
// so equal filters always share an entry.
func ListKey(filter ListFilter) querycache.Key {
	return ListsKey.Append(filter.Values().Encode())
}

// DetailKey identifies a post by id.
func DetailKey(id string) querycache.Key {
	return DetailsKey.Append(id)
}

// SlugKey identifies a post by slug.
func SlugKey(slug string) querycache.Key {
	return AllPostsKey.Append("slug", slug)
}
