// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"github.com/taibuivan/yomira-blog/pkg/pagination"
)

// searchFields are the attributes a search term is matched against.
var searchFields = []string{FieldTitle, FieldContent, FieldExcerpt}

/*
BuildListQuery translates raw list parameters into a store [Query].

Description: Page and limit are parsed leniently (see [pagination.Parse]).
An unknown sort key falls back to createdAt and any direction other than
"asc" means descending. Only an empty search term produces an empty predicate.

Parameters:
  - filter: ListFilter (Raw query-string values)

Returns:
  - Query: Predicate, ordering and window
  - pagination.Params: The effective page and limit
*/
func BuildListQuery(filter ListFilter) (Query, pagination.Params) {
	params := pagination.Parse(filter.Page, filter.Limit)

	query := Query{
		OrderBy:   parseSortField(filter.SortBy),
		Direction: parseDirection(filter.SortOrder),
		Skip:      params.Offset(),
		Take:      params.Limit,
	}

	// The term is matched verbatim, surrounding whitespace included.
	if filter.Search != "" {
		query.Where = Predicate{Search: filter.Search, Fields: searchFields}
	}

	return query, params
}

func parseSortField(raw string) SortField {
	switch SortField(raw) {
	case SortTitle, SortViewCount, SortUpdatedAt, SortCreatedAt:
		return SortField(raw)
	default:
		return SortCreatedAt
	}
}

func parseDirection(raw string) Direction {
	if Direction(raw) == Asc {
		return Asc
	}
	return Desc
}
