// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how the resulting metadata is delivered in the API response envelope.
package pagination

import (
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 3
	// MaxLimit is the upper bound for items per page accepted at the API boundary.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and limit of a list request.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET value derived from [Page] and [Limit].
// It saturates at math.MaxInt, so a huge page selects an empty window.
func (p Params) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewMeta constructs pagination metadata for a response.
//
// TotalPages is ceil(total/limit); HasNext and HasPrev are derived from the page.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Parse turns raw "page" and "limit" strings into [Params].
//
// # Leniency
//
// Missing, non-numeric or non-positive values fall back to [DefaultPage] and
// [DefaultLimit]. A malformed value is treated as absent, never as an error.
func Parse(page, limit string) Params {
	return Params{
		Page:  parsePositive(page, DefaultPage),
		Limit: parsePositive(limit, DefaultLimit),
	}
}

// parsePositive parses a single positive integer with a fallback default.
func parsePositive(raw string, defaultVal int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return defaultVal
	}

	return n
}
