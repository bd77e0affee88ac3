// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates URL slugs for posts from their titles.
//
// # Usage
//
// Slugs are the human-readable identifiers of posts (e.g., "hello-world").
// Generation is deterministic and pure; uniqueness is handled by the post
// service, not here.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
	// validSlug matches a user-supplied slug: lowercase letters, digits, hyphens.
	validSlug = regexp.MustCompile(`^[a-z0-9-]+$`)

	lower = cases.Lower(language.Und)
)

// Generate converts a post title into a URL slug.
//
// # Transformation Pipeline
//
// 1. Converts to lowercase.
// 2. Drops every character outside [a-z0-9], whitespace and '-'.
// 3. Replaces each run of whitespace with a single hyphen.
// 4. Collapses multiple hyphens and trims leading/trailing hyphens.
//
// Titles without any ASCII letter or digit yield an empty string.
func Generate(title string) string {
	// 1. Lowercase
	result := lower.String(title)

	// 2. Strip everything that cannot appear in a slug
	result = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case unicode.IsSpace(r), r == '\uFEFF':
			return ' '
		}
		return -1
	}, result)

	// 3. Whitespace runs become single hyphens
	result = strings.Join(strings.Fields(result), "-")

	// 4. Clean up hyphenation
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	return result
}

// Valid reports whether s is acceptable as a client-supplied slug.
func Valid(s string) bool {
	return validSlug.MatchString(s)
}
