// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer holds small generic helpers for optional fields.
//
// Create and update inputs model "not provided" as a nil pointer; these
// helpers keep call sites free of temporary variables.
package pointer

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, returning the zero value when p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Or dereferences p, returning fallback when p is nil.
func Or[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

// NonEmpty returns nil for a nil pointer or an empty string, otherwise p.
//
//	pointer.NonEmpty(pointer.To(""))    // nil
//	pointer.NonEmpty(pointer.To("foo")) // &"foo"
func NonEmpty(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return p
}
