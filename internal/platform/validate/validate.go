// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// This package is used at the HTTP boundary. Request bodies and query strings
// are checked here so that the post service only receives well-formed input.
//
// Messages name the field in sentence case, e.g. "Title must be at least 3
// characters long", and the summary lists every failure:
//
//	Validation failed: title: Title must be at least 3 characters long, slug: ...
package validate

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/taibuivan/yomira-blog/internal/platform/apperr"
	"github.com/taibuivan/yomira-blog/pkg/slug"
)

var (
	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// Validator is not safe for concurrent use; create one per request.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, label(field)+" is required")
	}
	return v
}

// MinLen fails if the rune count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("%s must be at least %d characters long", label(field), min))
	}
	return v
}

// MaxLen fails if the rune count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("%s cannot exceed %d characters", label(field), max))
	}
	return v
}

// Length is MinLen followed by MaxLen. Only the first failing bound is reported.
func (v *Validator) Length(field, value string, min, max int) *Validator {
	switch n := utf8.RuneCountInString(value); {
	case n < min:
		return v.MinLen(field, value, min)
	case n > max:
		return v.MaxLen(field, value, max)
	}
	return v
}

// Max fails if value exceeds max.
func (v *Validator) Max(field string, value, max int) *Validator {
	if value > max {
		v.add(field, fmt.Sprintf("%s cannot exceed %d", label(field), max))
	}
	return v
}

// Slug fails unless value is non-empty and made of lowercase letters, digits and hyphens.
func (v *Validator) Slug(field, value string) *Validator {
	if !slug.Valid(value) {
		v.add(field, label(field)+" can only contain lowercase letters, numbers, and hyphens")
	}
	return v
}

// OneOf fails if value is not in allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, fmt.Sprintf("%s must be one of: %s", label(field), strings.Join(allowed, ", ")))
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
//	v.Custom("title", title.IsClear(), "Title cannot be null")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a VALIDATION_ERROR [apperr.AppError] listing every failed
// rule, or nil if all rules passed.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError(summary(v.errs), v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	failure := apperr.FieldError{Field: field, Message: message}
	return apperr.ValidationError(summary([]apperr.FieldError{failure}), failure)
}

func summary(errs []apperr.FieldError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Field + ": " + e.Message
	}
	return "Validation failed: " + strings.Join(parts, ", ")
}

// label turns a JSON field name into the sentence-case subject of a message.
func label(field string) string {
	first, size := utf8.DecodeRuneInString(field)
	if size == 0 {
		return field
	}
	return string(unicode.ToUpper(first)) + field[size:]
}
