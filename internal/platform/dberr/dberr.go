// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Repositories return [ErrNotFound] and [ErrUniqueViolation] as sentinels so
// that services can translate them into resource-specific messages with
// [errors.Is]. Every other failure is wrapped as an internal error with the
// original cause preserved.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yomira-blog/internal/platform/apperr"
)

// SQLSTATE codes the repositories care about.
const (
	codeUniqueViolation = "23505"
)

var (
	// ErrNotFound is returned when a queried or targeted row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")

	// ErrUniqueViolation is returned when a write breaks a UNIQUE constraint.
	ErrUniqueViolation = apperr.Conflict("Resource already exists")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violations
	if IsUniqueViolation(err) {
		return ErrUniqueViolation
	}

	// 3. Unknown query errors become Internal Server Errors
	internal := apperr.Internal(err)
	if action != "" {
		internal.Cause = &actionError{action: action, err: err}
	}
	return internal
}

// IsUniqueViolation reports whether err carries Postgres SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// actionError prefixes a store error with the repository action that failed.
type actionError struct {
	action string
	err    error
}

func (e *actionError) Error() string { return "postgres: " + e.action + ": " + e.err.Error() }

func (e *actionError) Unwrap() error { return e.err }
