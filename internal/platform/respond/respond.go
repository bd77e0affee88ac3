// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// Every response (Success or Error) follows the same JSON envelope:
//
//	{"success": bool, "data"?, "message"?, "error"?, "code"?, "details"?, "pagination"?}
//
// The browser client decodes this shape for every endpoint.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/taibuivan/yomira-blog/internal/platform/apperr"
	"github.com/taibuivan/yomira-blog/internal/platform/ctxutil"
	"github.com/taibuivan/yomira-blog/pkg/pagination"
)

// Envelope is the JSON body of every API response.
type Envelope struct {
	Success    bool                `json:"success"`
	Data       any                 `json:"data,omitempty"`
	Message    string              `json:"message,omitempty"`
	Error      string              `json:"error,omitempty"`
	Code       string              `json:"code,omitempty"`
	Details    []apperr.FieldError `json:"details,omitempty"`
	Pagination *pagination.Meta    `json:"pagination,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the success envelope.
func OK(writer http.ResponseWriter, data any, message string) {
	JSON(writer, http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

// Created writes a 201 Created response with data wrapped in the success envelope.
func Created(writer http.ResponseWriter, data any, message string) {
	JSON(writer, http.StatusCreated, Envelope{Success: true, Data: data, Message: message})
}

// Paginated writes a 200 OK response with list data and a pagination block.
func Paginated(writer http.ResponseWriter, data any, metadata pagination.Meta, message string) {
	JSON(writer, http.StatusOK, Envelope{Success: true, Data: data, Message: message, Pagination: &metadata})
}

// Message writes a 200 OK response that carries only a message (e.g. after a delete).
func Message(writer http.ResponseWriter, message string) {
	JSON(writer, http.StatusOK, Envelope{Success: true, Message: message})
}

// Error converts any Go error into a standardized JSON API error response.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	logger := ctxutil.GetLogger(request.Context())

	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		// Unexpected internal error: log full details but hide them from the client.
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= 500 {
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, Envelope{
		Success: false,
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}
