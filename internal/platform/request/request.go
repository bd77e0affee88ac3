// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-blog/internal/platform/apperr"
	"github.com/taibuivan/yomira-blog/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (used to enforce the body size limit)
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
RequiredParam retrieves a named URL parameter and rejects blank values.

Returns:
  - string: The parameter value
  - error: apperr.BadRequest if the parameter is empty
*/
func RequiredParam(request *http.Request, name string) (string, error) {
	value := strings.TrimSpace(chi.URLParam(request, name))
	if value == "" {
		return "", apperr.BadRequest("Missing path parameter: " + name)
	}
	return value, nil
}

/*
Query returns a query-string value, or "" when absent.
*/
func Query(request *http.Request, name string) string {
	return request.URL.Query().Get(name)
}
