// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-blog/internal/platform/apperr"
	"github.com/taibuivan/yomira-blog/internal/platform/respond"
	"github.com/taibuivan/yomira-blog/pkg/pagination"
)

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

/*
TestPaginated writes data, message and the pagination block.
*/
func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Paginated(recorder, []string{}, pagination.NewMeta(1, 3, 7), "Posts retrieved successfully")

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decode(t, recorder)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []any{}, body["data"])

	meta := body["pagination"].(map[string]any)
	assert.Equal(t, float64(3), meta["totalPages"])
	assert.Equal(t, true, meta["hasNext"])
	assert.Equal(t, false, meta["hasPrev"])
}

/*
TestMessage writes a data-less success envelope.
*/
func TestMessage(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Message(recorder, "Post deleted successfully")

	body := decode(t, recorder)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "data")
	assert.Equal(t, "Post deleted successfully", body["message"])
}

/*
TestError maps application errors to their status and hides unknown errors.
*/
func TestError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not_found", apperr.NotFound("Post"), http.StatusNotFound, "Post not found"},
		{"conflict", apperr.Conflict("Post with this slug already exists"), http.StatusConflict, "Post with this slug already exists"},
		{"validation", apperr.ValidationError("Validation failed"), http.StatusBadRequest, "Validation failed"},
		{"unknown", errors.New("pq: secret table"), http.StatusInternalServerError, "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/api/posts", nil)

			respond.Error(recorder, request, tt.err)

			assert.Equal(t, tt.status, recorder.Code)
			body := decode(t, recorder)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["error"])
		})
	}
}
