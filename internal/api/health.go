// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/yomira-blog/internal/platform/constants"
	"github.com/taibuivan/yomira-blog/internal/platform/respond"
)

// checkTimeout bounds a single dependency probe.
const checkTimeout = 2 * time.Second

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
// A nil checker is skipped; the cache is optional.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func(context.Context) error

	// CheckCache pings the Redis client.
	CheckCache func(context.Context) error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{constants.FieldStatus: "ok"}, "")
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// readiness handles GET /ready (Readiness probe).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, 2)
	isSystemReady := true

	for _, dependency := range []struct {
		name  string
		check func(context.Context) error
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
	} {
		if dependency.check == nil {
			continue
		}

		ctx, cancel := context.WithTimeout(request.Context(), checkTimeout)
		err := dependency.check(ctx)
		cancel()

		result := checkResult{Name: dependency.name, IsOK: err == nil}
		if err != nil {
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.ErrorContext(request.Context(), "readiness_check_failed",
				slog.String("dependency", dependency.name),
				slog.Any("error", err),
			)
		}
		results = append(results, result)
	}

	responseStatus, httpStatus := "ready", http.StatusOK
	if !isSystemReady {
		responseStatus, httpStatus = "degraded", http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, respond.Envelope{
		Success: isSystemReady,
		Data: map[string]any{
			constants.FieldStatus: responseStatus,
			constants.FieldChecks: results,
		},
	})
}

// serviceInfo handles GET / with a short index of the API.
func serviceInfo(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]any{
		constants.FieldApp:     constants.AppName,
		constants.FieldVersion: constants.AppVersion,
		"endpoints": map[string]string{
			"posts":  "/api/posts",
			"health": "/health",
			"ready":  "/ready",
		},
	}, "Blog API is running")
}
