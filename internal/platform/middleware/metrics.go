// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yomira-blog/internal/platform/metrics"
)

// unmatchedRoute labels requests that no chi route claimed.
const unmatchedRoute = "unmatched"

// Metrics records request count, latency, and in-flight gauge.
// Routes are labelled by their chi pattern to keep label cardinality bounded.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, request)

			route := unmatchedRoute
			if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
				if pattern := routeContext.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			metrics.HTTPRequestsTotal.WithLabelValues(request.Method, route, strconv.Itoa(recorder.status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(request.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
