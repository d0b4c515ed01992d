package middleware

import (
	"net/http"
	"strconv"

	"github.com/gio213/rent-and-go/pkg/metrics"

	"github.com/go-chi/chi/v5"
)

// Metrics counts requests by method, route pattern and status. The chi
// route pattern ("/api/cars/{id}") keeps label cardinality bounded; the
// raw path would mint a new series per id.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}

			m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(rw.statusCode)).Inc()
		})
	}
}
