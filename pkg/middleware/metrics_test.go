package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gio213/rent-and-go/pkg/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsLabelsByRoutePattern(t *testing.T) {
	m := metrics.NewMetrics()

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/api/cars/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{
		"/api/cars/7b0c9a52-1f36-4a0a-9a78-6a1f6f6b9e01",
		"/api/cars/3b52e5a1-8f0f-4f7e-b2a9-9f3d1d2c4e02",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// Both requests collapse into the one pattern series.
	count := testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/api/cars/{id}", "200"))
	assert.Equal(t, 2.0, count)

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "rentandgo_http_requests_total" {
			assert.Len(t, mf.GetMetric(), 1)
		}
	}
}
