package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fsenterprise/billing-backend/pkg/metrics"
	"github.com/go-chi/chi/v5"
)

// Metrics records per-route request counts and latencies. It runs inside the
// chi router so the matched route pattern is available as a label.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			m.ObserveRequest(r.Method, route, strconv.Itoa(rec.status), time.Since(start))
		})
	}
}
