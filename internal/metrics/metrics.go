// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LoginTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gestor_login_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"}, // success, rejected, error
	)

	RegisterTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gestor_register_total",
			Help: "User registrations",
		},
	)

	AuthErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gestor_auth_errors_total",
			Help: "Authentication and authorization rejections by type",
		},
		[]string{"type"}, // missing_token, invalid_token, forbidden, store_error
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gestor_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)
)

func init() {
	prometheus.MustRegister(LoginTotal, RegisterTotal, AuthErrors, RequestDuration)
}

// Handler serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HTTPMiddleware records request latency by method and status.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		RequestDuration.WithLabelValues(r.Method, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}
