// Package metrics exposes the service's Prometheus collectors: HTTP
// request counts and latencies plus the books/users business gauges
// refreshed on scrape.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP Requests",
	}, []string{"method", "endpoint", "status_code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	booksCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "books_count",
		Help: "Total number of books in database",
	})

	usersCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "users_count",
		Help: "Total number of registered users",
	})
)

// ObserveRequest records one handled HTTP request.
func ObserveRequest(method, endpoint string, status int, duration time.Duration) {
	requestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	requestCount.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
}

// SetBooksCount updates the books gauge.
func SetBooksCount(n int) {
	booksCount.Set(float64(n))
}

// SetUsersCount updates the users gauge.
func SetUsersCount(n int) {
	usersCount.Set(float64(n))
}

// Handler serves the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
