// Package metrics содержит коллекторы Prometheus приложения.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "booktalk"

// Исходы обращения к сервису рейтингов.
const (
	RatingsOK          = "ok"
	RatingsUnknownISBN = "unknown_isbn"
	RatingsUnavailable = "unavailable"
)

var (
	// Registry хранит коллекторы приложения.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms .. ~5s
		},
		[]string{"method", "route"},
	)

	ratingsCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ratings",
			Name:      "requests_total",
			Help:      "Total number of calls to the third-party ratings service by outcome.",
		},
		[]string{"outcome"},
	)

	ratingsDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ratings",
			Name:      "request_duration_seconds",
			Help:      "Duration of calls to the third-party ratings service.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		},
	)

	reviewsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reviews",
			Name:      "created_total",
			Help:      "Total number of persisted reviews.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		ratingsCalls,
		ratingsDuration,
		reviewsCreated,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler отдает метрики реестра приложения.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Instrument - middleware, считающее запросы по шаблону маршрута chi.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		method := strings.ToUpper(r.Method)

		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveRatingsCall учитывает обращение к сервису рейтингов.
func ObserveRatingsCall(outcome string, duration time.Duration) {
	ratingsCalls.WithLabelValues(outcome).Inc()
	ratingsDuration.Observe(duration.Seconds())
}

// ReviewCreated увеличивает счетчик сохраненных отзывов.
func ReviewCreated() {
	reviewsCreated.Inc()
}

// routePattern возвращает шаблон маршрута, чтобы ISBN из /api/{isbn} не плодил метки.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
