// metrics.go — Prometheus HTTP метрики api-module.
// Регистрирует метрики: ap_http_requests_total, ap_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ap_http_requests_total",
			Help: "Общее количество HTTP-запросов к api-module",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ap_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к api-module в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Нормализуем путь для лейблов метрик
			// (заменяем идентификаторы на {id} для предотвращения кардинальности)
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newStatusResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// statusResponseWriter — обёртка для перехвата статус-кода.
type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newStatusResponseWriter(w http.ResponseWriter) *statusResponseWriter {
	return &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *statusResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *statusResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// normalizePath заменяет идентификаторы в пути на плейсхолдеры для
// предотвращения взрывного роста кардинальности метрик.
// /api/v1/categories/a1b2c3d4-... → /api/v1/categories/{id}
func normalizePath(path string) string {
	// Статические пути — возвращаем как есть
	switch path {
	case "/health/live", "/health/ready", "/metrics",
		"/api/v1/auth/login",
		"/api/v1/auth/me",
		"/api/v1/categories",
		"/api/v1/activities",
		"/api/v1/catalog/categories",
		"/api/v1/catalog/activities",
		"/api/v1/admin/users",
		"/api/v1/admin/categories",
		"/api/v1/admin/activities":
		return path
	}

	// Динамические пути с идентификатором в последнем сегменте
	prefixes := []struct {
		prefix string
		result string
	}{
		{"/api/v1/categories/", "/api/v1/categories/{id}"},
		{"/api/v1/activities/", "/api/v1/activities/{id}"},
		{"/api/v1/admin/categories/", "/api/v1/admin/categories/{id}"},
		{"/api/v1/admin/activities/", "/api/v1/admin/activities/{id}"},
		{"/api/v1/admin/users/", "/api/v1/admin/users/{subject}"},
	}

	for _, p := range prefixes {
		if !strings.HasPrefix(path, p.prefix) || len(path) == len(p.prefix) {
			continue
		}
		rest := path[len(p.prefix):]
		// Суффиксы операций после subject: /role, /status
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			return p.result + rest[idx:]
		}
		return p.result
	}

	return path
}
