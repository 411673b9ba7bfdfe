// metrics.go — Prometheus метрики сервисов загрузки.
// HTTP метрики: presign_http_requests_total, presign_http_request_duration_seconds.
// Бизнес-метрики экспортируются для обновления из сервисного слоя.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presign_http_requests_total",
			Help: "Общее количество HTTP-запросов",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "presign_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Бизнес-метрики storage-service
var (
	// SessionsCreatedTotal — количество выданных upload-сессий.
	SessionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "presign_sessions_created_total",
			Help: "Общее количество выданных upload-сессий",
		},
	)

	// SessionsRejectedTotal — количество отклонённых запросов на выдачу сессии.
	SessionsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presign_sessions_rejected_total",
			Help: "Общее количество отклонённых запросов на выдачу сессии",
		},
		[]string{"reason"},
	)

	// UploadsTotal — результаты финализации загрузок.
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presign_uploads_total",
			Help: "Общее количество попыток финализации загрузки",
		},
		[]string{"result"},
	)

	// ArtifactsTotal — текущее количество артефактов.
	ArtifactsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "presign_artifacts_total",
			Help: "Текущее количество сохранённых артефактов",
		},
	)

	// ArtifactBytes — суммарный объём артефактов.
	ArtifactBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "presign_artifact_bytes",
			Help: "Суммарный объём сохранённых артефактов в байтах",
		},
	)
)

// Бизнес-метрики catalog-service
var (
	// GrantsRequestedTotal — результаты запросов на загрузку.
	GrantsRequestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presign_grants_requested_total",
			Help: "Общее количество запросов разрешения на загрузку",
		},
		[]string{"result"},
	)

	// ImageCacheRequestsTotal — обращения к кэшу проверенных изображений.
	ImageCacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presign_image_cache_requests_total",
			Help: "Обращения к кэшу проверенных изображений",
		},
		[]string{"result"},
	)

	// ProductsTotal — текущее количество товаров.
	ProductsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "presign_products_total",
			Help: "Текущее количество товаров каталога",
		},
	)
)

// MetricsMiddleware считает запросы и длительность по шаблону маршрута chi.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := wrapWriter(w, r)

			next.ServeHTTP(ww, r)

			// Шаблон маршрута chi известен только после обработки запроса
			route := routePattern(r)
			status := strconv.Itoa(responseStatus(ww))

			httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// routePattern возвращает шаблон маршрута chi (/upload/{uploadId})
// или нормализованный путь, если маршрут не найден.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return normalizePath(r.URL.Path)
}

// normalizePath заменяет UUID-сегменты пути на {id} для предотвращения
// взрывного роста кардинальности метрик.
// /upload/a1b2c3d4-e5f6-7890-abcd-ef1234567890 → /upload/{id}
func normalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if isUUID(s) {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}

// isUUID проверяет каноническую форму UUID 8-4-4-4-12.
func isUUID(segment string) bool {
	return len(segment) == 36 && uuid.Validate(segment) == nil
}
