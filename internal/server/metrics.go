package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler отдаёт метрики глобального Prometheus registry
// в формате exposition (GET /metrics).
type MetricsHandler struct {
	prom http.Handler
}

func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{prom: promhttp.Handler()}
}

func (m *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	m.prom.ServeHTTP(w, r)
}
