// health.go — обработчики health endpoints для Kubernetes probes.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bigkaa/presigned-upload/internal/config"
)

const (
	statusOK   = "ok"
	statusFail = "fail"

	// readinessTimeout — общий таймаут проверок готовности.
	readinessTimeout = 2 * time.Second
)

// ReadinessCheck — проверка одной зависимости. nil — зависимость доступна.
type ReadinessCheck func(ctx context.Context) error

// healthResponse — тело ответа health endpoints.
type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler реализует /health/live и /health/ready.
type HealthHandler struct {
	service string
	version string
	checks  map[string]ReadinessCheck
}

// NewHealthHandler создаёт обработчик health endpoints.
// checks — именованные проверки зависимостей для readiness (может быть nil).
func NewHealthHandler(service string, checks map[string]ReadinessCheck) *HealthHandler {
	return &HealthHandler{
		service: service,
		version: config.Version,
		checks:  checks,
	}
}

// HealthLive обрабатывает GET /health/live.
// Возвращает 200, если процесс жив. Зависимости не проверяются.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    statusOK,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Service:   h.service,
	})
}

// HealthReady обрабатывает GET /health/ready.
// Любая неуспешная проверка — 503.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	overall := statusOK
	httpStatus := http.StatusOK
	results := make(map[string]string, len(h.checks))

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = statusFail + ": " + err.Error()
			overall = statusFail
			httpStatus = http.StatusServiceUnavailable
			continue
		}
		results[name] = statusOK
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:    overall,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Service:   h.service,
		Checks:    results,
	})
}
