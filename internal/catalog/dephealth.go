// dephealth.go — мониторинг storage-service через topologymetrics.
// Метрики app_dependency_* публикуются на /metrics рядом с остальными.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // регистрация HTTP checker factory
)

// storageHealthPath — readiness endpoint storage-service.
const storageHealthPath = "/health/ready"

// DephealthConfig — параметры мониторинга storage-service.
type DephealthConfig struct {
	// ServiceID — вершина графа текущего приложения
	ServiceID string
	Group     string
	// DepName — имя зависимости в метриках и в Health()
	DepName       string
	StorageURL    string
	CheckInterval time.Duration
}

// DephealthService периодически проверяет storage-service.
type DephealthService struct {
	dh     *dephealth.DepHealth
	cfg    DephealthConfig
	logger *slog.Logger
}

// NewDephealthService создаёт мониторинг. Без opts метрики регистрируются
// в глобальном Prometheus registry.
func NewDephealthService(cfg DephealthConfig, logger *slog.Logger, opts ...dephealth.Option) (*DephealthService, error) {
	depOpts := []dephealth.DependencyOption{
		dephealth.FromURL(cfg.StorageURL),
		dephealth.WithHTTPHealthPath(storageHealthPath),
		dephealth.CheckInterval(cfg.CheckInterval),
		dephealth.Critical(true),
	}
	if u, err := url.Parse(cfg.StorageURL); err == nil && u.Scheme == "https" {
		depOpts = append(depOpts, dephealth.WithHTTPTLSSkipVerify(false))
	}

	all := append([]dephealth.Option{
		dephealth.WithLogger(logger),
		dephealth.HTTP(cfg.DepName, depOpts...),
	}, opts...)

	dh, err := dephealth.New(cfg.ServiceID, cfg.Group, all...)
	if err != nil {
		return nil, fmt.Errorf("dephealth: %w", err)
	}

	return &DephealthService{
		dh:     dh,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг storage-service запущен",
		slog.String("url", ds.cfg.StorageURL),
		slog.Duration("interval", ds.cfg.CheckInterval),
	)
	return ds.dh.Start(ctx)
}

func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг storage-service остановлен")
}

// Health — последнее состояние проверок: ключ — зависимость/endpoint, true — ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}

// Ready возвращает ошибку, если последняя проверка какой-либо
// зависимости не прошла. До первой проверки состояние пустое.
func (ds *DephealthService) Ready(context.Context) error {
	var failed []string
	for name, ok := range ds.Health() {
		if !ok {
			failed = append(failed, name)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	sort.Strings(failed)
	return fmt.Errorf("недоступны: %s", strings.Join(failed, ", "))
}
