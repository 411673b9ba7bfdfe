// gc.go — фоновая очистка заброшенных upload-сессий.
//
// Сессия, по которой так и не пришла загрузка, остаётся в памяти.
// GC удаляет сессии, истёкшие раньше now - grace. Недавно истёкшие
// сессии сохраняются, чтобы финализация отвечала EXPIRED, а не
// UPLOAD_NOT_FOUND.
//
// Запускается как горутина с периодическим тикером (STORAGE_SESSION_GC_INTERVAL)
// только для memory backend: в Redis сессии удаляются по TTL.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus метрики GC
var (
	// gcRunsTotal — количество запусков GC.
	gcRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "presign_session_gc_runs_total",
		Help: "Общее количество запусков GC сессий",
	})

	// gcSessionsPurgedTotal — количество удалённых сессий.
	gcSessionsPurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "presign_session_gc_purged_total",
		Help: "Общее количество сессий, удалённых GC",
	})

	// activeSessions — количество сессий в памяти после последнего GC.
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "presign_sessions_active",
		Help: "Количество upload-сессий в памяти",
	})

	// gcDurationSeconds — длительность выполнения GC.
	gcDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "presign_session_gc_duration_seconds",
		Help:    "Длительность выполнения GC сессий в секундах",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1},
	})
)

// SessionPurger — хранилище, поддерживающее очистку просроченных сессий.
type SessionPurger interface {
	PurgeExpired(before time.Time) int
	Count() int
}

// GCResult — результат одного запуска GC.
type GCResult struct {
	// PurgedCount — количество удалённых сессий
	PurgedCount int
	// Remaining — количество сессий после очистки
	Remaining int
	// Duration — длительность выполнения
	Duration time.Duration
}

// SessionGC — сервис фоновой очистки сессий.
type SessionGC struct {
	store    SessionPurger
	interval time.Duration
	grace    time.Duration
	logger   *slog.Logger

	mu     sync.Mutex // защита от параллельного запуска RunOnce
	cancel context.CancelFunc
	done   chan struct{}

	// now подменяется в тестах
	now func() time.Time
}

// NewSessionGC создаёт сервис GC сессий.
func NewSessionGC(store SessionPurger, interval, grace time.Duration, logger *slog.Logger) *SessionGC {
	return &SessionGC{
		store:    store,
		interval: interval,
		grace:    grace,
		logger:   logger.With(slog.String("component", "session_gc")),
		now:      time.Now,
	}
}

// Start запускает фоновую горутину GC с периодическим тикером.
// Вызывается один раз при старте приложения.
func (gc *SessionGC) Start(ctx context.Context) {
	gcCtx, cancel := context.WithCancel(ctx)
	gc.cancel = cancel
	gc.done = make(chan struct{})

	go gc.run(gcCtx)

	gc.logger.Info("GC сессий запущен",
		slog.String("interval", gc.interval.String()),
		slog.String("grace", gc.grace.String()),
	)
}

// Stop останавливает фоновый процесс GC и дожидается выхода горутины.
func (gc *SessionGC) Stop() {
	if gc.cancel == nil {
		return
	}
	gc.cancel()
	<-gc.done
	gc.logger.Info("GC сессий остановлен")
}

// run — основной цикл фоновой горутины.
func (gc *SessionGC) run(ctx context.Context) {
	defer close(gc.done)

	ticker := time.NewTicker(gc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gc.RunOnce()
		}
	}
}

// RunOnce выполняет один цикл GC.
// Потокобезопасен: использует mutex для защиты от параллельного запуска.
func (gc *SessionGC) RunOnce() *GCResult {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	start := time.Now()
	result := &GCResult{}

	result.PurgedCount = gc.store.PurgeExpired(gc.now().Add(-gc.grace))
	result.Remaining = gc.store.Count()
	result.Duration = time.Since(start)

	gcRunsTotal.Inc()
	gcSessionsPurgedTotal.Add(float64(result.PurgedCount))
	activeSessions.Set(float64(result.Remaining))
	gcDurationSeconds.Observe(result.Duration.Seconds())

	gc.logger.Debug("GC сессий завершён",
		slog.Int("purged", result.PurgedCount),
		slog.Int("remaining", result.Remaining),
		slog.Duration("duration", result.Duration),
	)

	return result
}
