// Пакет server — HTTP-сервер сервисов загрузки с TLS и graceful shutdown.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	apierrors "github.com/bigkaa/presigned-upload/internal/api/errors"
	"github.com/bigkaa/presigned-upload/internal/config"
)

// Server — HTTP-сервер.
type Server struct {
	httpServer *http.Server
	router     chi.Router
	logger     *slog.Logger
	cfg        config.HTTPConfig
}

// New создаёт HTTP-сервер. mount регистрирует маршруты сервиса
// (HandlerWithOptions сгенерированного пакета).
// middlewares добавляются в порядке переданного среза после RequestID и Recoverer.
func New(
	cfg config.HTTPConfig,
	logger *slog.Logger,
	mount func(r chi.Router),
	middlewares ...func(http.Handler) http.Handler,
) *Server {
	router := chi.NewRouter()

	router.Use(chimw.RequestID)
	router.Use(chimw.Recoverer)
	for _, mw := range middlewares {
		router.Use(mw)
	}

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		apierrors.NotFound(w, "Маршрут не найден")
	})

	mount(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	if cfg.TLSCert != "" && cfg.TLSKey != "" {
		srv.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	return &Server{
		httpServer: srv,
		router:     router,
		logger:     logger,
		cfg:        cfg,
	}
}

// Handler возвращает корневой роутер.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run обслуживает запросы до SIGINT/SIGTERM или отмены ctx,
// затем ждёт завершения активных запросов не дольше cfg.ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
			slog.Bool("tls", s.tlsEnabled()),
		)
		if s.tlsEnabled() {
			serveErr <- s.httpServer.ListenAndServeTLS(s.cfg.TLSCert, s.cfg.TLSKey)
			return
		}
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("HTTP-сервер: %w", err)
	case <-ctx.Done():
		s.logger.Info("Остановка HTTP-сервера", slog.String("reason", context.Cause(ctx).Error()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP-сервер: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}

func (s *Server) tlsEnabled() bool {
	return s.httpServer.TLSConfig != nil
}
