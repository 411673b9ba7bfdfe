// Точка входа storage-service — выдача upload-сессий по подписанным
// метаданным и приём файлов по одноразовым ссылкам.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/bigkaa/presigned-upload/internal/api/generated/storageapi"
	"github.com/bigkaa/presigned-upload/internal/api/handlers"
	"github.com/bigkaa/presigned-upload/internal/api/middleware"
	"github.com/bigkaa/presigned-upload/internal/config"
	"github.com/bigkaa/presigned-upload/internal/server"
	"github.com/bigkaa/presigned-upload/internal/service"
	"github.com/bigkaa/presigned-upload/internal/signature"
	"github.com/bigkaa/presigned-upload/internal/storage/artifactstore"
	"github.com/bigkaa/presigned-upload/internal/storage/sessionstore"
)

// jwksClientTimeout — таймаут HTTP-клиента JWKS.
const jwksClientTimeout = 10 * time.Second

func main() {
	// Загрузка конфигурации из переменных окружения
	cfg, err := config.LoadStorage()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	// Настройка логгера
	logger := config.SetupLogger(cfg.Log)
	logger.Info("Storage-service запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.HTTP.Port),
		slog.String("public_url", cfg.PublicURL),
		slog.String("session_backend", cfg.SessionBackend),
		slog.Int64("max_file_size", cfg.MaxFileSize),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Инициализация компонентов ---

	// 1. Подпись метаданных
	signer, err := signature.New([]byte(cfg.SigningSecret))
	if err != nil {
		logger.Error("Ошибка инициализации подписи", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Хранилище upload-сессий
	var (
		sessions  service.SessionStore
		gc        *service.SessionGC
		readiness = map[string]handlers.ReadinessCheck{}
	)
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		redisStore, err := sessionstore.NewRedisStore(ctx, cfg.RedisURL, cfg.SessionGCGrace, logger)
		if err != nil {
			logger.Error("Ошибка подключения к Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisStore.Close()
		sessions = redisStore
		readiness["redis"] = redisStore.Ping
		logger.Info("Хранилище сессий: Redis")
	default:
		memStore := sessionstore.NewMemoryStore(logger)
		sessions = memStore
		// Redis удаляет сессии по TTL, для памяти нужен GC
		gc = service.NewSessionGC(memStore, cfg.SessionGCInterval, cfg.SessionGCGrace, logger)
		logger.Info("Хранилище сессий: память")
	}

	// 3. Хранилище артефактов
	artifacts := artifactstore.NewMemoryStore(logger)

	// 4. Фоновая пост-обработка артефактов
	post := service.NewPostProcessor(cfg.PostProcessDelay, logger)

	// 5. Бизнес-сервисы
	sessionService := service.NewSessionService(cfg, signer, sessions, logger)
	uploadService := service.NewUploadService(sessions, artifacts, post, logger)
	validationService := service.NewValidationService(artifacts, logger)

	// 6. HTTP handlers
	apiHandler := handlers.NewStorageAPIHandler(
		handlers.NewStorageHandler(sessionService, uploadService, validationService, cfg.MaxFileSize, logger),
		handlers.NewHealthHandler("storage-service", readiness),
		server.NewMetricsHandler(),
	)

	// 7. Middleware: метрики, логирование, JWT (опционально), контракт OpenAPI
	middlewares := []func(http.Handler) http.Handler{
		middleware.MetricsMiddleware(),
		middleware.RequestLogger(logger),
	}

	if cfg.JWKSUrl != "" {
		jwtAuth, err := middleware.NewJWTAuth(middleware.JWTAuthConfig{
			JWKSURL:         cfg.JWKSUrl,
			CACertPath:      cfg.JWKSCACert,
			ClientTimeout:   jwksClientTimeout,
			RefreshInterval: cfg.JWKSRefreshInterval,
			JWTLeeway:       cfg.JWTLeeway,
			Audience:        cfg.JWTAudience,
		}, logger)
		if err != nil {
			logger.Error("Ошибка инициализации JWT", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer jwtAuth.Close()
		middlewares = append(middlewares, middleware.OnlyPrefixes(jwtAuth.Middleware(), "/internal/"))
		logger.Info("JWT-аутентификация /internal/* включена", slog.String("jwks_url", cfg.JWKSUrl))
	} else {
		logger.Warn("STORAGE_JWKS_URL не задан, /internal/* доступен без аутентификации")
	}

	swagger, err := storageapi.GetSwagger()
	if err != nil {
		logger.Error("Ошибка загрузки OpenAPI спецификации", slog.String("error", err.Error()))
		os.Exit(1)
	}
	// Тело UploadFile проверяется и ограничивается в handler
	validator, err := middleware.NewOpenAPIValidator(swagger, logger, "UploadFile")
	if err != nil {
		logger.Error("Ошибка инициализации OpenAPI валидатора", slog.String("error", err.Error()))
		os.Exit(1)
	}
	middlewares = append(middlewares, validator.Middleware())

	// 8. Фоновые процессы
	if gc != nil {
		gc.Start(ctx)
	}

	// 9. HTTP-сервер (блокирующий вызов с graceful shutdown)
	srv := server.New(cfg.HTTP, logger, handlers.MountStorage(apiHandler), middlewares...)
	runErr := srv.Run(ctx)

	// --- Остановка ---
	cancel()
	if gc != nil {
		gc.Stop()
	}

	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer waitCancel()
	if err := post.Wait(waitCtx); err != nil {
		logger.Warn("Пост-обработка не завершена", slog.String("error", err.Error()))
	}

	if runErr != nil {
		logger.Error("Ошибка сервера", slog.String("error", runErr.Error()))
		os.Exit(1)
	}
	logger.Info("Storage-service остановлен")
}
