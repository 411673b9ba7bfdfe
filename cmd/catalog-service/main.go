// Точка входа catalog-service — выдача разрешений на загрузку
// изображений и каталог товаров.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bigkaa/presigned-upload/internal/api/generated/catalogapi"
	"github.com/bigkaa/presigned-upload/internal/api/handlers"
	"github.com/bigkaa/presigned-upload/internal/api/middleware"
	"github.com/bigkaa/presigned-upload/internal/catalog"
	"github.com/bigkaa/presigned-upload/internal/config"
	"github.com/bigkaa/presigned-upload/internal/server"
	"github.com/bigkaa/presigned-upload/internal/signature"
	"github.com/bigkaa/presigned-upload/internal/storage/productstore"
	"github.com/bigkaa/presigned-upload/internal/storageclient"
)

// serviceID — имя вершины графа зависимостей в метриках topologymetrics.
const serviceID = "catalog-service"

func main() {
	// Загрузка конфигурации из переменных окружения
	cfg, err := config.LoadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	// Настройка логгера
	logger := config.SetupLogger(cfg.Log)
	logger.Info("Catalog-service запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.HTTP.Port),
		slog.String("storage_url", cfg.StorageURL),
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

	// 2. Клиент storage-service
	storageClient, err := storageclient.New(storageclient.Config{
		BaseURL:    cfg.StorageURL,
		Token:      cfg.StorageToken,
		CACertPath: cfg.StorageCACert,
		Timeout:    cfg.StorageTimeout,
	}, logger)
	if err != nil {
		logger.Error("Ошибка инициализации клиента storage-service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 3. Бизнес-сервисы
	grantService := catalog.NewGrantService(cfg, signer, storageClient, logger)
	imageCache := catalog.NewImageCache(cfg.ImageCacheSize, cfg.ImageCacheTTL)
	productService := catalog.NewProductService(productstore.NewMemoryStore(), storageClient, imageCache, logger)

	// 4. Мониторинг storage-service (topologymetrics)
	dephealthSvc, err := catalog.NewDephealthService(catalog.DephealthConfig{
		ServiceID:     serviceID,
		Group:         cfg.DephealthGroup,
		DepName:       cfg.DephealthDepName,
		StorageURL:    cfg.StorageURL,
		CheckInterval: cfg.DephealthCheckInterval,
	}, logger)
	if err != nil {
		logger.Error("Ошибка инициализации dephealth", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := dephealthSvc.Start(ctx); err != nil {
		logger.Error("Ошибка запуска dephealth", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. HTTP handlers
	apiHandler := handlers.NewCatalogAPIHandler(
		handlers.NewCatalogHandler(grantService, productService),
		handlers.NewHealthHandler(serviceID, map[string]handlers.ReadinessCheck{
			cfg.DephealthDepName: dephealthSvc.Ready,
		}),
		server.NewMetricsHandler(),
	)

	// 6. Контракт OpenAPI
	swagger, err := catalogapi.GetSwagger()
	if err != nil {
		logger.Error("Ошибка загрузки OpenAPI спецификации", slog.String("error", err.Error()))
		os.Exit(1)
	}
	validator, err := middleware.NewOpenAPIValidator(swagger, logger)
	if err != nil {
		logger.Error("Ошибка инициализации OpenAPI валидатора", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 7. HTTP-сервер: API-ключ только для /api/*, health и metrics открыты
	srv := server.New(cfg.HTTP, logger, handlers.MountCatalog(apiHandler),
		middleware.MetricsMiddleware(),
		middleware.RequestLogger(logger),
		middleware.OnlyPrefixes(middleware.NewAPIKeyAuth(cfg.APIKey, logger).Middleware(), "/api/"),
		validator.Middleware(),
	)
	runErr := srv.Run(ctx)

	// --- Остановка ---
	cancel()
	dephealthSvc.Stop()

	if runErr != nil {
		logger.Error("Ошибка сервера", slog.String("error", runErr.Error()))
		os.Exit(1)
	}
	logger.Info("Catalog-service остановлен")
}
