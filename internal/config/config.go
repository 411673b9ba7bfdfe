// Пакет config — загрузка и валидация конфигурации сервисов
// из переменных окружения.
//
// LoadStorage читает параметры storage-service (префикс STORAGE_),
// LoadCatalog — catalog-service (префикс CATALOG_). Секрет подписи
// SIGNING_SECRET общий для обоих сервисов и обязателен.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Бэкенды хранилища сессий.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// defaultMaxFileSize — 10 MiB.
const defaultMaxFileSize = 10 * 1024 * 1024

// HTTPConfig — параметры HTTP-сервера.
type HTTPConfig struct {
	// Порт HTTP-сервера
	Port int
	// Таймауты чтения, записи и простоя соединения
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// Таймаут graceful shutdown
	ShutdownTimeout time.Duration
	// Пути к TLS сертификату и ключу (если пусты — HTTP без TLS)
	TLSCert string
	TLSKey  string
}

// LogConfig — параметры логирования.
type LogConfig struct {
	// Уровень логирования (debug, info, warn, error)
	Level slog.Level
	// Формат логов (json, text)
	Format string
}

// StorageConfig — конфигурация storage-service.
type StorageConfig struct {
	HTTP HTTPConfig
	Log  LogConfig

	// Внешний базовый URL, из которого строится uploadUrl
	PublicURL string
	// Общий секрет HMAC-подписи метаданных
	SigningSecret string
	// Максимальный размер файла в байтах
	MaxFileSize int64
	// Допустимое отклонение timestamp метаданных от текущего времени
	TimestampTolerance time.Duration
	// Максимальное время жизни upload-сессии
	MaxSessionTTL time.Duration

	// Бэкенд хранилища сессий: memory или redis
	SessionBackend string
	// URL Redis (обязателен для backend=redis)
	RedisURL string
	// Интервал очистки просроченных сессий (memory backend)
	SessionGCInterval time.Duration
	// Сколько хранить сессию после истечения, чтобы отвечать EXPIRED
	SessionGCGrace time.Duration

	// URL JWKS endpoint (опционально, включает JWT на /internal/*)
	JWKSUrl string
	// Путь к CA-сертификату для JWKS endpoint (опционально)
	JWKSCACert string
	// Интервал обновления JWKS
	JWKSRefreshInterval time.Duration
	// Допустимое расхождение часов при проверке exp/nbf
	JWTLeeway time.Duration
	// Ожидаемый aud сервисных токенов (опционально)
	JWTAudience string

	// Задержка фоновой пост-обработки артефакта
	PostProcessDelay time.Duration
}

// CatalogConfig — конфигурация catalog-service.
type CatalogConfig struct {
	HTTP HTTPConfig
	Log  LogConfig

	// API-ключ для /api/* (заголовок X-API-KEY)
	APIKey string
	// Общий секрет HMAC-подписи метаданных
	SigningSecret string

	// Базовый URL storage-service
	StorageURL string
	// Bearer-токен для /internal/* storage-service (опционально)
	StorageToken string
	// Путь к CA-сертификату storage-service (опционально)
	StorageCACert string
	// Таймаут запросов к storage-service
	StorageTimeout time.Duration

	// Ограничения запроса на загрузку
	MaxFileSize          int64
	AllowedContentPrefix string
	// Время жизни выдаваемой upload-сессии
	UploadExpiresIn time.Duration

	// Кэш проверенных изображений
	ImageCacheSize int
	ImageCacheTTL  time.Duration

	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration
	// Имя группы в метриках topologymetrics
	DephealthGroup string
	// Имя зависимости в метриках topologymetrics
	DephealthDepName string
}

// LoadStorage загружает конфигурацию storage-service из переменных окружения.
func LoadStorage() (*StorageConfig, error) {
	cfg := &StorageConfig{}
	var err error

	cfg.HTTP, err = loadHTTP("STORAGE", 5001)
	if err != nil {
		return nil, err
	}
	cfg.Log, err = loadLog("STORAGE")
	if err != nil {
		return nil, err
	}

	// STORAGE_PUBLIC_URL — по умолчанию http://localhost:<port>
	cfg.PublicURL = strings.TrimRight(
		getEnvDefault("STORAGE_PUBLIC_URL", fmt.Sprintf("http://localhost:%d", cfg.HTTP.Port)), "/")

	// SIGNING_SECRET — обязательный, значения по умолчанию нет
	cfg.SigningSecret, err = getEnvRequired("SIGNING_SECRET")
	if err != nil {
		return nil, err
	}

	cfg.MaxFileSize, err = getEnvInt64("STORAGE_MAX_FILE_SIZE", defaultMaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("STORAGE_MAX_FILE_SIZE: %w", err)
	}
	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("STORAGE_MAX_FILE_SIZE: значение должно быть положительным")
	}

	cfg.TimestampTolerance, err = getEnvDuration("STORAGE_TIMESTAMP_TOLERANCE", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("STORAGE_TIMESTAMP_TOLERANCE: %w", err)
	}
	if err := requireNonNegative("STORAGE_TIMESTAMP_TOLERANCE", cfg.TimestampTolerance); err != nil {
		return nil, err
	}

	cfg.MaxSessionTTL, err = getEnvDuration("STORAGE_MAX_SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("STORAGE_MAX_SESSION_TTL: %w", err)
	}
	if err := requirePositive("STORAGE_MAX_SESSION_TTL", cfg.MaxSessionTTL); err != nil {
		return nil, err
	}

	// STORAGE_SESSION_BACKEND — memory или redis (по умолчанию memory)
	cfg.SessionBackend = getEnvDefault("STORAGE_SESSION_BACKEND", SessionBackendMemory)
	switch cfg.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		cfg.RedisURL, err = getEnvRequired("STORAGE_REDIS_URL")
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("STORAGE_SESSION_BACKEND: недопустимое значение %q, допустимые: memory, redis", cfg.SessionBackend)
	}

	cfg.SessionGCInterval, err = getEnvDuration("STORAGE_SESSION_GC_INTERVAL", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("STORAGE_SESSION_GC_INTERVAL: %w", err)
	}
	if err := requirePositive("STORAGE_SESSION_GC_INTERVAL", cfg.SessionGCInterval); err != nil {
		return nil, err
	}
	cfg.SessionGCGrace, err = getEnvDuration("STORAGE_SESSION_GC_GRACE", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("STORAGE_SESSION_GC_GRACE: %w", err)
	}
	if err := requireNonNegative("STORAGE_SESSION_GC_GRACE", cfg.SessionGCGrace); err != nil {
		return nil, err
	}

	cfg.JWKSUrl = getEnvDefault("STORAGE_JWKS_URL", "")
	cfg.JWKSCACert = getEnvDefault("STORAGE_JWKS_CA_CERT", "")
	cfg.JWKSRefreshInterval, err = getEnvDuration("STORAGE_JWKS_REFRESH_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("STORAGE_JWKS_REFRESH_INTERVAL: %w", err)
	}
	cfg.JWTLeeway, err = getEnvDuration("STORAGE_JWT_LEEWAY", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("STORAGE_JWT_LEEWAY: %w", err)
	}
	if err := requireNonNegative("STORAGE_JWT_LEEWAY", cfg.JWTLeeway); err != nil {
		return nil, err
	}
	cfg.JWTAudience = getEnvDefault("STORAGE_JWT_AUDIENCE", "")

	cfg.PostProcessDelay, err = getEnvDuration("STORAGE_POSTPROCESS_DELAY", time.Second)
	if err != nil {
		return nil, fmt.Errorf("STORAGE_POSTPROCESS_DELAY: %w", err)
	}
	if err := requireNonNegative("STORAGE_POSTPROCESS_DELAY", cfg.PostProcessDelay); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadCatalog загружает конфигурацию catalog-service из переменных окружения.
func LoadCatalog() (*CatalogConfig, error) {
	cfg := &CatalogConfig{}
	var err error

	cfg.HTTP, err = loadHTTP("CATALOG", 5000)
	if err != nil {
		return nil, err
	}
	cfg.Log, err = loadLog("CATALOG")
	if err != nil {
		return nil, err
	}

	// CATALOG_API_KEY — обязательный, значения по умолчанию нет
	cfg.APIKey, err = getEnvRequired("CATALOG_API_KEY")
	if err != nil {
		return nil, err
	}
	cfg.SigningSecret, err = getEnvRequired("SIGNING_SECRET")
	if err != nil {
		return nil, err
	}

	cfg.StorageURL = strings.TrimRight(getEnvDefault("CATALOG_STORAGE_URL", "http://localhost:5001"), "/")
	cfg.StorageToken = getEnvDefault("CATALOG_STORAGE_TOKEN", "")
	cfg.StorageCACert = getEnvDefault("CATALOG_STORAGE_CA_CERT", "")
	cfg.StorageTimeout, err = getEnvDuration("CATALOG_STORAGE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CATALOG_STORAGE_TIMEOUT: %w", err)
	}
	if err := requirePositive("CATALOG_STORAGE_TIMEOUT", cfg.StorageTimeout); err != nil {
		return nil, err
	}

	cfg.MaxFileSize, err = getEnvInt64("CATALOG_MAX_FILE_SIZE", defaultMaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("CATALOG_MAX_FILE_SIZE: %w", err)
	}
	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("CATALOG_MAX_FILE_SIZE: значение должно быть положительным")
	}
	cfg.AllowedContentPrefix = getEnvDefault("CATALOG_ALLOWED_CONTENT_PREFIX", "image/")

	cfg.UploadExpiresIn, err = getEnvDuration("CATALOG_UPLOAD_EXPIRES_IN", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("CATALOG_UPLOAD_EXPIRES_IN: %w", err)
	}
	if cfg.UploadExpiresIn < time.Second {
		return nil, fmt.Errorf("CATALOG_UPLOAD_EXPIRES_IN: значение должно быть не меньше 1s")
	}

	cfg.ImageCacheSize, err = getEnvInt("CATALOG_IMAGE_CACHE_SIZE", 1000)
	if err != nil {
		return nil, fmt.Errorf("CATALOG_IMAGE_CACHE_SIZE: %w", err)
	}
	if cfg.ImageCacheSize <= 0 {
		return nil, fmt.Errorf("CATALOG_IMAGE_CACHE_SIZE: значение должно быть положительным")
	}
	cfg.ImageCacheTTL, err = getEnvDuration("CATALOG_IMAGE_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("CATALOG_IMAGE_CACHE_TTL: %w", err)
	}

	cfg.DephealthCheckInterval, err = getEnvDuration("CATALOG_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CATALOG_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}
	if err := requirePositive("CATALOG_DEPHEALTH_CHECK_INTERVAL", cfg.DephealthCheckInterval); err != nil {
		return nil, err
	}
	cfg.DephealthGroup = getEnvDefault("CATALOG_DEPHEALTH_GROUP", "presigned-upload")
	cfg.DephealthDepName = getEnvDefault("CATALOG_DEPHEALTH_DEP_NAME", "storage-service")

	return cfg, nil
}

// requirePositive отклоняет нулевую и отрицательную длительность.
func requirePositive(key string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%s: значение должно быть положительным, получено %s", key, d)
	}
	return nil
}

// requireNonNegative отклоняет отрицательную длительность.
func requireNonNegative(key string, d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%s: значение не может быть отрицательным, получено %s", key, d)
	}
	return nil
}

// loadHTTP читает параметры HTTP-сервера с указанным префиксом.
func loadHTTP(prefix string, defaultPort int) (HTTPConfig, error) {
	var (
		c   HTTPConfig
		err error
	)

	c.Port, err = getEnvInt(prefix+"_PORT", defaultPort)
	if err != nil {
		return c, fmt.Errorf("%s_PORT: %w", prefix, err)
	}
	if c.Port < 1 || c.Port > 65535 {
		return c, fmt.Errorf("%s_PORT: значение %d вне допустимого диапазона 1-65535", prefix, c.Port)
	}

	if c.ReadTimeout, err = getEnvDuration(prefix+"_HTTP_READ_TIMEOUT", 30*time.Second); err != nil {
		return c, fmt.Errorf("%s_HTTP_READ_TIMEOUT: %w", prefix, err)
	}
	if c.WriteTimeout, err = getEnvDuration(prefix+"_HTTP_WRITE_TIMEOUT", 60*time.Second); err != nil {
		return c, fmt.Errorf("%s_HTTP_WRITE_TIMEOUT: %w", prefix, err)
	}
	if c.IdleTimeout, err = getEnvDuration(prefix+"_HTTP_IDLE_TIMEOUT", 120*time.Second); err != nil {
		return c, fmt.Errorf("%s_HTTP_IDLE_TIMEOUT: %w", prefix, err)
	}
	if c.ShutdownTimeout, err = getEnvDuration(prefix+"_SHUTDOWN_TIMEOUT", 5*time.Second); err != nil {
		return c, fmt.Errorf("%s_SHUTDOWN_TIMEOUT: %w", prefix, err)
	}

	// TLS включается только если заданы оба пути
	c.TLSCert = getEnvDefault(prefix+"_TLS_CERT", "")
	c.TLSKey = getEnvDefault(prefix+"_TLS_KEY", "")
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return c, fmt.Errorf("%s_TLS_CERT и %s_TLS_KEY должны задаваться вместе", prefix, prefix)
	}

	return c, nil
}

// loadLog читает параметры логирования с указанным префиксом.
func loadLog(prefix string) (LogConfig, error) {
	var c LogConfig

	level, err := parseLogLevel(getEnvDefault(prefix+"_LOG_LEVEL", "info"))
	if err != nil {
		return c, fmt.Errorf("%s_LOG_LEVEL: %w", prefix, err)
	}
	c.Level = level

	c.Format = getEnvDefault(prefix+"_LOG_FORMAT", "json")
	if c.Format != "json" && c.Format != "text" {
		return c, fmt.Errorf("%s_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", prefix, c.Format)
	}
	return c, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.Level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvInt64 возвращает int64 значение переменной окружения или значение по умолчанию.
func getEnvInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 6h)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
