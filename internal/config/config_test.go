package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

// clearEnv сбрасывает переменные окружения, влияющие на конфигурацию.
// t.Setenv восстанавливает исходные значения по завершении теста.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"SIGNING_SECRET",
		"STORAGE_PORT", "STORAGE_PUBLIC_URL", "STORAGE_MAX_FILE_SIZE",
		"STORAGE_TIMESTAMP_TOLERANCE", "STORAGE_MAX_SESSION_TTL",
		"STORAGE_SESSION_BACKEND", "STORAGE_REDIS_URL",
		"STORAGE_SESSION_GC_INTERVAL", "STORAGE_SESSION_GC_GRACE",
		"STORAGE_JWKS_URL", "STORAGE_JWKS_CA_CERT", "STORAGE_JWKS_REFRESH_INTERVAL",
		"STORAGE_JWT_LEEWAY", "STORAGE_JWT_AUDIENCE", "STORAGE_POSTPROCESS_DELAY",
		"STORAGE_LOG_LEVEL", "STORAGE_LOG_FORMAT",
		"STORAGE_HTTP_READ_TIMEOUT", "STORAGE_HTTP_WRITE_TIMEOUT", "STORAGE_HTTP_IDLE_TIMEOUT",
		"STORAGE_SHUTDOWN_TIMEOUT", "STORAGE_TLS_CERT", "STORAGE_TLS_KEY",
		"CATALOG_PORT", "CATALOG_API_KEY", "CATALOG_STORAGE_URL", "CATALOG_STORAGE_TOKEN",
		"CATALOG_STORAGE_CA_CERT", "CATALOG_STORAGE_TIMEOUT", "CATALOG_MAX_FILE_SIZE",
		"CATALOG_ALLOWED_CONTENT_PREFIX", "CATALOG_UPLOAD_EXPIRES_IN",
		"CATALOG_IMAGE_CACHE_SIZE", "CATALOG_IMAGE_CACHE_TTL",
		"CATALOG_DEPHEALTH_CHECK_INTERVAL", "CATALOG_DEPHEALTH_GROUP", "CATALOG_DEPHEALTH_DEP_NAME",
		"CATALOG_LOG_LEVEL", "CATALOG_LOG_FORMAT",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadStorage_DefaultValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIGNING_SECRET", "secret")

	cfg, err := LoadStorage()
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if cfg.HTTP.Port != 5001 {
		t.Errorf("Port: ожидалось 5001, получено %d", cfg.HTTP.Port)
	}
	if cfg.PublicURL != "http://localhost:5001" {
		t.Errorf("PublicURL: получено %q", cfg.PublicURL)
	}
	if cfg.MaxFileSize != 10*1024*1024 {
		t.Errorf("MaxFileSize: ожидалось 10 MiB, получено %d", cfg.MaxFileSize)
	}
	if cfg.TimestampTolerance != 5*time.Minute {
		t.Errorf("TimestampTolerance: ожидалось 5m, получено %v", cfg.TimestampTolerance)
	}
	if cfg.MaxSessionTTL != 24*time.Hour {
		t.Errorf("MaxSessionTTL: ожидалось 24h, получено %v", cfg.MaxSessionTTL)
	}
	if cfg.SessionBackend != SessionBackendMemory {
		t.Errorf("SessionBackend: ожидалось memory, получено %q", cfg.SessionBackend)
	}
	if cfg.SessionGCInterval != time.Minute || cfg.SessionGCGrace != time.Hour {
		t.Errorf("GC: получено interval=%v grace=%v", cfg.SessionGCInterval, cfg.SessionGCGrace)
	}
	if cfg.JWKSUrl != "" {
		t.Errorf("JWKSUrl: ожидалась пустая строка, получено %q", cfg.JWKSUrl)
	}
	if cfg.PostProcessDelay != time.Second {
		t.Errorf("PostProcessDelay: ожидалось 1s, получено %v", cfg.PostProcessDelay)
	}
	if cfg.Log.Level != slog.LevelInfo || cfg.Log.Format != "json" {
		t.Errorf("Log: получено %+v", cfg.Log)
	}
	if cfg.HTTP.ReadTimeout != 30*time.Second || cfg.HTTP.WriteTimeout != 60*time.Second ||
		cfg.HTTP.IdleTimeout != 120*time.Second || cfg.HTTP.ShutdownTimeout != 5*time.Second {
		t.Errorf("HTTP таймауты: получено %+v", cfg.HTTP)
	}
}

func TestLoadStorage_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIGNING_SECRET", "secret")
	t.Setenv("STORAGE_PORT", "8080")
	t.Setenv("STORAGE_PUBLIC_URL", "https://files.example.com/")
	t.Setenv("STORAGE_MAX_FILE_SIZE", "2048")
	t.Setenv("STORAGE_SESSION_BACKEND", "redis")
	t.Setenv("STORAGE_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("STORAGE_JWKS_URL", "https://idp.example.com/jwks")
	t.Setenv("STORAGE_LOG_LEVEL", "debug")
	t.Setenv("STORAGE_LOG_FORMAT", "text")

	cfg, err := LoadStorage()
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if cfg.HTTP.Port != 8080 {
		t.Errorf("Port: ожидалось 8080, получено %d", cfg.HTTP.Port)
	}
	if cfg.PublicURL != "https://files.example.com" {
		t.Errorf("PublicURL: завершающий слэш должен удаляться, получено %q", cfg.PublicURL)
	}
	if cfg.MaxFileSize != 2048 {
		t.Errorf("MaxFileSize: получено %d", cfg.MaxFileSize)
	}
	if cfg.SessionBackend != SessionBackendRedis || cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("Redis: получено backend=%q url=%q", cfg.SessionBackend, cfg.RedisURL)
	}
	if cfg.JWKSUrl != "https://idp.example.com/jwks" {
		t.Errorf("JWKSUrl: получено %q", cfg.JWKSUrl)
	}
	if cfg.Log.Level != slog.LevelDebug || cfg.Log.Format != "text" {
		t.Errorf("Log: получено %+v", cfg.Log)
	}
}

func TestLoadStorage_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "нет секрета",
			env:     map[string]string{},
			wantErr: "SIGNING_SECRET",
		},
		{
			name:    "redis без URL",
			env:     map[string]string{"SIGNING_SECRET": "s", "STORAGE_SESSION_BACKEND": "redis"},
			wantErr: "STORAGE_REDIS_URL",
		},
		{
			name:    "неизвестный backend",
			env:     map[string]string{"SIGNING_SECRET": "s", "STORAGE_SESSION_BACKEND": "etcd"},
			wantErr: "STORAGE_SESSION_BACKEND",
		},
		{
			name:    "порт вне диапазона",
			env:     map[string]string{"SIGNING_SECRET": "s", "STORAGE_PORT": "70000"},
			wantErr: "STORAGE_PORT",
		},
		{
			name:    "некорректная длительность",
			env:     map[string]string{"SIGNING_SECRET": "s", "STORAGE_TIMESTAMP_TOLERANCE": "5 минут"},
			wantErr: "STORAGE_TIMESTAMP_TOLERANCE",
		},
		{
			name:    "отрицательный размер",
			env:     map[string]string{"SIGNING_SECRET": "s", "STORAGE_MAX_FILE_SIZE": "-1"},
			wantErr: "STORAGE_MAX_FILE_SIZE",
		},
		{
			name:    "нулевой интервал GC",
			env:     map[string]string{"SIGNING_SECRET": "s", "STORAGE_SESSION_GC_INTERVAL": "0s"},
			wantErr: "STORAGE_SESSION_GC_INTERVAL",
		},
		{
			name:    "отрицательный интервал GC",
			env:     map[string]string{"SIGNING_SECRET": "s", "STORAGE_SESSION_GC_INTERVAL": "-1m"},
			wantErr: "STORAGE_SESSION_GC_INTERVAL",
		},
		{
			name:    "отрицательный допуск timestamp",
			env:     map[string]string{"SIGNING_SECRET": "s", "STORAGE_TIMESTAMP_TOLERANCE": "-1m"},
			wantErr: "STORAGE_TIMESTAMP_TOLERANCE",
		},
		{
			name:    "нулевой максимум TTL сессии",
			env:     map[string]string{"SIGNING_SECRET": "s", "STORAGE_MAX_SESSION_TTL": "0s"},
			wantErr: "STORAGE_MAX_SESSION_TTL",
		},
		{
			name:    "отрицательный grace GC",
			env:     map[string]string{"SIGNING_SECRET": "s", "STORAGE_SESSION_GC_GRACE": "-1s"},
			wantErr: "STORAGE_SESSION_GC_GRACE",
		},
		{
			name:    "отрицательный leeway JWT",
			env:     map[string]string{"SIGNING_SECRET": "s", "STORAGE_JWT_LEEWAY": "-5s"},
			wantErr: "STORAGE_JWT_LEEWAY",
		},
		{
			name:    "TLS без ключа",
			env:     map[string]string{"SIGNING_SECRET": "s", "STORAGE_TLS_CERT": "/tmp/tls.crt"},
			wantErr: "STORAGE_TLS_KEY",
		},
		{
			name:    "неизвестный уровень логов",
			env:     map[string]string{"SIGNING_SECRET": "s", "STORAGE_LOG_LEVEL": "trace"},
			wantErr: "STORAGE_LOG_LEVEL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadStorage()
			if err == nil {
				t.Fatal("ожидалась ошибка")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ошибка %q не упоминает %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoadCatalog_DefaultValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIGNING_SECRET", "secret")
	t.Setenv("CATALOG_API_KEY", "key")

	cfg, err := LoadCatalog()
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if cfg.HTTP.Port != 5000 {
		t.Errorf("Port: ожидалось 5000, получено %d", cfg.HTTP.Port)
	}
	if cfg.StorageURL != "http://localhost:5001" {
		t.Errorf("StorageURL: получено %q", cfg.StorageURL)
	}
	if cfg.StorageTimeout != 10*time.Second {
		t.Errorf("StorageTimeout: получено %v", cfg.StorageTimeout)
	}
	if cfg.AllowedContentPrefix != "image/" {
		t.Errorf("AllowedContentPrefix: получено %q", cfg.AllowedContentPrefix)
	}
	if cfg.UploadExpiresIn != time.Hour {
		t.Errorf("UploadExpiresIn: получено %v", cfg.UploadExpiresIn)
	}
	if cfg.ImageCacheSize != 1000 || cfg.ImageCacheTTL != 5*time.Minute {
		t.Errorf("кэш: получено size=%d ttl=%v", cfg.ImageCacheSize, cfg.ImageCacheTTL)
	}
	if cfg.DephealthGroup != "presigned-upload" || cfg.DephealthDepName != "storage-service" {
		t.Errorf("dephealth: получено group=%q dep=%q", cfg.DephealthGroup, cfg.DephealthDepName)
	}
}

func TestLoadCatalog_RequiresAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIGNING_SECRET", "secret")

	_, err := LoadCatalog()
	if err == nil || !strings.Contains(err.Error(), "CATALOG_API_KEY") {
		t.Fatalf("ожидалась ошибка про CATALOG_API_KEY, получено %v", err)
	}
}

func TestLoadCatalog_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"маленький expires", "CATALOG_UPLOAD_EXPIRES_IN", "500ms", "CATALOG_UPLOAD_EXPIRES_IN"},
		{"нулевой размер кэша", "CATALOG_IMAGE_CACHE_SIZE", "0", "CATALOG_IMAGE_CACHE_SIZE"},
		{"некорректный размер файла", "CATALOG_MAX_FILE_SIZE", "abc", "CATALOG_MAX_FILE_SIZE"},
		{"некорректный таймаут", "CATALOG_STORAGE_TIMEOUT", "10", "CATALOG_STORAGE_TIMEOUT"},
		{"нулевой таймаут", "CATALOG_STORAGE_TIMEOUT", "0s", "CATALOG_STORAGE_TIMEOUT"},
		{"нулевой интервал dephealth", "CATALOG_DEPHEALTH_CHECK_INTERVAL", "0s", "CATALOG_DEPHEALTH_CHECK_INTERVAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("SIGNING_SECRET", "secret")
			t.Setenv("CATALOG_API_KEY", "key")
			t.Setenv(tt.key, tt.value)

			_, err := LoadCatalog()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ожидалась ошибка про %s, получено %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := parseLogLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLogLevel(%q): неожиданная ошибка %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("parseLogLevel(%q): хотели %v, получили %v", tt.in, tt.want, got)
		}
	}
}
