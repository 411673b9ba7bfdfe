// apikey.go — аутентификация catalog-service по статическому ключу X-API-KEY.
package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/presigned-upload/internal/api/errors"
)

// APIKeyHeader — заголовок с ключом доступа.
const APIKeyHeader = "X-API-KEY"

// APIKeyAuth — middleware проверки X-API-KEY.
type APIKeyAuth struct {
	key    []byte
	logger *slog.Logger
}

// NewAPIKeyAuth создаёт middleware с ожидаемым ключом.
func NewAPIKeyAuth(key string, logger *slog.Logger) *APIKeyAuth {
	return &APIKeyAuth{
		key:    []byte(key),
		logger: logger.With(slog.String("component", "api_key_auth")),
	}
}

// Middleware возвращает HTTP middleware. Отсутствующий или неверный ключ — 401.
func (a *APIKeyAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(APIKeyHeader)
			if provided == "" {
				a.logger.Warn("Отсутствует API-ключ", slog.String("path", r.URL.Path))
				apierrors.Unauthorized(w, "Отсутствует API-ключ")
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), a.key) != 1 {
				a.logger.Warn("Неверный API-ключ", slog.String("path", r.URL.Path))
				apierrors.Unauthorized(w, "Неверный API-ключ")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
