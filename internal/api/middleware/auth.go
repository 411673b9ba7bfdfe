// auth.go — проверка JWT вызывающих сервисов на /internal/* storage-service.
// Ключи берутся из JWKS (STORAGE_JWKS_URL) и обновляются в фоне.
package middleware

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	apierrors "github.com/bigkaa/presigned-upload/internal/api/errors"
)

type contextKey string

// ContextKeySubject — ключ контекста с sub вызывающего сервиса.
const ContextKeySubject contextKey = "jwt_subject"

// Claims — claims сервисного токена.
type Claims struct {
	jwt.RegisteredClaims
	// AuthorizedParty — клиент, получивший токен (azp)
	AuthorizedParty string `json:"azp,omitempty"`
}

// JWTAuthConfig — параметры JWT middleware.
type JWTAuthConfig struct {
	JWKSURL    string
	CACertPath string
	// ClientTimeout — таймаут запроса к JWKS endpoint
	ClientTimeout   time.Duration
	RefreshInterval time.Duration
	// JWTLeeway — допустимое расхождение часов для exp/nbf
	JWTLeeway time.Duration
	// Audience — ожидаемый aud; пусто — не проверяется
	Audience string
}

// JWTAuth проверяет Bearer-токены, подписанные RS256.
type JWTAuth struct {
	keys   keyfunc.Keyfunc
	parser *jwt.Parser
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewJWTAuth загружает JWKS и запускает его фоновое обновление до Close.
// Недоступный при старте JWKS endpoint не считается ошибкой.
func NewJWTAuth(authCfg JWTAuthConfig, logger *slog.Logger) (*JWTAuth, error) {
	client, err := jwksHTTPClient(authCfg.CACertPath, authCfg.ClientTimeout)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	storage, err := jwkset.NewStorageFromHTTP(authCfg.JWKSURL, jwkset.HTTPClientStorageOptions{
		Client:                    client,
		Ctx:                       ctx,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           authCfg.RefreshInterval,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Warn("JWKS не обновлён",
				slog.String("url", authCfg.JWKSURL),
				slog.String("error", err.Error()),
			)
		},
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("JWKS storage: %w", err)
	}

	keys, err := keyfunc.New(keyfunc.Options{Ctx: ctx, Storage: storage})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("JWKS keyfunc: %w", err)
	}

	auth := newJWTAuth(keys, authCfg.JWTLeeway, authCfg.Audience, logger)
	auth.cancel = cancel
	return auth, nil
}

// NewJWTAuthWithKeyfunc создаёт middleware с готовым источником ключей.
func NewJWTAuthWithKeyfunc(kf keyfunc.Keyfunc, jwtLeeway time.Duration, logger *slog.Logger) *JWTAuth {
	return newJWTAuth(kf, jwtLeeway, "", logger)
}

func newJWTAuth(kf keyfunc.Keyfunc, leeway time.Duration, audience string, logger *slog.Logger) *JWTAuth {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	return &JWTAuth{
		keys:   kf,
		parser: jwt.NewParser(opts...),
		logger: logger.With(slog.String("component", "jwt_auth")),
	}
}

// jwksHTTPClient — клиент JWKS с таймаутом и, при необходимости,
// дополнительным CA поверх системного пула.
func jwksHTTPClient(caCertPath string, timeout time.Duration) (*http.Client, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	if caCertPath != "" {
		pem, err := os.ReadFile(caCertPath)
		if err != nil {
			return nil, fmt.Errorf("чтение CA-сертификата JWKS: %w", err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("CA-сертификат JWKS %s не содержит сертификатов", caCertPath)
		}
		tlsConfig.RootCAs = pool
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: &http.Transport{TLSClientConfig: tlsConfig},
	}, nil
}

// bearerToken извлекает токен из Authorization. При ошибке возвращает
// сообщение для клиента.
func bearerToken(r *http.Request) (token, problem string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", "Отсутствует заголовок Authorization"
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", "Неверный формат Authorization: ожидается Bearer <token>"
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", "Пустой Bearer token"
	}
	return token, ""
}

// Middleware пропускает запрос дальше только с валидным токеном,
// содержащим sub; sub кладётся в контекст запроса.
func (j *JWTAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, problem := bearerToken(r)
			if problem != "" {
				apierrors.Unauthorized(w, problem)
				return
			}

			var claims Claims
			if _, err := j.parser.ParseWithClaims(raw, &claims, j.keys.KeyfuncCtx(r.Context())); err != nil {
				j.logger.Debug("Токен отклонён",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				apierrors.Unauthorized(w, "Невалидный или просроченный токен")
				return
			}

			if claims.Subject == "" {
				apierrors.Unauthorized(w, "Отсутствует sub в токене")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ContextKeySubject, claims.Subject)))
		})
	}
}

// SubjectFromContext возвращает sub вызывающего сервиса или "".
func SubjectFromContext(ctx context.Context) string {
	subject, _ := ctx.Value(ContextKeySubject).(string)
	return subject
}

// Close останавливает фоновое обновление JWKS.
func (j *JWTAuth) Close() {
	if j.cancel != nil {
		j.cancel()
	}
}
