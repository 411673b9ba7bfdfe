// Пакет storageclient — HTTP-клиент catalog-service к storage-service.
// Поддерживает TLS с кастомным CA (CATALOG_STORAGE_CA_CERT) и Bearer токен
// для эндпоинтов /internal/* (CATALOG_STORAGE_TOKEN).
// Операции: RequestPresignedURL (POST /internal/presigned-url),
// ValidateArtifact (GET /internal/artifacts/{id}/validate).
package storageclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/bigkaa/presigned-upload/internal/api/generated/storageapi"
	"github.com/bigkaa/presigned-upload/internal/domain/model"
)

// maxErrorBody — сколько байт тела ошибки попадает в текст ошибки.
const maxErrorBody = 1024

// Config — параметры клиента.
type Config struct {
	// BaseURL — базовый URL storage-service
	BaseURL string
	// Token — статический Bearer токен (пустая строка — без авторизации)
	Token string
	// CACertPath — путь к CA-сертификату (пустая строка — системный пул)
	CACertPath string
	// Timeout — таймаут одного запроса
	Timeout time.Duration
}

// Client — HTTP-клиент storage-service.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// New создаёт клиент storage-service.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("не задан URL storage-service")
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}

	if cfg.CACertPath != "" {
		tlsConfig, err := buildTLSConfig(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("загрузка CA-сертификата storage-service: %w", err)
		}
		httpClient.Transport = &http.Transport{
			TLSClientConfig: tlsConfig,
		}
		logger.Info("CA-сертификат storage-service добавлен в пул доверия",
			slog.String("ca_cert", cfg.CACertPath),
		)
	}

	return &Client{
		baseURL:    normalizeURL(cfg.BaseURL),
		token:      cfg.Token,
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "storage_client")),
	}, nil
}

// buildTLSConfig создаёт TLS-конфигурацию с кастомным CA.
func buildTLSConfig(caCertPath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("чтение CA-сертификата: %w", err)
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("CA-сертификат %s не содержит PEM-блоков", caCertPath)
	}

	return &tls.Config{
		RootCAs:    caCertPool,
		MinVersion: tls.VersionTLS12,
	}, nil
}

// RequestPresignedURL запрашивает upload-сессию по подписанным метаданным.
// POST /internal/presigned-url.
func (c *Client) RequestPresignedURL(ctx context.Context, meta model.FileMetadata, sig string) (*model.UploadGrant, error) {
	body, err := json.Marshal(storageapi.PresignedURLRequest{
		Metadata: storageapi.FileMetadata{
			FileName:    meta.FileName,
			FileSize:    meta.FileSize,
			ContentType: meta.ContentType,
			Timestamp:   meta.Timestamp,
			ExpiresIn:   meta.ExpiresIn,
		},
		Signature: sig,
	})
	if err != nil {
		return nil, fmt.Errorf("сериализация запроса presigned-url: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/internal/presigned-url", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("запрос presigned-url к %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("presigned-url", resp)
	}

	var out storageapi.PresignedURLResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("декодирование ответа presigned-url: %w", err)
	}

	c.logger.Debug("Получена upload-сессия",
		slog.String("upload_id", out.UploadId),
		slog.Int64("expires_at", out.ExpiresAt),
	)

	return &model.UploadGrant{
		UploadURL: out.UploadUrl,
		UploadID:  out.UploadId,
		ExpiresAt: out.ExpiresAt,
	}, nil
}

// ValidateArtifact подтверждает существование артефакта.
// GET /internal/artifacts/{id}/validate. 404 — (nil, nil).
func (c *Client) ValidateArtifact(ctx context.Context, artifactID string) (*model.ArtifactDescriptor, error) {
	path := "/internal/artifacts/" + url.PathEscape(artifactID) + "/validate"

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("запрос validate к %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	default:
		return nil, statusError("validate", resp)
	}

	var out storageapi.ArtifactDescriptor
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("декодирование ответа validate: %w", err)
	}

	return &model.ArtifactDescriptor{
		ArtifactID: out.ArtifactId,
		FileName:   out.FileName,
		FileSize:   out.FileSize,
		UploadedAt: out.UploadedAt,
	}, nil
}

// newRequest создаёт запрос с авторизацией.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("создание запроса %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// statusError формирует ошибку по неожиданному статусу ответа.
func statusError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return fmt.Errorf("storage-service %s вернул статус %d: %s",
		op, resp.StatusCode, strings.TrimSpace(string(body)))
}

// normalizeURL убирает trailing slash из URL.
func normalizeURL(rawURL string) string {
	return strings.TrimRight(rawURL, "/")
}
