// Пакет catalog — бизнес-логика catalog-service.
//
// GrantService запрашивает у storage-service разрешение на загрузку
// по подписанным метаданным, ProductService ведёт товары, ссылающиеся
// на загруженные изображения, ImageCache кэширует результаты проверки
// изображений, DephealthService мониторит доступность storage-service.
package catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bigkaa/presigned-upload/internal/api/middleware"
	"github.com/bigkaa/presigned-upload/internal/config"
	"github.com/bigkaa/presigned-upload/internal/domain/apperr"
	"github.com/bigkaa/presigned-upload/internal/domain/model"
	"github.com/bigkaa/presigned-upload/internal/signature"
)

// maxFileNameLength — максимальная длина имени файла в символах.
const maxFileNameLength = 255

// StorageClient — обращения catalog-service к storage-service.
type StorageClient interface {
	// RequestPresignedURL запрашивает upload-сессию по подписанным метаданным.
	RequestPresignedURL(ctx context.Context, meta model.FileMetadata, sig string) (*model.UploadGrant, error)
	// ValidateArtifact возвращает описание артефакта или (nil, nil), если его нет.
	ValidateArtifact(ctx context.Context, artifactID string) (*model.ArtifactDescriptor, error)
}

// GrantRequest — запрос клиента на загрузку файла.
type GrantRequest struct {
	FileName    string
	FileSize    int64
	ContentType string
}

// GrantService — сервис запроса разрешений на загрузку.
type GrantService struct {
	cfg     *config.CatalogConfig
	signer  signature.Signer
	storage StorageClient
	logger  *slog.Logger

	// now подменяется в тестах
	now func() time.Time
}

// NewGrantService создаёт сервис запроса разрешений.
func NewGrantService(
	cfg *config.CatalogConfig,
	signer signature.Signer,
	storage StorageClient,
	logger *slog.Logger,
) *GrantService {
	return &GrantService{
		cfg:     cfg,
		signer:  signer,
		storage: storage,
		logger:  logger.With(slog.String("component", "grant_service")),
		now:     time.Now,
	}
}

// RequestUpload проверяет запрос, подписывает метаданные и получает
// upload-сессию у storage-service.
//
// Невалидный запрос отклоняется до обращения к storage-service.
func (s *GrantService) RequestUpload(ctx context.Context, req GrantRequest) (*model.UploadGrant, error) {
	if err := s.validate(req); err != nil {
		middleware.GrantsRequestedTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	meta := model.FileMetadata{
		FileName:    req.FileName,
		FileSize:    req.FileSize,
		ContentType: req.ContentType,
		Timestamp:   s.now().Unix(),
		ExpiresIn:   int64(s.cfg.UploadExpiresIn / time.Second),
	}

	sig, err := s.signer.Sign(meta)
	if err != nil {
		middleware.GrantsRequestedTotal.WithLabelValues("error").Inc()
		return nil, apperr.Internal("Ошибка подписи метаданных", err)
	}

	grant, err := s.storage.RequestPresignedURL(ctx, meta, sig)
	if err != nil || grant == nil || grant.UploadURL == "" {
		middleware.GrantsRequestedTotal.WithLabelValues("upstream_error").Inc()
		attrs := []any{slog.String("file_name", req.FileName)}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		s.logger.Error("Не удалось получить разрешение на загрузку", attrs...)
		return nil, apperr.Upstream("Не удалось получить разрешение на загрузку", err)
	}

	middleware.GrantsRequestedTotal.WithLabelValues("success").Inc()
	s.logger.Info("Получено разрешение на загрузку",
		slog.String("upload_id", grant.UploadID),
		slog.String("file_name", req.FileName),
		slog.Int64("file_size", req.FileSize),
	)
	return grant, nil
}

// validate проверяет запрос на загрузку.
func (s *GrantService) validate(req GrantRequest) error {
	switch {
	case strings.TrimSpace(req.FileName) == "":
		return apperr.Validation("Имя файла обязательно")
	case utf8.RuneCountInString(req.FileName) > maxFileNameLength:
		return apperr.Validation("Имя файла не должно превышать %d символов", maxFileNameLength)
	case req.FileSize <= 0:
		return apperr.Validation("Размер файла должен быть больше 0")
	case req.FileSize > s.cfg.MaxFileSize:
		return apperr.Validation("Размер файла не должен превышать %d байт", s.cfg.MaxFileSize)
	case req.ContentType == "":
		return apperr.Validation("Тип содержимого обязателен")
	case !strings.HasPrefix(req.ContentType, s.cfg.AllowedContentPrefix):
		return apperr.Validation("Допускаются только файлы типа %s*", s.cfg.AllowedContentPrefix)
	}
	return nil
}
