// session.go — выдача upload-сессий по подписанным метаданным.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/bigkaa/presigned-upload/internal/api/middleware"
	"github.com/bigkaa/presigned-upload/internal/config"
	"github.com/bigkaa/presigned-upload/internal/domain/apperr"
	"github.com/bigkaa/presigned-upload/internal/domain/model"
	"github.com/bigkaa/presigned-upload/internal/signature"
)

// SessionService — сервис выдачи upload-сессий.
type SessionService struct {
	cfg      *config.StorageConfig
	signer   signature.Signer
	sessions SessionStore
	logger   *slog.Logger

	// now подменяется в тестах
	now func() time.Time
}

// NewSessionService создаёт сервис выдачи сессий.
func NewSessionService(
	cfg *config.StorageConfig,
	signer signature.Signer,
	sessions SessionStore,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		cfg:      cfg,
		signer:   signer,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "session_service")),
		now:      time.Now,
	}
}

// CreateSession проверяет подпись и свежесть метаданных и выдаёт сессию.
//
// Поток:
//  1. Проверка подписи (401, без подробностей)
//  2. Проверка полей метаданных
//  3. Проверка timestamp в пределах допуска
//  4. Создание сессии и сохранение в хранилище
func (s *SessionService) CreateSession(ctx context.Context, meta model.FileMetadata, sig string) (*model.UploadGrant, error) {
	// 1. Подпись проверяется первой: до неё метаданным доверять нельзя
	if !s.signer.Verify(meta, sig) {
		middleware.SessionsRejectedTotal.WithLabelValues("signature").Inc()
		s.logger.Warn("Отклонён запрос сессии: неверная подпись",
			slog.String("file_name", meta.FileName),
		)
		return nil, apperr.Unauthorized("Неверная подпись")
	}

	// 2. Поля метаданных
	if err := s.validateMetadata(meta); err != nil {
		middleware.SessionsRejectedTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	// 3. Свежесть timestamp
	now := s.now()
	if meta.IsExpired(now, s.cfg.TimestampTolerance) || meta.IsFromFuture(now, s.cfg.TimestampTolerance) {
		middleware.SessionsRejectedTotal.WithLabelValues("expired").Inc()
		s.logger.Warn("Отклонён запрос сессии: timestamp вне допуска",
			slog.Int64("timestamp", meta.Timestamp),
			slog.Int64("now", now.Unix()),
		)
		return nil, apperr.Expired("Срок действия метаданных истёк")
	}

	// 4. Сессия
	session := &model.UploadSession{
		UploadID:  uuid.New().String(),
		Metadata:  meta,
		Signature: sig,
		ExpiresAt: now.Unix() + meta.ExpiresIn,
		CreatedAt: now.UTC(),
	}
	if err := s.sessions.Add(ctx, session); err != nil {
		middleware.SessionsRejectedTotal.WithLabelValues("store").Inc()
		s.logger.Error("Ошибка сохранения сессии",
			slog.String("upload_id", session.UploadID),
			slog.String("error", err.Error()),
		)
		return nil, apperr.Internal("Внутренняя ошибка при создании сессии", err)
	}

	middleware.SessionsCreatedTotal.Inc()
	s.logger.Info("Upload-сессия создана",
		slog.String("upload_id", session.UploadID),
		slog.String("file_name", meta.FileName),
		slog.Int64("file_size", meta.FileSize),
		slog.Int64("expires_at", session.ExpiresAt),
	)

	return &model.UploadGrant{
		UploadURL: fmt.Sprintf("%s/upload/%s", s.cfg.PublicURL, session.UploadID),
		UploadID:  session.UploadID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// maxFileNameLength — предел длины имени файла в символах.
const maxFileNameLength = 255

// validateMetadata проверяет поля подписанных метаданных.
// Подпись гарантирует только происхождение, но не корректность значений.
func (s *SessionService) validateMetadata(meta model.FileMetadata) error {
	switch {
	case meta.FileName == "":
		return apperr.Validation("Имя файла не может быть пустым")
	case utf8.RuneCountInString(meta.FileName) > maxFileNameLength:
		return apperr.Validation("Имя файла не должно превышать %d символов", maxFileNameLength)
	case meta.FileSize <= 0:
		return apperr.Validation("Размер файла должен быть положительным")
	case meta.FileSize > s.cfg.MaxFileSize:
		return apperr.Validation("Размер файла %d байт превышает максимум %d байт", meta.FileSize, s.cfg.MaxFileSize)
	case meta.ContentType == "":
		return apperr.Validation("Тип содержимого не может быть пустым")
	case meta.ExpiresIn <= 0:
		return apperr.Validation("Время жизни сессии должно быть положительным")
	case meta.ExpiresIn > int64(s.cfg.MaxSessionTTL/time.Second):
		return apperr.Validation("Время жизни сессии %d с превышает максимум %d с",
			meta.ExpiresIn, int64(s.cfg.MaxSessionTTL/time.Second))
	}
	return nil
}
