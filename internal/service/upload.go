// upload.go — финализация загрузки по upload-сессии.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/bigkaa/presigned-upload/internal/api/middleware"
	"github.com/bigkaa/presigned-upload/internal/domain/apperr"
	"github.com/bigkaa/presigned-upload/internal/domain/model"
)

// UploadService — сервис финализации загрузок.
type UploadService struct {
	sessions  SessionStore
	artifacts ArtifactStore
	post      *PostProcessor
	logger    *slog.Logger

	// now подменяется в тестах
	now func() time.Time
}

// NewUploadService создаёт сервис финализации. post может быть nil.
func NewUploadService(
	sessions SessionStore,
	artifacts ArtifactStore,
	post *PostProcessor,
	logger *slog.Logger,
) *UploadService {
	return &UploadService{
		sessions:  sessions,
		artifacts: artifacts,
		post:      post,
		logger:    logger.With(slog.String("component", "upload_service")),
		now:       time.Now,
	}
}

// Finalize принимает байты файла по upload-сессии и сохраняет артефакт.
//
// Поток:
//  1. Поиск сессии (нет — UPLOAD_NOT_FOUND)
//  2. Проверка срока (истёк — сессия удаляется, EXPIRED)
//  3. Проверка размера (не совпал — SIZE_MISMATCH, сессия сохраняется)
//  4. Атомарное извлечение сессии (Take): из конкурентных вызовов
//     продолжает ровно один, остальные получают UPLOAD_NOT_FOUND
//  5. Сохранение артефакта и фоновая пост-обработка
func (s *UploadService) Finalize(ctx context.Context, uploadID string, data []byte) (*model.ArtifactDescriptor, error) {
	// 1. Сессия
	session, err := s.sessions.Get(ctx, uploadID)
	if err != nil {
		return nil, s.fail("error", apperr.Internal("Ошибка чтения upload-сессии", err))
	}
	if session == nil {
		return nil, s.fail("not_found", apperr.UploadNotFound())
	}

	// 2. Срок действия
	if session.IsExpired(s.now()) {
		if err := s.sessions.Remove(ctx, uploadID); err != nil {
			s.logger.Error("Ошибка удаления истёкшей сессии",
				slog.String("upload_id", uploadID),
				slog.String("error", err.Error()),
			)
		}
		return nil, s.fail("expired", apperr.Expired("Срок действия ссылки загрузки истёк"))
	}

	// 3. Размер. Сессия не удаляется, клиент может повторить загрузку.
	actual := int64(len(data))
	if !session.Metadata.ValidateFileSize(actual) {
		s.logger.Warn("Размер загрузки не совпадает с заявленным",
			slog.String("upload_id", uploadID),
			slog.Int64("expected", session.Metadata.FileSize),
			slog.Int64("actual", actual),
		)
		return nil, s.fail("size_mismatch", apperr.SizeMismatch(session.Metadata.FileSize, actual))
	}

	// 4. Атомарное потребление сессии
	taken, err := s.sessions.Take(ctx, uploadID)
	if err != nil {
		return nil, s.fail("error", apperr.Internal("Ошибка извлечения upload-сессии", err))
	}
	if taken == nil {
		return nil, s.fail("not_found", apperr.UploadNotFound())
	}

	// 5. Артефакт
	artifact := model.NewStoredArtifact(taken.Metadata, data, s.now())
	if err := s.artifacts.Add(artifact); err != nil {
		// Возвращаем сессию, чтобы клиент мог повторить загрузку
		if rbErr := s.sessions.Add(ctx, taken); rbErr != nil {
			s.logger.Error("Ошибка восстановления сессии",
				slog.String("upload_id", uploadID),
				slog.String("error", rbErr.Error()),
			)
		}
		return nil, s.fail("error", apperr.Internal("Ошибка сохранения файла", err))
	}

	middleware.UploadsTotal.WithLabelValues("success").Inc()
	middleware.ArtifactsTotal.Set(float64(s.artifacts.Count()))
	middleware.ArtifactBytes.Set(float64(s.artifacts.TotalBytes()))

	s.logger.Info("Файл загружен",
		slog.String("upload_id", uploadID),
		slog.String("artifact_id", artifact.ArtifactID),
		slog.String("file_name", artifact.FileName),
		slog.Int64("size", artifact.FileSize),
	)

	if s.post != nil {
		s.post.Submit(artifact)
	}

	return artifact.Descriptor(), nil
}

// fail учитывает неуспешную финализацию в метриках.
func (s *UploadService) fail(result string, err *apperr.Error) error {
	middleware.UploadsTotal.WithLabelValues(result).Inc()
	if result == "error" {
		s.logger.Error("Ошибка финализации загрузки", slog.String("error", err.Error()))
	}
	return err
}
