// Пакет service — бизнес-логика storage-service.
//
// SessionService выдаёт upload-сессии по подписанным метаданным,
// UploadService финализирует загрузку ровно один раз,
// ValidationService отвечает на запросы о существовании артефактов,
// SessionGC удаляет заброшенные сессии из памяти.
package service

import (
	"context"

	"github.com/bigkaa/presigned-upload/internal/domain/model"
)

// SessionStore — хранилище upload-сессий.
// Get и Take возвращают (nil, nil), если сессии нет.
// Take атомарно извлекает и удаляет сессию.
type SessionStore interface {
	Add(ctx context.Context, session *model.UploadSession) error
	Get(ctx context.Context, uploadID string) (*model.UploadSession, error)
	Remove(ctx context.Context, uploadID string) error
	Take(ctx context.Context, uploadID string) (*model.UploadSession, error)
}

// ArtifactStore — хранилище артефактов.
type ArtifactStore interface {
	Add(artifact *model.StoredArtifact) error
	Get(artifactID string) *model.StoredArtifact
	Count() int
	TotalBytes() int64
}
