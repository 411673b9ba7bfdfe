package model

import (
	"time"

	"github.com/google/uuid"
)

// StoredArtifact — успешно загруженный файл: байты и описание.
// Неизменяем после создания, FileSize всегда равен len(Data).
type StoredArtifact struct {
	ArtifactID  string
	FileName    string
	ContentType string
	FileSize    int64
	Data        []byte
	UploadedAt  time.Time
}

// NewStoredArtifact создаёт артефакт из метаданных сессии и полученных байтов.
// Идентификатор артефакта не зависит от UploadID.
func NewStoredArtifact(meta FileMetadata, data []byte, now time.Time) *StoredArtifact {
	return &StoredArtifact{
		ArtifactID:  uuid.New().String(),
		FileName:    meta.FileName,
		ContentType: meta.ContentType,
		FileSize:    int64(len(data)),
		Data:        data,
		UploadedAt:  now.UTC(),
	}
}

// Descriptor возвращает описание артефакта без данных.
func (a *StoredArtifact) Descriptor() *ArtifactDescriptor {
	return &ArtifactDescriptor{
		ArtifactID: a.ArtifactID,
		FileName:   a.FileName,
		FileSize:   a.FileSize,
		UploadedAt: a.UploadedAt,
	}
}

// ArtifactDescriptor — описание артефакта, которое видит каталог.
type ArtifactDescriptor struct {
	ArtifactID string
	FileName   string
	FileSize   int64
	UploadedAt time.Time
}
