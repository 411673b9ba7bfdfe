// Пакет artifactstore — потокобезопасное in-memory хранилище артефактов.
//
// Артефакт добавляется один раз при успешной финализации и далее
// только читается. Байты артефакта не изменяются после добавления.
// Не персистентное: при рестарте содержимое теряется.
package artifactstore

import (
	"log/slog"
	"sync"

	"github.com/bigkaa/presigned-upload/internal/domain/model"
)

// MemoryStore — хранилище артефактов с sync.RWMutex:
// конкурентное чтение, эксклюзивная запись.
type MemoryStore struct {
	mu         sync.RWMutex
	artifacts  map[string]*model.StoredArtifact // artifact_id → artifact
	totalBytes int64
	logger     *slog.Logger
}

// NewMemoryStore создаёт пустое хранилище артефактов.
func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		artifacts: make(map[string]*model.StoredArtifact),
		logger:    logger.With(slog.String("component", "artifact_store")),
	}
}

// Add сохраняет артефакт. Повторное добавление с тем же ID перезаписывает запись.
func (s *MemoryStore) Add(artifact *model.StoredArtifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.artifacts[artifact.ArtifactID]; ok {
		s.totalBytes -= prev.FileSize
	}
	copied := *artifact
	s.artifacts[artifact.ArtifactID] = &copied
	s.totalBytes += artifact.FileSize

	s.logger.Debug("Артефакт сохранён",
		slog.String("artifact_id", artifact.ArtifactID),
		slog.Int64("size", artifact.FileSize),
	)
	return nil
}

// Get возвращает артефакт или nil. Data разделяется с хранимой записью
// и не должен изменяться вызывающим.
func (s *MemoryStore) Get(artifactID string) *model.StoredArtifact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	artifact, ok := s.artifacts[artifactID]
	if !ok {
		return nil
	}
	copied := *artifact
	return &copied
}

// Exists проверяет наличие артефакта.
func (s *MemoryStore) Exists(artifactID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.artifacts[artifactID]
	return ok
}

// Count возвращает количество артефактов.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.artifacts)
}

// TotalBytes возвращает суммарный размер артефактов в байтах.
func (s *MemoryStore) TotalBytes() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalBytes
}
