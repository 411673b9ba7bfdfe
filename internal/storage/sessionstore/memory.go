// Пакет sessionstore — хранилища upload-сессий.
//
// MemoryStore держит сессии в памяти процесса, RedisStore — в Redis.
// Оба реализуют одинаковый контракт: Add перезаписывает, Get и Take
// возвращают nil при отсутствии, Remove идемпотентен, Take атомарно
// извлекает и удаляет сессию. Take — единственная критическая секция,
// определяющая победителя при конкурентной финализации.
package sessionstore

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bigkaa/presigned-upload/internal/domain/model"
)

// MemoryStore — потокобезопасное in-memory хранилище сессий.
// Все операции сериализуются через один mutex.
// Не персистентное: при рестарте выданные сессии теряются.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*model.UploadSession // upload_id → session
	logger   *slog.Logger
}

// NewMemoryStore создаёт пустое хранилище сессий.
func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*model.UploadSession),
		logger:   logger.With(slog.String("component", "session_store")),
	}
}

// Add сохраняет сессию. Существующая сессия с тем же ID перезаписывается.
func (s *MemoryStore) Add(_ context.Context, session *model.UploadSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Копия, чтобы внешние изменения не влияли на хранимую запись
	copied := *session
	s.sessions[session.UploadID] = &copied
	return nil
}

// Get возвращает копию сессии или nil, если её нет.
func (s *MemoryStore) Get(_ context.Context, uploadID string) (*model.UploadSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[uploadID]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

// Remove удаляет сессию. Отсутствие сессии не является ошибкой.
func (s *MemoryStore) Remove(_ context.Context, uploadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, uploadID)
	return nil
}

// Take атомарно извлекает и удаляет сессию.
// Из нескольких конкурентных вызовов с одним ID сессию получает ровно один.
func (s *MemoryStore) Take(_ context.Context, uploadID string) (*model.UploadSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[uploadID]
	if !ok {
		return nil, nil
	}
	delete(s.sessions, uploadID)
	return session, nil
}

// Count возвращает количество сессий в хранилище.
func (s *MemoryStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// PurgeExpired удаляет сессии, истёкшие раньше before.
// Возвращает количество удалённых сессий.
func (s *MemoryStore) PurgeExpired(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := before.Unix()
	purged := 0
	for id, session := range s.sessions {
		if session.ExpiresAt < cutoff {
			delete(s.sessions, id)
			purged++
		}
	}

	if purged > 0 {
		s.logger.Debug("Удалены просроченные сессии",
			slog.Int("purged", purged),
			slog.Int("remaining", len(s.sessions)),
		)
	}
	return purged
}
