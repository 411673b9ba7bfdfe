package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bigkaa/presigned-upload/internal/domain/model"
)

// keyPrefix — префикс ключей сессий в Redis.
const keyPrefix = "presign:session:"

// RedisStore — хранилище сессий в Redis.
// Сессия хранится JSON-значением с TTL до ExpiresAt + grace,
// поэтому отдельный GC для этого backend не нужен.
// Take реализован через GETDEL и атомарен на стороне Redis.
type RedisStore struct {
	client *redis.Client
	grace  time.Duration
	logger *slog.Logger
}

// NewRedisStore подключается к Redis по URL и проверяет соединение.
func NewRedisStore(ctx context.Context, url string, grace time.Duration, logger *slog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("разбор redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("подключение к redis: %w", err)
	}

	return &RedisStore{
		client: client,
		grace:  grace,
		logger: logger.With(slog.String("component", "session_store_redis")),
	}, nil
}

// Close закрывает соединение с Redis.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping проверяет доступность Redis (для readiness).
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Add сохраняет сессию с TTL до ExpiresAt + grace.
func (s *RedisStore) Add(ctx context.Context, session *model.UploadSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("сериализация сессии: %w", err)
	}

	ttl := time.Until(session.ExpiresAtTime()) + s.grace
	if ttl < time.Second {
		ttl = time.Second
	}

	if err := s.client.Set(ctx, sessionKey(session.UploadID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("сохранение сессии %s: %w", session.UploadID, err)
	}
	return nil
}

// Get возвращает сессию или nil, если ключа нет.
func (s *RedisStore) Get(ctx context.Context, uploadID string) (*model.UploadSession, error) {
	data, err := s.client.Get(ctx, sessionKey(uploadID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("чтение сессии %s: %w", uploadID, err)
	}
	return decodeSession(data)
}

// Remove удаляет сессию. Отсутствие ключа не является ошибкой.
func (s *RedisStore) Remove(ctx context.Context, uploadID string) error {
	if err := s.client.Del(ctx, sessionKey(uploadID)).Err(); err != nil {
		return fmt.Errorf("удаление сессии %s: %w", uploadID, err)
	}
	return nil
}

// Take атомарно извлекает и удаляет сессию (GETDEL).
func (s *RedisStore) Take(ctx context.Context, uploadID string) (*model.UploadSession, error) {
	data, err := s.client.GetDel(ctx, sessionKey(uploadID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("извлечение сессии %s: %w", uploadID, err)
	}
	return decodeSession(data)
}

func sessionKey(uploadID string) string {
	return keyPrefix + uploadID
}

func decodeSession(data []byte) (*model.UploadSession, error) {
	var session model.UploadSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("десериализация сессии: %w", err)
	}
	return &session, nil
}
