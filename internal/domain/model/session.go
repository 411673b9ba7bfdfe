package model

import (
	"time"
)

// UploadSession — серверная запись выданного разрешения на загрузку.
// Создаётся при выдаче grant, читается и удаляется при финализации.
// Никогда не изменяется на месте.
type UploadSession struct {
	// UploadID — непрозрачный идентификатор сессии (UUID v4)
	UploadID string `json:"upload_id"`

	// Metadata — снимок подписанных метаданных
	Metadata FileMetadata `json:"metadata"`

	// Signature — HMAC подпись метаданных, предъявленная при выдаче
	Signature string `json:"signature"`

	// ExpiresAt — момент истечения сессии (Unix, секунды)
	ExpiresAt int64 `json:"expires_at"`

	// CreatedAt — дата создания сессии (UTC)
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired проверяет, истёк ли срок действия сессии.
func (s *UploadSession) IsExpired(now time.Time) bool {
	return now.Unix() > s.ExpiresAt
}

// ExpiresAtTime возвращает ExpiresAt как time.Time (UTC).
func (s *UploadSession) ExpiresAtTime() time.Time {
	return time.Unix(s.ExpiresAt, 0).UTC()
}

// UploadGrant — ответ на запрос разрешения загрузки.
type UploadGrant struct {
	// UploadURL — адрес для загрузки, содержит UploadID
	UploadURL string
	// UploadID — идентификатор сессии
	UploadID string
	// ExpiresAt — момент истечения (Unix, секунды)
	ExpiresAt int64
}
