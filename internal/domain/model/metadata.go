// Пакет model — доменные модели сервисов загрузки.
// FileMetadata — описание файла, которое подписывается каталогом
// и проверяется хранилищем при выдаче upload-сессии.
package model

import (
	"time"
)

// FileMetadata — метаданные загружаемого файла. Неизменяемы после создания.
// Порядок полей фиксирован: JSON-представление этой структуры
// является каноническим форматом для подписи.
type FileMetadata struct {
	// FileName — оригинальное имя файла
	FileName string `json:"fileName"`

	// FileSize — заявленный размер файла в байтах
	FileSize int64 `json:"fileSize"`

	// ContentType — MIME-тип файла
	ContentType string `json:"contentType"`

	// Timestamp — момент создания метаданных (Unix, секунды)
	Timestamp int64 `json:"timestamp"`

	// ExpiresIn — время жизни upload-сессии в секундах
	ExpiresIn int64 `json:"expiresIn"`
}

// IsExpired проверяет, что метаданные созданы раньше now - tolerance.
// Просроченные метаданные отклоняются даже при валидной подписи.
func (m FileMetadata) IsExpired(now time.Time, tolerance time.Duration) bool {
	return m.Timestamp < now.Add(-tolerance).Unix()
}

// IsFromFuture проверяет, что timestamp опережает now больше чем на tolerance.
func (m FileMetadata) IsFromFuture(now time.Time, tolerance time.Duration) bool {
	return m.Timestamp > now.Add(tolerance).Unix()
}

// ValidateFileSize сравнивает заявленный размер с фактическим.
func (m FileMetadata) ValidateFileSize(actualSize int64) bool {
	return actualSize == m.FileSize
}
