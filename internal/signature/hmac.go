// Пакет signature — HMAC-подпись метаданных загрузки.
//
// Каталог подписывает FileMetadata общим секретом, хранилище
// пересчитывает подпись и сравнивает. Канонический формат
// полезной нагрузки — JSON в порядке объявления полей структуры.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptySecret — секрет подписи не задан.
var ErrEmptySecret = errors.New("секрет подписи не задан")

// Signer — вычисление и проверка подписи произвольной полезной нагрузки.
type Signer interface {
	Sign(payload any) (string, error)
	Verify(payload any, signature string) bool
}

// HMACSigner — HMAC-SHA256 с общим секретом, подпись в base64.
// Секрет задаётся при старте и не меняется.
type HMACSigner struct {
	secret []byte
}

// New создаёт HMACSigner. Пустой секрет недопустим.
func New(secret []byte) (*HMACSigner, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &HMACSigner{secret: key}, nil
}

// Sign сериализует payload в канонический JSON и возвращает
// base64(HMAC-SHA256(secret, json)).
func (s *HMACSigner) Sign(payload any) (string, error) {
	sum, err := s.mac(payload)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sum), nil
}

// Verify пересчитывает подпись и сравнивает за постоянное время.
func (s *HMACSigner) Verify(payload any, signature string) bool {
	expected, err := s.Sign(payload)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *HMACSigner) mac(payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("сериализация полезной нагрузки: %w", err)
	}
	h := hmac.New(sha256.New, s.secret)
	h.Write(data)
	return h.Sum(nil), nil
}

var _ Signer = (*HMACSigner)(nil)
