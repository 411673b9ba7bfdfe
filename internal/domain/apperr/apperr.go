// Пакет apperr — доменные ошибки с HTTP-статусом и машиночитаемым кодом.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Машиночитаемые коды ошибок.
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeExpired             = "EXPIRED"
	CodeUploadNotFound      = "UPLOAD_NOT_FOUND"
	CodeSizeMismatch        = "SIZE_MISMATCH"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeFileTooLarge        = "FILE_TOO_LARGE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// Error — ошибка операции с HTTP-кодом.
type Error struct {
	StatusCode int
	Code       string
	Message    string
	// Err — исходная ошибка инфраструктуры (не отдаётся клиенту)
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Unauthorized — 401, подпись или учётные данные не прошли проверку.
func Unauthorized(message string) *Error {
	return &Error{StatusCode: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

// Validation — 400, некорректные входные данные.
func Validation(format string, args ...any) *Error {
	return &Error{StatusCode: http.StatusBadRequest, Code: CodeValidationError, Message: fmt.Sprintf(format, args...)}
}

// Expired — 400, истёк срок действия метаданных или сессии.
func Expired(message string) *Error {
	return &Error{StatusCode: http.StatusBadRequest, Code: CodeExpired, Message: message}
}

// UploadNotFound — 400, upload-сессия не найдена.
func UploadNotFound() *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Code:       CodeUploadNotFound,
		Message:    "Неизвестный или истёкший идентификатор загрузки",
	}
}

// NotFound — 404, ресурс не найден.
func NotFound(message string) *Error {
	return &Error{StatusCode: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

// SizeMismatch — 400, размер полученных данных не совпадает с заявленным.
func SizeMismatch(expected, actual int64) *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Code:       CodeSizeMismatch,
		Message:    fmt.Sprintf("Размер файла не совпадает: ожидалось %d байт, получено %d байт", expected, actual),
	}
}

// Upstream — 502, удалённый сервис недоступен или ответил ошибкой.
func Upstream(message string, err error) *Error {
	return &Error{StatusCode: http.StatusBadGateway, Code: CodeUpstreamUnavailable, Message: message, Err: err}
}

// Internal — 500, внутренняя ошибка.
func Internal(message string, err error) *Error {
	return &Error{StatusCode: http.StatusInternalServerError, Code: CodeInternalError, Message: message, Err: err}
}

// As извлекает *Error из цепочки ошибок.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// HasCode проверяет, что err — *Error с указанным кодом.
func HasCode(err error, code string) bool {
	e, ok := As(err)
	return ok && e.Code == code
}
