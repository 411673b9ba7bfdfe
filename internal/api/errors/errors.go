// Пакет errors — единый формат HTTP-ошибок сервисов загрузки.
// Формат: {"error": {"code": "...", "message": "..."}}.
// Все HTTP-ответы с ошибками должны использовать WriteError.
package errors //nolint:revive // конфликт имени со stdlib, импортируется как apierrors

import (
	"encoding/json"
	"net/http"

	"github.com/bigkaa/presigned-upload/internal/domain/apperr"
)

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// WriteError пишет ошибку с HTTP-статусом и машиночитаемым кодом apperr.Code*.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteAppError пишет *apperr.Error как есть; прочие ошибки
// отдаются как 500 без подробностей.
func WriteAppError(w http.ResponseWriter, err error) {
	if appErr, ok := apperr.As(err); ok {
		WriteError(w, appErr.StatusCode, appErr.Code, appErr.Message)
		return
	}
	InternalError(w, "Внутренняя ошибка сервера")
}

// ValidationError — 400 VALIDATION_ERROR.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, apperr.CodeValidationError, message)
}

// NotFound — 404 NOT_FOUND.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, apperr.CodeNotFound, message)
}

// Unauthorized — 401 UNAUTHORIZED.
func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, apperr.CodeUnauthorized, message)
}

// FileTooLarge — 413 FILE_TOO_LARGE.
func FileTooLarge(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusRequestEntityTooLarge, apperr.CodeFileTooLarge, message)
}

// InternalError — 500 INTERNAL_ERROR.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, apperr.CodeInternalError, message)
}
