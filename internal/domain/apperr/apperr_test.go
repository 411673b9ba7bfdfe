package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		status int
		code   string
	}{
		{"unauthorized", Unauthorized("x"), http.StatusUnauthorized, CodeUnauthorized},
		{"validation", Validation("поле %s", "fileName"), http.StatusBadRequest, CodeValidationError},
		{"expired", Expired("x"), http.StatusBadRequest, CodeExpired},
		{"upload not found", UploadNotFound(), http.StatusBadRequest, CodeUploadNotFound},
		{"not found", NotFound("x"), http.StatusNotFound, CodeNotFound},
		{"size mismatch", SizeMismatch(10, 9), http.StatusBadRequest, CodeSizeMismatch},
		{"upstream", Upstream("x", nil), http.StatusBadGateway, CodeUpstreamUnavailable},
		{"internal", Internal("x", nil), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.StatusCode != tt.status {
				t.Errorf("StatusCode: хотели %d, получили %d", tt.status, tt.err.StatusCode)
			}
			if tt.err.Code != tt.code {
				t.Errorf("Code: хотели %s, получили %s", tt.code, tt.err.Code)
			}
			if tt.err.Message == "" {
				t.Error("пустое сообщение")
			}
		})
	}
}

func TestSizeMismatch_Message(t *testing.T) {
	e := SizeMismatch(100, 42)
	want := "Размер файла не совпадает: ожидалось 100 байт, получено 42 байт"
	if e.Message != want {
		t.Errorf("Message: хотели %q, получили %q", want, e.Message)
	}
}

func TestAsAndHasCode(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := fmt.Errorf("запрос: %w", Upstream("сервис недоступен", cause))

	e, ok := As(wrapped)
	if !ok {
		t.Fatal("As не нашёл *Error в цепочке")
	}
	if e.Code != CodeUpstreamUnavailable {
		t.Errorf("Code: получили %s", e.Code)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("исходная ошибка должна быть доступна через Unwrap")
	}
	if !HasCode(wrapped, CodeUpstreamUnavailable) {
		t.Error("HasCode должен вернуть true")
	}
	if HasCode(wrapped, CodeNotFound) {
		t.Error("HasCode должен вернуть false для другого кода")
	}
	if HasCode(cause, CodeUpstreamUnavailable) {
		t.Error("HasCode должен вернуть false для обычной ошибки")
	}
}
