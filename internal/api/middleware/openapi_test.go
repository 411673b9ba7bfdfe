package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bigkaa/presigned-upload/internal/api/generated/catalogapi"
	"github.com/bigkaa/presigned-upload/internal/api/generated/storageapi"
)

func newStorageValidator(t *testing.T) *OpenAPIValidator {
	t.Helper()
	swagger, err := storageapi.GetSwagger()
	if err != nil {
		t.Fatalf("GetSwagger: %v", err)
	}
	v, err := NewOpenAPIValidator(swagger, testLogger(), "UploadFile")
	if err != nil {
		t.Fatalf("NewOpenAPIValidator: %v", err)
	}
	return v
}

// echoHandler возвращает 200 и прочитанное тело — проверка, что тело
// восстановлено после валидации.
func echoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	})
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("тело ошибки не JSON: %v", err)
	}
	return body.Error.Code
}

func TestOpenAPIValidator_PresignedURL(t *testing.T) {
	handler := newStorageValidator(t).Middleware()(echoHandler())

	valid := `{"metadata":{"fileName":"a.png","fileSize":10,"contentType":"image/png","timestamp":1700000000,"expiresIn":3600},"signature":"c2ln"}`

	tests := []struct {
		name string
		body string
		want int
	}{
		{"валидный запрос", valid, http.StatusOK},
		{"нет подписи", `{"metadata":{"fileName":"a.png","fileSize":10,"contentType":"image/png","timestamp":1,"expiresIn":1}}`, http.StatusBadRequest},
		{"размер строкой", `{"metadata":{"fileName":"a.png","fileSize":"10","contentType":"image/png","timestamp":1,"expiresIn":1},"signature":"s"}`, http.StatusBadRequest},
		{"не JSON", `{{`, http.StatusBadRequest},
		{"пустое тело", ``, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/internal/presigned-url", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("ожидался статус %d, получен %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			if tt.want == http.StatusOK && rec.Body.String() != tt.body {
				t.Errorf("тело запроса не восстановлено после валидации: %q", rec.Body.String())
			}
			if tt.want == http.StatusBadRequest {
				if code := errorCode(t, rec); code != "VALIDATION_ERROR" {
					t.Errorf("ожидался VALIDATION_ERROR, получен %q", code)
				}
			}
		})
	}
}

func TestOpenAPIValidator_UploadBodySkipped(t *testing.T) {
	handler := newStorageValidator(t).Middleware()(echoHandler())

	payload := bytes.Repeat([]byte{0xff}, int(DefaultMaxValidatedBody)+10)
	req := httptest.NewRequest(http.MethodPut, "/upload/abc", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/octet-stream")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("тело загрузки не должно проверяться валидатором: статус %d", rec.Code)
	}
	if rec.Body.Len() != len(payload) {
		t.Errorf("тело загрузки изменено: %d байт вместо %d", rec.Body.Len(), len(payload))
	}
}

func TestOpenAPIValidator_BodyTooLarge(t *testing.T) {
	handler := newStorageValidator(t).Middleware()(echoHandler())

	big := `{"metadata":{"fileName":"` + strings.Repeat("a", int(DefaultMaxValidatedBody)) + `"},"signature":"s"}`
	req := httptest.NewRequest(http.MethodPost, "/internal/presigned-url", strings.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("ожидался статус 413, получен %d", rec.Code)
	}
}

func TestOpenAPIValidator_UnknownRoutePassesThrough(t *testing.T) {
	handler := newStorageValidator(t).Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("неизвестный путь должен передаваться дальше, статус %d", rec.Code)
	}
}

func TestOpenAPIValidator_CatalogContract(t *testing.T) {
	swagger, err := catalogapi.GetSwagger()
	if err != nil {
		t.Fatalf("GetSwagger: %v", err)
	}
	v, err := NewOpenAPIValidator(swagger, testLogger())
	if err != nil {
		t.Fatalf("NewOpenAPIValidator: %v", err)
	}
	handler := v.Middleware()(echoHandler())

	tests := []struct {
		name string
		body string
		want int
	}{
		{"валидный товар", `{"name":"Чашка","price":9.5,"imageId":"img"}`, http.StatusOK},
		{"нет imageId", `{"name":"Чашка","price":9.5}`, http.StatusBadRequest},
		{"цена строкой", `{"name":"Чашка","price":"дорого","imageId":"img"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("ожидался статус %d, получен %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}
