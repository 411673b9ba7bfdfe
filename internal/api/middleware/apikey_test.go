package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIKeyAuth(t *testing.T) {
	auth := NewAPIKeyAuth("seller-key", testLogger())
	handler := auth.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name string
		key  string
		want int
	}{
		{"верный ключ", "seller-key", http.StatusOK},
		{"нет ключа", "", http.StatusUnauthorized},
		{"неверный ключ", "seller-key2", http.StatusUnauthorized},
		{"префикс ключа", "seller", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("ожидался статус %d, получен %d", tt.want, rec.Code)
			}
			if tt.want != http.StatusUnauthorized {
				return
			}

			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("тело ошибки не JSON: %v", err)
			}
			if body.Error.Code != "UNAUTHORIZED" {
				t.Errorf("ожидался код UNAUTHORIZED, получен %q", body.Error.Code)
			}
		})
	}
}
