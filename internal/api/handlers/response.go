package handlers

import (
	"encoding/json"
	"net/http"

	apierrors "github.com/bigkaa/presigned-upload/internal/api/errors"
)

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ParamErrorHandler — обработчик ошибок разбора параметров пути
// для сгенерированных роутеров (ChiServerOptions.ErrorHandlerFunc).
func ParamErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	apierrors.ValidationError(w, "Некорректный параметр запроса: "+err.Error())
}
