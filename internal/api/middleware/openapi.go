// openapi.go — валидация входящих запросов по OpenAPI контракту (kin-openapi).
// Проверяются параметры пути и тела запросов. Аутентификация здесь
// не выполняется: ею занимаются JWTAuth и APIKeyAuth.
package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"

	apierrors "github.com/bigkaa/presigned-upload/internal/api/errors"
)

// DefaultMaxValidatedBody — лимит тела запроса, проверяемого по схеме.
const DefaultMaxValidatedBody int64 = 1 << 20

// OpenAPIValidator — middleware проверки запросов по контракту.
type OpenAPIValidator struct {
	router       routers.Router
	skipBody     map[string]struct{}
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewOpenAPIValidator создаёт валидатор по загруженному контракту.
// skipBodyOperations — operationId, тело которых не проверяется
// (потоковая загрузка файлов, у которой свой лимит размера).
func NewOpenAPIValidator(swagger *openapi3.T, logger *slog.Logger, skipBodyOperations ...string) (*OpenAPIValidator, error) {
	// Маршрутизация только по пути, без сопоставления с servers
	swagger.Servers = nil

	router, err := legacy.NewRouter(swagger)
	if err != nil {
		return nil, fmt.Errorf("создание OpenAPI роутера: %w", err)
	}

	skip := make(map[string]struct{}, len(skipBodyOperations))
	for _, op := range skipBodyOperations {
		skip[op] = struct{}{}
	}

	return &OpenAPIValidator{
		router:       router,
		skipBody:     skip,
		maxBodyBytes: DefaultMaxValidatedBody,
		logger:       logger.With(slog.String("component", "openapi_validator")),
	}, nil
}

// Middleware возвращает HTTP middleware валидации.
// Пути, отсутствующие в контракте, пропускаются: их обработает роутер (404/405).
func (v *OpenAPIValidator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := v.router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			_, skipBody := v.skipBody[route.Operation.OperationID]
			if !skipBody && r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, v.maxBodyBytes)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					ExcludeRequestBody: skipBody,
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			}

			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					apierrors.FileTooLarge(w, fmt.Sprintf("Тело запроса превышает %d байт", maxErr.Limit))
					return
				}

				v.logger.Debug("Запрос не соответствует контракту",
					slog.String("operation", route.Operation.OperationID),
					slog.String("error", err.Error()),
				)
				apierrors.ValidationError(w, validationMessage(err))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// validationMessage формирует короткое сообщение без дампа схемы.
func validationMessage(err error) string {
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		if ptr := schemaErr.JSONPointer(); len(ptr) > 0 {
			return fmt.Sprintf("Поле %s: %s", strings.Join(ptr, "."), schemaErr.Reason)
		}
		return schemaErr.Reason
	}

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		switch {
		case reqErr.Parameter != nil:
			return fmt.Sprintf("Некорректный параметр %s", reqErr.Parameter.Name)
		case reqErr.Reason != "":
			return "Некорректное тело запроса: " + reqErr.Reason
		case reqErr.RequestBody != nil:
			return "Некорректное тело запроса"
		}
	}

	return "Запрос не соответствует контракту API"
}
