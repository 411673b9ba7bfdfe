package catalogapi

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/bigkaa/presigned-upload/api"
)

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen@v2.4.1 --config=../../../../api/oapi-codegen/catalogapi.yaml ../../../../api/catalog-service.yaml

// GetSwagger разбирает встроенный контракт catalog-service.
func GetSwagger() (*openapi3.T, error) {
	swagger, err := openapi3.NewLoader().LoadFromData(api.CatalogServiceSpec)
	if err != nil {
		return nil, fmt.Errorf("error loading Swagger: %w", err)
	}
	return swagger, nil
}
