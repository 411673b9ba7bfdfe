package storageapi

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/bigkaa/presigned-upload/api"
)

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen@v2.4.1 --config=../../../../api/oapi-codegen/storageapi.yaml ../../../../api/storage-service.yaml

// GetSwagger разбирает встроенный контракт storage-service.
func GetSwagger() (*openapi3.T, error) {
	swagger, err := openapi3.NewLoader().LoadFromData(api.StorageServiceSpec)
	if err != nil {
		return nil, fmt.Errorf("error loading Swagger: %w", err)
	}
	return swagger, nil
}
