// Пакет api — OpenAPI контракты сервисов, встроенные в бинарники.
// Из них генерируются пакеты internal/api/generated/* (oapi-codegen),
// они же используются для валидации входящих запросов.
package api

import _ "embed"

// StorageServiceSpec — контракт storage-service.
//
//go:embed storage-service.yaml
var StorageServiceSpec []byte

// CatalogServiceSpec — контракт catalog-service.
//
//go:embed catalog-service.yaml
var CatalogServiceSpec []byte
