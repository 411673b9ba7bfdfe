package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/presigned-upload/internal/api/generated/catalogapi"
	"github.com/bigkaa/presigned-upload/internal/api/generated/storageapi"
)

// MountStorage возвращает функцию регистрации маршрутов storage-service.
func MountStorage(h *StorageAPIHandler) func(chi.Router) {
	return func(r chi.Router) {
		storageapi.HandlerWithOptions(h, storageapi.ChiServerOptions{
			BaseRouter:       r,
			ErrorHandlerFunc: ParamErrorHandler,
		})
	}
}

// MountCatalog возвращает функцию регистрации маршрутов catalog-service.
func MountCatalog(h *CatalogAPIHandler) func(chi.Router) {
	return func(r chi.Router) {
		catalogapi.HandlerWithOptions(h, catalogapi.ChiServerOptions{
			BaseRouter:       r,
			ErrorHandlerFunc: ParamErrorHandler,
		})
	}
}
