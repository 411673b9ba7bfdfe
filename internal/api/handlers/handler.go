// handler.go — StorageAPIHandler и CatalogAPIHandler реализуют
// сгенерированные ServerInterface, делегируя вызовы доменным handler'ам.
package handlers

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/bigkaa/presigned-upload/internal/api/generated/catalogapi"
	"github.com/bigkaa/presigned-upload/internal/api/generated/storageapi"
	"github.com/bigkaa/presigned-upload/internal/server"
)

// StorageAPIHandler — единая реализация storageapi.ServerInterface.
type StorageAPIHandler struct {
	storage *StorageHandler
	health  *HealthHandler
	metrics *server.MetricsHandler
}

// NewStorageAPIHandler создаёт handler storage-service.
func NewStorageAPIHandler(storage *StorageHandler, health *HealthHandler, metrics *server.MetricsHandler) *StorageAPIHandler {
	return &StorageAPIHandler{
		storage: storage,
		health:  health,
		metrics: metrics,
	}
}

func (h *StorageAPIHandler) CreatePresignedURL(w http.ResponseWriter, r *http.Request) {
	h.storage.CreatePresignedURL(w, r)
}

func (h *StorageAPIHandler) UploadFile(w http.ResponseWriter, r *http.Request, uploadId storageapi.UploadId) {
	h.storage.UploadFile(w, r, uploadId)
}

func (h *StorageAPIHandler) ValidateArtifact(w http.ResponseWriter, r *http.Request, artifactId storageapi.ArtifactId) {
	h.storage.ValidateArtifact(w, r, artifactId)
}

func (h *StorageAPIHandler) DownloadArtifact(w http.ResponseWriter, r *http.Request, artifactId storageapi.ArtifactId) {
	h.storage.DownloadArtifact(w, r, artifactId)
}

func (h *StorageAPIHandler) HeadArtifact(w http.ResponseWriter, r *http.Request, artifactId storageapi.ArtifactId) {
	h.storage.HeadArtifact(w, r, artifactId)
}

func (h *StorageAPIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

func (h *StorageAPIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

func (h *StorageAPIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.GetMetrics(w, r)
}

// CatalogAPIHandler — единая реализация catalogapi.ServerInterface.
type CatalogAPIHandler struct {
	catalog *CatalogHandler
	health  *HealthHandler
	metrics *server.MetricsHandler
}

// NewCatalogAPIHandler создаёт handler catalog-service.
func NewCatalogAPIHandler(catalog *CatalogHandler, health *HealthHandler, metrics *server.MetricsHandler) *CatalogAPIHandler {
	return &CatalogAPIHandler{
		catalog: catalog,
		health:  health,
		metrics: metrics,
	}
}

func (h *CatalogAPIHandler) RequestUpload(w http.ResponseWriter, r *http.Request) {
	h.catalog.RequestUpload(w, r)
}

func (h *CatalogAPIHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	h.catalog.CreateProduct(w, r)
}

func (h *CatalogAPIHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	h.catalog.ListProducts(w, r)
}

func (h *CatalogAPIHandler) GetProduct(w http.ResponseWriter, r *http.Request, productId openapi_types.UUID) {
	h.catalog.GetProduct(w, r, productId)
}

func (h *CatalogAPIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

func (h *CatalogAPIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

func (h *CatalogAPIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.GetMetrics(w, r)
}

// Проверка на этапе компиляции
var (
	_ storageapi.ServerInterface = (*StorageAPIHandler)(nil)
	_ catalogapi.ServerInterface = (*CatalogAPIHandler)(nil)
)
