// catalog.go — HTTP handlers catalog-service: запрос разрешения
// на загрузку и товары.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	apierrors "github.com/bigkaa/presigned-upload/internal/api/errors"
	"github.com/bigkaa/presigned-upload/internal/api/generated/catalogapi"
	"github.com/bigkaa/presigned-upload/internal/catalog"
	"github.com/bigkaa/presigned-upload/internal/domain/model"
)

// CatalogHandler — обработчик эндпоинтов catalog-service.
type CatalogHandler struct {
	grants   *catalog.GrantService
	products *catalog.ProductService
}

// NewCatalogHandler создаёт обработчик catalog-service.
func NewCatalogHandler(grants *catalog.GrantService, products *catalog.ProductService) *CatalogHandler {
	return &CatalogHandler{
		grants:   grants,
		products: products,
	}
}

// RequestUpload обрабатывает POST /api/upload/request.
func (h *CatalogHandler) RequestUpload(w http.ResponseWriter, r *http.Request) {
	var req catalogapi.RequestUploadJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON запроса")
		return
	}

	grant, err := h.grants.RequestUpload(r.Context(), catalog.GrantRequest{
		FileName:    req.FileName,
		FileSize:    req.FileSize,
		ContentType: req.ContentType,
	})
	if err != nil {
		apierrors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, catalogapi.UploadGrant{
		UploadUrl: grant.UploadURL,
		UploadId:  grant.UploadID,
		ExpiresAt: grant.ExpiresAt,
	})
}

// CreateProduct обрабатывает POST /api/products.
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req catalogapi.CreateProductJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON запроса")
		return
	}

	in := catalog.CreateProductInput{
		Name:    req.Name,
		Price:   req.Price,
		ImageID: req.ImageId,
	}
	if req.Description != nil {
		in.Description = *req.Description
	}

	p, err := h.products.Create(r.Context(), in)
	if err != nil {
		apierrors.WriteAppError(w, err)
		return
	}

	w.Header().Set("Location", "/api/products/"+p.ID)
	writeJSON(w, http.StatusCreated, toAPIProduct(p))
}

// ListProducts обрабатывает GET /api/products.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.products.List(r.Context())

	resp := make([]catalogapi.Product, 0, len(products))
	for _, p := range products {
		resp = append(resp, toAPIProduct(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetProduct обрабатывает GET /api/products/{productId}.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request, productId openapi_types.UUID) {
	p, err := h.products.Get(r.Context(), productId.String())
	if err != nil {
		apierrors.WriteAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAPIProduct(p))
}

// toAPIProduct преобразует товар в API-модель.
func toAPIProduct(p *model.Product) catalogapi.Product {
	out := catalogapi.Product{
		ProductId: uuid.MustParse(p.ID),
		Name:      p.Name,
		Price:     p.Price,
		ImageId:   p.ImageID,
		CreatedAt: p.CreatedAt,
	}
	if p.Description != "" {
		desc := p.Description
		out.Description = &desc
	}
	return out
}
