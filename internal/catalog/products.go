// products.go — товары каталога.
package catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/bigkaa/presigned-upload/internal/api/middleware"
	"github.com/bigkaa/presigned-upload/internal/domain/apperr"
	"github.com/bigkaa/presigned-upload/internal/domain/model"
	"github.com/bigkaa/presigned-upload/internal/storage/productstore"
)

// Ограничения полей товара.
const (
	maxProductNameLength        = 200
	maxProductDescriptionLength = 1000
)

// CreateProductInput — данные для создания товара.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	ImageID     string
}

// ProductService — сервис товаров каталога.
type ProductService struct {
	store   *productstore.MemoryStore
	storage StorageClient
	cache   *ImageCache
	logger  *slog.Logger

	// now подменяется в тестах
	now func() time.Time
}

// NewProductService создаёт сервис товаров. cache может быть nil.
func NewProductService(
	store *productstore.MemoryStore,
	storage StorageClient,
	cache *ImageCache,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		store:   store,
		storage: storage,
		cache:   cache,
		logger:  logger.With(slog.String("component", "product_service")),
		now:     time.Now,
	}
}

// Create проверяет поля, подтверждает изображение у storage-service
// и сохраняет товар.
func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*model.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}

	if _, err := s.resolveImage(ctx, in.ImageID); err != nil {
		return nil, err
	}

	p := &model.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageID:     in.ImageID,
		CreatedAt:   s.now().UTC(),
	}
	s.store.Add(p)
	middleware.ProductsTotal.Set(float64(s.store.Count()))

	s.logger.Info("Товар создан",
		slog.String("product_id", p.ID),
		slog.String("image_id", p.ImageID),
	)
	return p, nil
}

// Get возвращает товар по идентификатору.
func (s *ProductService) Get(_ context.Context, id string) (*model.Product, error) {
	p := s.store.Get(id)
	if p == nil {
		return nil, apperr.NotFound("Товар не найден")
	}
	return p, nil
}

// List возвращает все товары в порядке создания.
func (s *ProductService) List(_ context.Context) []*model.Product {
	return s.store.List()
}

// resolveImage подтверждает существование изображения через кэш
// или запрос к storage-service.
func (s *ProductService) resolveImage(ctx context.Context, imageID string) (*model.ArtifactDescriptor, error) {
	if s.cache != nil {
		if desc, ok := s.cache.Get(imageID); ok {
			return desc, nil
		}
	}

	desc, err := s.storage.ValidateArtifact(ctx, imageID)
	if err != nil {
		s.logger.Error("Ошибка проверки изображения",
			slog.String("image_id", imageID),
			slog.String("error", err.Error()),
		)
		return nil, apperr.Upstream("Не удалось проверить изображение", err)
	}
	if desc == nil {
		return nil, apperr.Validation("Неверный идентификатор изображения. Сначала загрузите изображение.")
	}

	if s.cache != nil {
		s.cache.Set(imageID, desc)
	}
	return desc, nil
}

// validateProduct проверяет поля товара.
func validateProduct(in CreateProductInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return apperr.Validation("Название товара обязательно")
	case utf8.RuneCountInString(in.Name) > maxProductNameLength:
		return apperr.Validation("Название товара не должно превышать %d символов", maxProductNameLength)
	case utf8.RuneCountInString(in.Description) > maxProductDescriptionLength:
		return apperr.Validation("Описание не должно превышать %d символов", maxProductDescriptionLength)
	case in.Price < 0:
		return apperr.Validation("Цена не может быть отрицательной")
	case in.ImageID == "":
		return apperr.Validation("Идентификатор изображения обязателен")
	}
	return nil
}
