// cache.go — LRU-кэш проверенных изображений с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package catalog

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/bigkaa/presigned-upload/internal/api/middleware"
	"github.com/bigkaa/presigned-upload/internal/domain/model"
)

// ImageCache — кэш описаний артефактов, подтверждённых storage-service.
// Кэшируются только найденные артефакты: отсутствие не кэшируется,
// чтобы только что загруженное изображение сразу становилось доступным.
type ImageCache struct {
	cache *expirable.LRU[string, *model.ArtifactDescriptor]
}

// NewImageCache создаёт кэш с максимальным размером и TTL записи.
func NewImageCache(maxSize int, ttl time.Duration) *ImageCache {
	return &ImageCache{
		cache: expirable.NewLRU[string, *model.ArtifactDescriptor](maxSize, nil, ttl),
	}
}

// Get возвращает описание из кэша. Обновляет метрики hit/miss.
func (c *ImageCache) Get(artifactID string) (*model.ArtifactDescriptor, bool) {
	val, ok := c.cache.Get(artifactID)
	if ok {
		middleware.ImageCacheRequestsTotal.WithLabelValues("hit").Inc()
		return val, true
	}
	middleware.ImageCacheRequestsTotal.WithLabelValues("miss").Inc()
	return nil, false
}

// Set добавляет описание в кэш.
func (c *ImageCache) Set(artifactID string, desc *model.ArtifactDescriptor) {
	c.cache.Add(artifactID, desc)
}

// Len возвращает количество записей.
func (c *ImageCache) Len() int {
	return c.cache.Len()
}
