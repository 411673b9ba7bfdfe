// Пакет productstore — in-memory хранилище товаров каталога.
package productstore

import (
	"sort"
	"sync"

	"github.com/bigkaa/presigned-upload/internal/domain/model"
)

// MemoryStore — потокобезопасное хранилище товаров.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]*model.Product
}

// NewMemoryStore создаёт пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{products: make(map[string]*model.Product)}
}

// Add сохраняет товар.
func (s *MemoryStore) Add(p *model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *p
	s.products[p.ID] = &copied
}

// Get возвращает копию товара или nil.
func (s *MemoryStore) Get(id string) *model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil
	}
	copied := *p
	return &copied
}

// List возвращает все товары, упорядоченные по CreatedAt, затем по ID.
func (s *MemoryStore) List() []*model.Product {
	s.mu.RLock()
	result := make([]*model.Product, 0, len(s.products))
	for _, p := range s.products {
		copied := *p
		result = append(result, &copied)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Count возвращает количество товаров.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}
