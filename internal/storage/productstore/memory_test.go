package productstore

import (
	"testing"
	"time"

	"github.com/bigkaa/presigned-upload/internal/domain/model"
)

func TestMemoryStore_AddGetList(t *testing.T) {
	s := NewMemoryStore()
	base := time.Now()

	s.Add(&model.Product{ID: "b", Name: "второй", CreatedAt: base.Add(time.Second)})
	s.Add(&model.Product{ID: "a", Name: "первый", CreatedAt: base})
	s.Add(&model.Product{ID: "c", Name: "третий", CreatedAt: base.Add(time.Second)})

	if got := s.Get("a"); got == nil || got.Name != "первый" {
		t.Errorf("Get(a): %+v", got)
	}
	if s.Get("missing") != nil {
		t.Error("несуществующий товар не должен находиться")
	}

	list := s.List()
	if len(list) != 3 {
		t.Fatalf("List: хотели 3, получили %d", len(list))
	}
	order := []string{"a", "b", "c"}
	for i, id := range order {
		if list[i].ID != id {
			t.Errorf("позиция %d: хотели %s, получили %s", i, id, list[i].ID)
		}
	}
	if s.Count() != 3 {
		t.Errorf("Count: хотели 3, получили %d", s.Count())
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	s.Add(&model.Product{ID: "a", Name: "товар"})

	got := s.Get("a")
	got.Name = "изменён"

	if s.Get("a").Name != "товар" {
		t.Error("изменение копии не должно влиять на хранилище")
	}
}
