package pantry

import (
	"sort"
	"sync"
	"time"
)

type mockRepository struct {
	items  map[uint]*Item
	nextID uint
	mu     sync.RWMutex
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		items:  make(map[uint]*Item),
		nextID: 1,
	}
}

func (r *mockRepository) ListItems(userID uint) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []Item
	for _, item := range r.items {
		if item.UserID == userID {
			items = append(items, *item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (r *mockRepository) CreateItem(item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextID
	r.nextID++
	item.CreatedAt = time.Now()

	stored := *item
	r.items[item.ID] = &stored
	return nil
}

func (r *mockRepository) DeleteItemByID(userID, id uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item, exists := r.items[id]; exists && item.UserID == userID {
		delete(r.items, id)
		return 1, nil
	}
	return 0, nil
}

func (r *mockRepository) DeleteItemByName(userID uint, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, item := range r.items {
		if item.UserID == userID && item.Name == name {
			delete(r.items, id)
			deleted++
		}
	}
	return deleted, nil
}
