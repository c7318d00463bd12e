package items

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/foundloss/internal/common"
	"github.com/dmitrijs2005/foundloss/internal/server/models"
)

// InMemoryRepository keeps items in a slice guarded by a mutex. Query
// semantics mirror the Postgres implementation.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items []*models.Item
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := *item
	r.items = append(r.items, &i)

	return item, nil
}

func (r *InMemoryRepository) ListActive(ctx context.Context, filter Filter, skip, limit int) ([]*models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*models.Item
	for _, it := range r.items {
		if it.Status != models.StatusActive {
			continue
		}
		if filter.Type != "" && it.Type != filter.Type {
			continue
		}
		if filter.Category != "" && it.Category != filter.Category {
			continue
		}
		copy := *it
		matched = append(matched, &copy)
	}

	sortNewestFirst(matched)

	if skip >= len(matched) {
		return nil, nil
	}
	matched = matched[skip:]
	if limit < len(matched) {
		matched = matched[:limit]
	}

	return matched, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, it := range r.items {
		if it.ID == id {
			copy := *it
			return &copy, nil
		}
	}

	return nil, common.ErrorNotFound
}

func (r *InMemoryRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*models.Item
	for _, it := range r.items {
		if it.UserID == userID {
			copy := *it
			matched = append(matched, &copy)
		}
	}

	sortNewestFirst(matched)

	if limit < len(matched) {
		matched = matched[:limit]
	}

	return matched, nil
}

func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id, userID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, it := range r.items {
		if it.ID == id && it.UserID == userID {
			it.Status = status
			return nil
		}
	}

	return common.ErrorNotFound
}

func sortNewestFirst(items []*models.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
