package items

import (
	"context"

	"github.com/dmitrijs2005/foundloss/internal/server/models"
)

// Filter narrows listing queries. Empty fields are not applied.
type Filter struct {
	Type     string
	Category string
}

type Repository interface {
	Create(ctx context.Context, item *models.Item) (*models.Item, error)

	// ListActive returns items with status "active", newest first,
	// optionally narrowed by filter, paged by skip/limit.
	ListActive(ctx context.Context, filter Filter, skip, limit int) ([]*models.Item, error)

	// GetByID fetches an item regardless of its status.
	GetByID(ctx context.Context, id string) (*models.Item, error)

	// ListByUser returns all items owned by userID regardless of status,
	// newest first, capped at limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Item, error)

	// UpdateStatus sets the status of the item matching both id and userID.
	// A missing item and a non-owning caller are indistinguishable: both
	// yield common.ErrorNotFound.
	UpdateStatus(ctx context.Context, id, userID, status string) error
}
