package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/foundloss/internal/common"
	"github.com/dmitrijs2005/foundloss/internal/server/models"
	"github.com/dmitrijs2005/foundloss/internal/server/repositories/items"
	"github.com/dmitrijs2005/foundloss/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	// DefaultListLimit applies to the public listing when the caller does not
	// pass a limit.
	DefaultListLimit = 50
	// OwnListLimit caps how many of a user's own reports are returned.
	OwnListLimit = 100
)

// ContactInfo is what a finder gets back when asking to reach a reporter.
// Method echoes whatever channel the caller said they prefer.
type ContactInfo struct {
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Method string `json:"method"`
}

// ItemService implements the lost-and-found catalog operations on top of the
// items repository.
type ItemService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewItemService(db *sql.DB, m repomanager.RepositoryManager) *ItemService {
	return &ItemService{db: db, repomanager: m}
}

// Create stores a new report on behalf of userID. Identity, ownership, status
// and the creation timestamp are assigned here regardless of what the caller
// put into the item.
func (s *ItemService) Create(ctx context.Context, userID string, item *models.Item) (*models.Item, error) {
	item.ID = uuid.NewString()
	item.UserID = userID
	item.Status = models.StatusActive
	item.CreatedAt = time.Now().UTC()

	repo := s.repomanager.Items(s.db)

	created, err := repo.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("error creating item: %w", err)
	}

	return created, nil
}

// List returns active reports, newest first, optionally narrowed by type and
// category.
func (s *ItemService) List(ctx context.Context, filter items.Filter, skip, limit int) ([]*models.Item, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if skip < 0 {
		skip = 0
	}

	repo := s.repomanager.Items(s.db)

	result, err := repo.ListActive(ctx, filter, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing items: %w", err)
	}

	return result, nil
}

// GetByID returns a single report regardless of its status.
func (s *ItemService) GetByID(ctx context.Context, id string) (*models.Item, error) {
	repo := s.repomanager.Items(s.db)

	item, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return item, nil
}

// ListMine returns the caller's own reports regardless of status, newest
// first.
func (s *ItemService) ListMine(ctx context.Context, userID string) ([]*models.Item, error) {
	repo := s.repomanager.Items(s.db)

	result, err := repo.ListByUser(ctx, userID, OwnListLimit)
	if err != nil {
		return nil, fmt.Errorf("error listing items: %w", err)
	}

	return result, nil
}

// UpdateStatus sets the status of a report owned by userID. A missing report
// and one owned by somebody else both come back as ErrorNotFound.
func (s *ItemService) UpdateStatus(ctx context.Context, id, userID, status string) error {
	repo := s.repomanager.Items(s.db)

	err := repo.UpdateStatus(ctx, id, userID, status)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	return nil
}

// ContactOwner reveals the contact details stored on a report. The optional
// message from the caller is not delivered anywhere, the reporter is expected
// to be reached directly.
func (s *ItemService) ContactOwner(ctx context.Context, itemID, method string) (*ContactInfo, error) {
	repo := s.repomanager.Items(s.db)

	item, err := repo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return &ContactInfo{
		Email:  item.ContactEmail,
		Phone:  item.ContactPhone,
		Method: method,
	}, nil
}
