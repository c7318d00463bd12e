package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/foundloss/internal/dbx"
	"github.com/dmitrijs2005/foundloss/internal/server/repositories/items"
	"github.com/dmitrijs2005/foundloss/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves the same repositories regardless of the
// handle passed in; there is no real store underneath.
type InMemoryRepositoryManager struct {
	users *users.InMemoryRepository
	items *items.InMemoryRepository
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{
		users: users.NewInMemoryRepository(),
		items: items.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Items(db dbx.DBTX) items.Repository {
	return m.items
}
