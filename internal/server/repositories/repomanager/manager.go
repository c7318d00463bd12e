// Package repomanager wires entity repositories to a concrete store. The
// store handle is passed in explicitly so repositories can run against a
// plain connection or a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/foundloss/internal/dbx"
	"github.com/dmitrijs2005/foundloss/internal/server/repositories/items"
	"github.com/dmitrijs2005/foundloss/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Items(db dbx.DBTX) items.Repository
}
