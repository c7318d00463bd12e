package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/foundloss/internal/common"
	"github.com/dmitrijs2005/foundloss/internal/dbx"
	"github.com/dmitrijs2005/foundloss/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const itemColumns = `id, user_id, type, title, description, category, color, location, latitude, longitude, contact_email, contact_phone, image_url, status, created_at`

func (r *PostgresRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {

	query :=
		`INSERT INTO items (` + itemColumns + `)
	     VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 `

	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.UserID, item.Type, item.Title, item.Description,
		item.Category, item.Color, item.Location, item.Latitude, item.Longitude,
		item.ContactEmail, item.ContactPhone, item.ImageURL, item.Status, item.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) ListActive(ctx context.Context, filter Filter, skip, limit int) ([]*models.Item, error) {

	query := `SELECT ` + itemColumns + ` FROM items WHERE status = $1`
	args := []any{models.StatusActive}

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}

	args = append(args, limit, skip)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return r.queryItems(ctx, query, args...)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	query :=
		`SELECT ` + itemColumns + ` FROM items
		 WHERE id = $1
		 `

	item := &models.Item{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.UserID, &item.Type, &item.Title, &item.Description,
		&item.Category, &item.Color, &item.Location, &item.Latitude, &item.Longitude,
		&item.ContactEmail, &item.ContactPhone, &item.ImageURL, &item.Status, &item.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Item, error) {
	query :=
		`SELECT ` + itemColumns + ` FROM items
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2
		 `

	return r.queryItems(ctx, query, userID, limit)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, userID, status string) error {
	query :=
		`UPDATE items SET status = $1
		 WHERE id = $2 AND user_id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, status, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) queryItems(ctx context.Context, query string, args ...any) ([]*models.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Item
	for rows.Next() {
		item := &models.Item{}
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Type, &item.Title, &item.Description,
			&item.Category, &item.Color, &item.Location, &item.Latitude, &item.Longitude,
			&item.ContactEmail, &item.ContactPhone, &item.ImageURL, &item.Status, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
