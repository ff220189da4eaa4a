package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetOrCreate resolves the category id for (userID, name). The insert uses
// ON CONFLICT against the (user_id, name) unique key so concurrent first use
// of the same name resolves to a single row.
func (r *CategoryRepository) GetOrCreate(ctx context.Context, userID, name, categoryType, color string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM finance_categories WHERE user_id = $1 AND name = $2 LIMIT 1`,
		userID, name,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO finance_categories (id, user_id, name, type, color)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
        RETURNING id`,
		uuid.NewString(), userID, name, categoryType, color,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}
