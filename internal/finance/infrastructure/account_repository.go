package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// EnsureDefault resolves the user's default account, creating a "Cash" one on
// first write. The insert relies on the partial unique index over (user_id)
// WHERE is_default, which makes concurrent first writes converge on one row.
func (r *AccountRepository) EnsureDefault(ctx context.Context, userID string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM finance_accounts WHERE user_id = $1 AND is_default LIMIT 1`,
		userID,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO finance_accounts (id, user_id, name, type, is_default)
        VALUES ($1, $2, 'Cash', 'cash', TRUE)
        ON CONFLICT (user_id) WHERE is_default DO UPDATE SET is_default = TRUE
        RETURNING id`,
		uuid.NewString(), userID,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}
