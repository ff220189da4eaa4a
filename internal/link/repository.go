package link

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindUserByTelegram(ctx context.Context, telegramUserID int64) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM telegram_links WHERE telegram_user_id = $1`,
		telegramUserID,
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (r *PostgresRepository) UpsertCode(ctx context.Context, code string, telegramUserID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO telegram_link_codes (code, telegram_user_id, created_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (code) DO UPDATE
        SET telegram_user_id = EXCLUDED.telegram_user_id,
            consumed_by = NULL,
            created_at = NOW()`,
		code, telegramUserID,
	)
	return err
}

func (r *PostgresRepository) FindCode(ctx context.Context, code string) (*Code, error) {
	var c Code
	err := r.db.QueryRowContext(ctx,
		`SELECT code, telegram_user_id, consumed_by, created_at
        FROM telegram_link_codes WHERE code = $1`,
		code,
	).Scan(&c.Code, &c.TelegramUserID, &c.ConsumedBy, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) UpsertLink(ctx context.Context, userID string, telegramUserID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO telegram_links (telegram_user_id, user_id, linked_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (telegram_user_id) DO UPDATE
        SET user_id = EXCLUDED.user_id,
            linked_at = NOW()`,
		telegramUserID, userID,
	)
	return err
}

func (r *PostgresRepository) MarkCodeConsumed(ctx context.Context, code, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE telegram_link_codes SET consumed_by = $2 WHERE code = $1`,
		code, userID,
	)
	return err
}

func (r *PostgresRepository) DeleteCodesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM telegram_link_codes WHERE created_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
