package tasks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, task Task) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, title, status, priority, due_date, start_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, task.UserID, task.Title, task.Status, task.Priority, task.DueAt, task.StartAt,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}
