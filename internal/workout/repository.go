package workout

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

func (r *PostgresRepository) Save(ctx context.Context, session Session) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workout_sessions (id, user_id, sport_type, duration_min, intensity, occurred_at, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, session.UserID, session.SportType, session.DurationMin,
		session.Intensity, session.OccurredAt, session.Notes,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}
