package workout

import (
	"context"

	"github.com/rs/zerolog"
)

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Log inserts one workout session. Sport defaults to "workout" when the
// resolver could not tell which one it was.
func (s *Service) Log(ctx context.Context, userID string, in SessionInput) WriteResult {
	sport := in.Sport
	if sport == "" {
		sport = DefaultSport
	}

	id, err := s.repo.Save(ctx, Session{
		UserID:      userID,
		SportType:   sport,
		DurationMin: in.DurationMin,
		Intensity:   in.Intensity,
		OccurredAt:  in.OccurredAt,
		Notes:       in.Notes,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("workout insert failed")
		return WriteResult{Reason: ReasonDBError}
	}
	return WriteResult{OK: true, ID: id, Sport: sport}
}
