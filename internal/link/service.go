package link

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/rs/zerolog"
)

type Service struct {
	repo Repository
	now  func() time.Time
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, now: time.Now, log: log}
}

// WithClock overrides the service clock, used in tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// UserByTelegram resolves the account id for a Telegram identity. Store
// failures are treated as "not linked" so the bot keeps answering even when
// the store is misconfigured.
func (s *Service) UserByTelegram(ctx context.Context, telegramUserID int64) string {
	userID, err := s.repo.FindUserByTelegram(ctx, telegramUserID)
	if err != nil {
		s.log.Warn().Err(err).Int64("telegram_user_id", telegramUserID).Msg("link lookup failed")
		return ""
	}
	return userID
}

// IssueCode creates a one-time 6-hex-char link code for the Telegram identity.
func (s *Service) IssueCode(ctx context.Context, telegramUserID int64) (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	code := hex.EncodeToString(buf)
	if err := s.repo.UpsertCode(ctx, code, telegramUserID); err != nil {
		return "", err
	}
	return code, nil
}

// RedeemCode consumes a link code on behalf of an account: the Telegram
// identity the code was issued for becomes linked to userID. Returns false
// for unknown, already consumed, or expired codes.
func (s *Service) RedeemCode(ctx context.Context, code, userID string) (bool, error) {
	found, err := s.repo.FindCode(ctx, code)
	if err != nil {
		return false, err
	}
	if found == nil || found.ConsumedBy != nil {
		return false, nil
	}
	if s.now().Sub(found.CreatedAt) > CodeTTL {
		return false, nil
	}
	if err := s.repo.UpsertLink(ctx, userID, found.TelegramUserID); err != nil {
		return false, err
	}
	if err := s.repo.MarkCodeConsumed(ctx, code, userID); err != nil {
		// The link itself is in place; losing the consumption mark only
		// shortens the audit trail.
		s.log.Warn().Err(err).Str("code", code).Msg("could not mark link code consumed")
	}
	return true, nil
}

// SweepExpiredCodes deletes codes older than the TTL. Wired to a scheduler
// in main.
func (s *Service) SweepExpiredCodes(ctx context.Context) {
	deleted, err := s.repo.DeleteCodesBefore(ctx, s.now().Add(-CodeTTL))
	if err != nil {
		s.log.Warn().Err(err).Msg("link code sweep failed")
		return
	}
	if deleted > 0 {
		s.log.Info().Int64("deleted", deleted).Msg("swept expired link codes")
	}
}
