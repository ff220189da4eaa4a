// Package link maps external Telegram identities to internal account
// identities. Every other operation in the bot is gated on this mapping:
// an unlinked sender can only request or redeem a link code.
package link

import (
	"context"
	"time"
)

// CodeTTL bounds how long a one-time link code stays redeemable. The original
// flow never expired codes; the sweeper plus this check close that gap.
const CodeTTL = 15 * time.Minute

type Code struct {
	Code           string
	TelegramUserID int64
	ConsumedBy     *string
	CreatedAt      time.Time
}

type Repository interface {
	// FindUserByTelegram returns the linked account id, or "" when the
	// Telegram identity is not linked.
	FindUserByTelegram(ctx context.Context, telegramUserID int64) (string, error)
	// UpsertCode stores a fresh link code for the Telegram identity,
	// overwriting any previous one with the same code value.
	UpsertCode(ctx context.Context, code string, telegramUserID int64) error
	FindCode(ctx context.Context, code string) (*Code, error)
	// UpsertLink attaches the Telegram identity to the account, replacing an
	// existing link for the same Telegram identity.
	UpsertLink(ctx context.Context, userID string, telegramUserID int64) error
	MarkCodeConsumed(ctx context.Context, code, userID string) error
	DeleteCodesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
