package application

import (
	"context"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/artilectai/artilect-bot/internal/finance/domain"
	financeErrors "github.com/artilectai/artilect-bot/internal/finance/errors"
	"github.com/artilectai/artilect-bot/internal/nlu"
)

const (
	expenseColor = "#ef4444"
	incomeColor  = "#16a34a"
)

// incomeTermRe decides direction on the text path. Everything that does not
// look like income is an expense; there is no third state.
var incomeTermRe = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(?:income|salary|bonus|earned|получил|доход)(?:[^\p{L}]|$)`)

// WriteResult is the outcome of one attempted transaction write. A failed
// result carries a reason code instead of an error so the caller can phrase
// a specific user-facing message.
type WriteResult struct {
	OK       bool
	Reason   financeErrors.Reason
	ID       string
	Type     string
	Amount   decimal.Decimal
	Currency string
	Category string
}

// TransactionInput is the structured write path used when the plan resolver
// already extracted the fields.
type TransactionInput struct {
	Type        string // "income" or "expense", decided by the caller
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Description string
	OccurredAt  *time.Time
}

type TransactionService struct {
	transactions    domain.TransactionRepository
	categories      domain.CategoryRepository
	accounts        domain.AccountRepository
	defaultCurrency string
	now             func() time.Time
	log             zerolog.Logger
}

func NewTransactionService(
	transactions domain.TransactionRepository,
	categories domain.CategoryRepository,
	accounts domain.AccountRepository,
	defaultCurrency string,
	log zerolog.Logger,
) *TransactionService {
	return &TransactionService{
		transactions:    transactions,
		categories:      categories,
		accounts:        accounts,
		defaultCurrency: defaultCurrency,
		now:             time.Now,
		log:             log,
	}
}

// WithClock overrides the service clock, used in tests.
func (s *TransactionService) WithClock(now func() time.Time) *TransactionService {
	s.now = now
	return s
}

// RecordFromText re-runs extraction over the raw message and inserts the
// transaction. The whole message becomes the description.
func (s *TransactionService) RecordFromText(ctx context.Context, userID, text string) WriteResult {
	amount, ok := nlu.ParseMoney(text)
	if !ok {
		return WriteResult{Reason: financeErrors.ReasonAmountNotFound}
	}

	txType := "expense"
	if incomeTermRe.MatchString(text) {
		txType = "income"
	}

	category := ""
	if hint, ok := nlu.CategoryHint(text); ok {
		category = nlu.MapCategoryName(hint)
	}

	return s.insert(ctx, userID, domain.Transaction{
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Currency:    s.defaultCurrency,
		Description: text,
		OccurredAt:  s.now(),
	}, category)
}

// Record is the structured write path. Currency and occurrence time default
// to the configured currency and "now" when unset.
func (s *TransactionService) Record(ctx context.Context, userID string, in TransactionInput) WriteResult {
	currency := in.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}
	occurredAt := s.now()
	if in.OccurredAt != nil {
		occurredAt = *in.OccurredAt
	}
	category := nlu.MapCategoryName(in.Category)

	return s.insert(ctx, userID, domain.Transaction{
		UserID:      userID,
		Type:        in.Type,
		Amount:      in.Amount,
		Currency:    currency,
		Description: in.Description,
		OccurredAt:  occurredAt,
	}, category)
}

func (s *TransactionService) insert(ctx context.Context, userID string, tx domain.Transaction, category string) WriteResult {
	if err := tx.Validate(); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("transaction rejected by validation")
		return WriteResult{Reason: financeErrors.ReasonDBError}
	}

	if category != "" {
		categoryID, err := s.categories.GetOrCreate(ctx, userID, category, tx.Type, colorFor(tx.Type))
		if err != nil {
			s.log.Warn().Err(err).Str("category", category).Msg("category get-or-create failed")
			return WriteResult{Reason: financeErrors.ReasonDBError}
		}
		tx.CategoryID = &categoryID
	}

	accountID, err := s.accounts.EnsureDefault(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("default account lookup failed")
		return WriteResult{Reason: financeErrors.ReasonDBError}
	}
	tx.AccountID = accountID

	id, err := s.transactions.Save(ctx, tx)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("transaction insert failed")
		return WriteResult{Reason: financeErrors.ReasonDBError}
	}

	return WriteResult{
		OK:       true,
		ID:       id,
		Type:     tx.Type,
		Amount:   tx.Amount,
		Currency: tx.Currency,
		Category: category,
	}
}

func colorFor(txType string) string {
	if txType == "income" {
		return incomeColor
	}
	return expenseColor
}
