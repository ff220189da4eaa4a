package bot

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artilectai/artilect-bot/internal/assistant"
	"github.com/artilectai/artilect-bot/internal/finance/application"
	"github.com/artilectai/artilect-bot/internal/finance/infrastructure"
	"github.com/artilectai/artilect-bot/internal/link"
	"github.com/artilectai/artilect-bot/internal/tasks"
	"github.com/artilectai/artilect-bot/internal/workout"
)

type fixture struct {
	handler      *Handler
	links        *link.MockRepository
	transactions *infrastructure.MockTransactionRepository
	categories   *infrastructure.MockCategoryRepository
	taskRepo     *tasks.MockRepository
}

// newFixture wires the whole pipeline on in-memory stores with the model
// disabled, the same shape main assembles in production.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	linkRepo := link.NewMockRepository()
	linkService := link.NewService(linkRepo, zerolog.Nop())

	transactions := &infrastructure.MockTransactionRepository{}
	categories := &infrastructure.MockCategoryRepository{}
	accounts := &infrastructure.MockAccountRepository{}
	financeService := application.NewTransactionService(transactions, categories, accounts, "UZS", zerolog.Nop())

	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)
	taskRepo := &tasks.MockRepository{}
	taskService := tasks.NewService(taskRepo, warsaw, zerolog.Nop())

	workoutService := workout.NewService(&workout.MockRepository{}, zerolog.Nop())

	applier := assistant.NewApplier(financeService, taskService, workoutService, false, zerolog.Nop())

	handler := NewHandler(linkService, nil, applier, Config{
		BotToken:    "1234567:test-token",
		BotUsername: "artilectai_bot",
		WebAppURL:   "https://app.example.com",
		Timezone:    "Europe/Warsaw",
		Currency:    "UZS",
	}, zerolog.Nop())

	return &fixture{
		handler:      handler,
		links:        linkRepo,
		transactions: transactions,
		categories:   categories,
		taskRepo:     taskRepo,
	}
}

func (f *fixture) linkUser(telegramID int64, userID string) {
	f.links.Links[telegramID] = userID
}

func TestUnlinkedUserGetsLinkPromptAndNoWrites(t *testing.T) {
	f := newFixture(t)

	reply := f.handler.Handle(context.Background(), Inbound{TelegramUserID: 500, Text: "I spent 25k on food"})

	assert.Contains(t, reply.Text, "link your account first")
	assert.NotNil(t, reply.Keyboard)
	assert.Empty(t, f.transactions.Saved)
	assert.Empty(t, f.taskRepo.Saved)
}

func TestLinkedExpenseEndToEnd(t *testing.T) {
	f := newFixture(t)
	f.linkUser(500, "user-1")

	reply := f.handler.Handle(context.Background(), Inbound{TelegramUserID: 500, Text: "I spent 25k on food"})

	assert.Contains(t, reply.Text, "-25000")
	assert.Contains(t, reply.Text, "Groceries")
	assert.False(t, reply.Markdown, "confirmations are plain text on every path")

	require.Len(t, f.transactions.Saved, 1)
	saved := f.transactions.Saved[0]
	assert.Equal(t, "expense", saved.Type)
	assert.True(t, saved.Amount.IsInteger())
	assert.Equal(t, "25000", saved.Amount.String())
	assert.Equal(t, "UZS", saved.Currency)

	require.Len(t, f.categories.Created, 1)
	assert.Equal(t, "Groceries", f.categories.Created[0].Name)
}

func TestLinkedIncomeEndToEnd(t *testing.T) {
	f := newFixture(t)
	f.linkUser(500, "user-1")

	reply := f.handler.Handle(context.Background(), Inbound{TelegramUserID: 500, Text: "Add income 1200 salary"})

	assert.Contains(t, reply.Text, "+1200")
	require.Len(t, f.transactions.Saved, 1)
	assert.Equal(t, "income", f.transactions.Saved[0].Type)
}

func TestLinkedTaskEndToEnd(t *testing.T) {
	f := newFixture(t)
	f.linkUser(500, "user-1")

	reply := f.handler.Handle(context.Background(), Inbound{TelegramUserID: 500, Text: "Tomorrow I have meeting at 10"})

	assert.Contains(t, reply.Text, "Task created")
	require.Len(t, f.taskRepo.Saved, 1)
	assert.Equal(t, "Tomorrow I have meeting at 10", f.taskRepo.Saved[0].Title)
	assert.Equal(t, 10, f.taskRepo.Saved[0].DueAt.Hour())
}

func TestUnknownTextGetsHelp(t *testing.T) {
	f := newFixture(t)
	f.linkUser(500, "user-1")

	reply := f.handler.Handle(context.Background(), Inbound{TelegramUserID: 500, Text: "how are you"})

	assert.Contains(t, reply.Text, "Tell me things like")
	assert.True(t, reply.Markdown)
	assert.Empty(t, f.transactions.Saved)
}

func TestStartCommand(t *testing.T) {
	f := newFixture(t)

	reply := f.handler.Handle(context.Background(), Inbound{TelegramUserID: 500, Text: "/start"})
	assert.Contains(t, reply.Text, "link your Telegram")
	assert.NotNil(t, reply.Keyboard)

	f.linkUser(500, "user-1")
	reply = f.handler.Handle(context.Background(), Inbound{TelegramUserID: 500, Text: "/start"})
	assert.Contains(t, reply.Text, "Linked to your Artilect account")
}

func TestLinkAndUseCodeFlow(t *testing.T) {
	f := newFixture(t)

	reply := f.handler.Handle(context.Background(), Inbound{TelegramUserID: 500, Text: "/link"})
	assert.Contains(t, reply.Text, "one-time link code")

	var code string
	for c := range f.links.Codes {
		code = c
	}
	require.Len(t, code, 6)

	reply = f.handler.Handle(context.Background(), Inbound{TelegramUserID: 0, Text: "/usecode " + code + " user-1"})
	assert.Equal(t, "Linked.", reply.Text)

	reply = f.handler.Handle(context.Background(), Inbound{TelegramUserID: 500, Text: "I spent 25k on food"})
	assert.Contains(t, reply.Text, "-25000")
}

func TestUseCodeUsage(t *testing.T) {
	f := newFixture(t)

	reply := f.handler.Handle(context.Background(), Inbound{TelegramUserID: 500, Text: "/usecode abc"})
	assert.Equal(t, "Usage: /usecode CODE USER_ID", reply.Text)

	reply = f.handler.Handle(context.Background(), Inbound{TelegramUserID: 500, Text: "/usecode ffffff user-1"})
	assert.Equal(t, "Invalid code.", reply.Text)
}

func TestWebAppDataLinkValidation(t *testing.T) {
	f := newFixture(t)

	reply := f.handler.Handle(context.Background(), Inbound{
		TelegramUserID: 500,
		WebAppData:     `{"action":"link","initData":"hash=deadbeef&auth_date=1700000000"}`,
	})
	assert.Contains(t, reply.Text, "Could not validate")

	reply = f.handler.Handle(context.Background(), Inbound{
		TelegramUserID: 500,
		WebAppData:     `{"note":"hello"}`,
	})
	assert.Contains(t, reply.Text, "Got data from Mini App")
}

type stubResolver struct {
	plan       assistant.Plan
	transcript string
}

func (s *stubResolver) Resolve(_ context.Context, _ assistant.Request) assistant.Plan {
	return s.plan
}

func (s *stubResolver) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	return s.transcript, nil
}

func TestResolverPlanIsApplied(t *testing.T) {
	f := newFixture(t)
	f.linkUser(500, "user-1")
	f.handler.resolver = &stubResolver{plan: assistant.Plan{
		Actions: []assistant.Action{
			{Kind: assistant.KindAddTransaction, Transaction: &assistant.TransactionPayload{Description: "I spent 25k on food"}},
		},
		Reply: "Got it.",
	}}

	reply := f.handler.Handle(context.Background(), Inbound{TelegramUserID: 500, Text: "receipt attached"})

	assert.Contains(t, reply.Text, "-25000")
	assert.False(t, reply.Markdown)
	require.Len(t, f.transactions.Saved, 1)
}

func TestZeroActionPlanFallsBackToClassifier(t *testing.T) {
	f := newFixture(t)
	f.linkUser(500, "user-1")
	f.handler.resolver = &stubResolver{plan: assistant.Plan{Reply: "Which category was that?"}}

	reply := f.handler.Handle(context.Background(), Inbound{TelegramUserID: 500, Text: "I spent 25k on food"})

	// The classifier still recognizes the expense even though the model
	// returned no actions.
	assert.Contains(t, reply.Text, "-25000")
	require.Len(t, f.transactions.Saved, 1)
}

func TestZeroActionPlanUsesClarifyingReply(t *testing.T) {
	f := newFixture(t)
	f.linkUser(500, "user-1")
	f.handler.resolver = &stubResolver{plan: assistant.Plan{Reply: "How much did you spend?"}}

	reply := f.handler.Handle(context.Background(), Inbound{TelegramUserID: 500, Text: "I bought something"})

	assert.Equal(t, "How much did you spend?", reply.Text)
	assert.Empty(t, f.transactions.Saved)
}

func TestVoiceMessageIsTranscribed(t *testing.T) {
	f := newFixture(t)
	f.linkUser(500, "user-1")
	f.handler.resolver = &stubResolver{
		plan:       assistant.Plan{Reply: ""},
		transcript: "I spent 25k on food",
	}

	reply := f.handler.Handle(context.Background(), Inbound{
		TelegramUserID: 500,
		Voice:          []byte{1, 2, 3},
		VoiceMIME:      "audio/ogg",
	})

	assert.Contains(t, reply.Text, "-25000")
}

func TestVoiceWithoutResolverAsksForText(t *testing.T) {
	f := newFixture(t)
	f.linkUser(500, "user-1")

	reply := f.handler.Handle(context.Background(), Inbound{
		TelegramUserID: 500,
		Voice:          []byte{1, 2, 3},
		VoiceMIME:      "audio/ogg",
	})

	assert.Contains(t, reply.Text, "try typing")
}
