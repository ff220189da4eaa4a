// Package bot holds the conversation logic: command routing, the link gate,
// and the free-text pipeline from inbound message to confirmation reply.
package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/artilectai/artilect-bot/internal/assistant"
	"github.com/artilectai/artilect-bot/internal/link"
	"github.com/artilectai/artilect-bot/internal/nlu"
	"github.com/artilectai/artilect-bot/internal/telegram"
)

const helpText = "Tell me things like:\n" +
	"• *I spent 25k on food*\n" +
	"• *Add income 1200 salary*\n" +
	"• *Tomorrow I have meeting at 10*"

type Linker interface {
	UserByTelegram(ctx context.Context, telegramUserID int64) string
	IssueCode(ctx context.Context, telegramUserID int64) (string, error)
	RedeemCode(ctx context.Context, code, userID string) (bool, error)
}

// PlanResolver is the model-backed path. The handler works without one: a
// nil resolver sends every message down the rule-based pipeline.
type PlanResolver interface {
	Resolve(ctx context.Context, req assistant.Request) assistant.Plan
	Transcribe(ctx context.Context, data []byte, mimeType string) (string, error)
}

type Applier interface {
	Apply(ctx context.Context, userID string, plan assistant.Plan) []string
}

type Config struct {
	BotToken    string
	BotUsername string
	WebAppURL   string
	Timezone    string
	Currency    string
}

// Inbound is one normalized inbound event. The webhook layer flattens a
// Telegram update into this before calling Handle.
type Inbound struct {
	TelegramUserID int64
	Text           string
	Voice          []byte
	VoiceMIME      string
	Images         []assistant.Image
	WebAppData     string
}

type Reply struct {
	Text     string
	Markdown bool
	Keyboard *telegram.InlineKeyboardMarkup
}

type Handler struct {
	links    Linker
	resolver PlanResolver
	applier  Applier
	cfg      Config
	log      zerolog.Logger
}

func NewHandler(links Linker, resolver PlanResolver, applier Applier, cfg Config, log zerolog.Logger) *Handler {
	return &Handler{links: links, resolver: resolver, applier: applier, cfg: cfg, log: log}
}

// Handle routes one inbound event to a reply. Every path produces a reply;
// the bot never goes silent on a user-facing failure.
func (h *Handler) Handle(ctx context.Context, in Inbound) Reply {
	if in.WebAppData != "" {
		return h.handleWebAppData(in)
	}

	switch {
	case in.Text == "/start":
		return h.handleStart(ctx, in.TelegramUserID)
	case in.Text == "/link":
		return h.handleLink(ctx, in.TelegramUserID)
	case strings.HasPrefix(in.Text, "/usecode"):
		return h.handleUseCode(ctx, in.Text)
	}

	userID := h.links.UserByTelegram(ctx, in.TelegramUserID)
	if userID == "" {
		return Reply{
			Text:     "Please link your account first: /link (then paste the code in the app), or open the Mini App to auto-link.",
			Keyboard: h.openAppKeyboard(),
		}
	}

	text := in.Text
	if len(in.Voice) > 0 {
		transcribed, ok := h.transcribe(ctx, in)
		if !ok {
			return Reply{Text: "I couldn't understand the voice message, please try typing it."}
		}
		text = transcribed
	}

	if text == "" && len(in.Images) == 0 {
		return Reply{Text: helpText, Markdown: true}
	}

	if h.resolver != nil {
		plan := h.resolver.Resolve(ctx, assistant.Request{
			UserID:   userID,
			Text:     text,
			Images:   in.Images,
			Timezone: h.cfg.Timezone,
			Currency: h.cfg.Currency,
		})
		if len(plan.Actions) > 0 {
			lines := h.applier.Apply(ctx, userID, plan)
			return Reply{Text: strings.Join(lines, "\n")}
		}
		// Zero actions: let the rule-based path have a go before falling
		// back to the model's clarifying reply.
		if reply, ok := h.classify(ctx, userID, text); ok {
			return reply
		}
		if plan.Reply != "" && plan.Reply != text {
			return Reply{Text: plan.Reply}
		}
		return Reply{Text: helpText, Markdown: true}
	}

	if reply, ok := h.classify(ctx, userID, text); ok {
		return reply
	}
	return Reply{Text: helpText, Markdown: true}
}

func (h *Handler) handleStart(ctx context.Context, telegramUserID int64) Reply {
	if h.links.UserByTelegram(ctx, telegramUserID) != "" {
		return Reply{
			Text:     "✅ Linked to your Artilect account. Send me things like:\n• *I spent 25k on food*\n• *Tomorrow I have meeting at 10*",
			Markdown: true,
			Keyboard: h.openAppKeyboard(),
		}
	}
	return Reply{
		Text:     "🔗 Let's link your Telegram to Artilect.\nUse /link to get a code, then paste it inside the app. Or open the Mini App and it will auto-link.",
		Keyboard: h.openAppKeyboard(),
	}
}

func (h *Handler) handleLink(ctx context.Context, telegramUserID int64) Reply {
	code, err := h.links.IssueCode(ctx, telegramUserID)
	if err != nil {
		h.log.Warn().Err(err).Int64("telegram_user_id", telegramUserID).Msg("link code issue failed")
		return Reply{Text: "Couldn't create a link code, please try again."}
	}
	return Reply{
		Text:     fmt.Sprintf("Your one-time link code: `%s`\nOpen Artilect → Profile → *Link Telegram* and paste the code.", code),
		Markdown: true,
	}
}

// handleUseCode is primarily a debugging path: /usecode CODE USER_ID.
func (h *Handler) handleUseCode(ctx context.Context, text string) Reply {
	parts := strings.Fields(text)
	if len(parts) != 3 {
		return Reply{Text: "Usage: /usecode CODE USER_ID"}
	}
	ok, err := h.links.RedeemCode(ctx, parts[1], parts[2])
	if err != nil {
		h.log.Warn().Err(err).Msg("code redemption failed")
		return Reply{Text: "Couldn't redeem the code, please try again."}
	}
	if !ok {
		return Reply{Text: "Invalid code."}
	}
	return Reply{Text: "Linked."}
}

func (h *Handler) handleWebAppData(in Inbound) Reply {
	var payload struct {
		Action   string `json:"action"`
		InitData string `json:"initData"`
	}
	if err := json.Unmarshal([]byte(in.WebAppData), &payload); err == nil &&
		payload.Action == "link" && payload.InitData != "" {
		if !link.ValidateInitData(payload.InitData, h.cfg.BotToken) {
			return Reply{Text: "❌ Could not validate app session."}
		}
		return Reply{Text: "✅ App session validated. If your account isn't linked yet, paste /link code in your app profile."}
	}

	raw := in.WebAppData
	if len(raw) > 1000 {
		raw = raw[:1000]
	}
	return Reply{Text: "Got data from Mini App: " + raw}
}

// classify runs the rule-based pipeline: one coarse intent, one domain write.
// Returns false for "unknown" so the caller can pick its own fallback.
func (h *Handler) classify(ctx context.Context, userID, text string) (Reply, bool) {
	var action assistant.Action
	switch nlu.ClassifyIntent(text) {
	case nlu.IntentAddExpense, nlu.IntentAddIncome:
		// Direction is re-derived from the text by the writer.
		action = assistant.Action{
			Kind:        assistant.KindAddTransaction,
			Transaction: &assistant.TransactionPayload{Description: text},
		}
	case nlu.IntentAddTask:
		action = assistant.Action{
			Kind: assistant.KindAddTask,
			Task: &assistant.TaskPayload{Text: text},
		}
	default:
		return Reply{}, false
	}

	// Applier lines are plain text, same as on the resolver path.
	lines := h.applier.Apply(ctx, userID, assistant.Plan{Actions: []assistant.Action{action}})
	return Reply{Text: strings.Join(lines, "\n")}, true
}

func (h *Handler) transcribe(ctx context.Context, in Inbound) (string, bool) {
	if h.resolver == nil {
		return "", false
	}
	text, err := h.resolver.Transcribe(ctx, in.Voice, in.VoiceMIME)
	if err != nil || text == "" {
		h.log.Warn().Err(err).Int64("telegram_user_id", in.TelegramUserID).Msg("voice transcription failed")
		return "", false
	}
	return text, true
}

func (h *Handler) openAppKeyboard() *telegram.InlineKeyboardMarkup {
	return OpenAppKeyboard(h.cfg.BotUsername, h.cfg.WebAppURL)
}
