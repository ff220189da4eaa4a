package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"google.golang.org/genai"

	database "github.com/artilectai/artilect-bot/db"
	"github.com/artilectai/artilect-bot/internal/assistant"
	"github.com/artilectai/artilect-bot/internal/bot"
	"github.com/artilectai/artilect-bot/internal/finance/application"
	"github.com/artilectai/artilect-bot/internal/finance/infrastructure"
	"github.com/artilectai/artilect-bot/internal/link"
	"github.com/artilectai/artilect-bot/internal/logger"
	"github.com/artilectai/artilect-bot/internal/tasks"
	"github.com/artilectai/artilect-bot/internal/telegram"
	"github.com/artilectai/artilect-bot/internal/workout"
)

func checkConfiguration() error {
	// A missing .env file is fine, system environment variables still apply.
	_ = godotenv.Load()

	if os.Getenv("BOT_TOKEN") == "" {
		return errors.New("no BOT_TOKEN provided")
	}
	if os.Getenv("DB_CONNECTION_STRING") == "" {
		return errors.New("no DB_CONNECTION_STRING provided")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Server wires the webhook endpoint to the conversation handler.
type Server struct {
	router    *http.ServeMux
	handler   *bot.Handler
	client    *telegram.Client
	dbService *database.DBService
	secret    string
	log       zerolog.Logger
}

func NewServer(handler *bot.Handler, client *telegram.Client, dbService *database.DBService, secret string, log zerolog.Logger) *Server {
	return &Server{
		router:    http.NewServeMux(),
		handler:   handler,
		client:    client,
		dbService: dbService,
		secret:    secret,
		log:       log,
	}
}

func (s *Server) RegisterRoutes(webhookPath string) {
	s.router.HandleFunc("POST "+webhookPath, s.handleWebhook)
	s.router.HandleFunc("GET /healthz", s.handleHealth)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	stats := s.dbService.Health()
	w.Header().Set("Content-Type", "application/json")
	if stats["status"] != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(stats)
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if s.secret != "" && r.Header.Get("X-Telegram-Bot-Api-Secret-Token") != s.secret {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.log.Warn().Err(err).Msg("undecodable update")
		w.WriteHeader(http.StatusOK)
		return
	}
	// Telegram retries non-200 responses, so the update is acknowledged
	// regardless of how handling goes.
	w.WriteHeader(http.StatusOK)

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	reply := s.handler.Handle(ctx, s.buildInbound(ctx, msg))
	if reply.Text == "" {
		return
	}

	req := telegram.SendMessageRequest{
		ChatID:      msg.Chat.ID,
		Text:        reply.Text,
		ReplyMarkup: reply.Keyboard,
	}
	if reply.Markdown {
		req.ParseMode = "Markdown"
	}
	if err := s.client.SendMessage(ctx, req); err != nil {
		s.log.Warn().Err(err).Int64("chat_id", msg.Chat.ID).Msg("sendMessage failed")
	}
}

// buildInbound flattens a Telegram message into the handler's input shape,
// downloading voice and photo attachments up front.
func (s *Server) buildInbound(ctx context.Context, msg *telegram.Message) bot.Inbound {
	in := bot.Inbound{
		TelegramUserID: msg.From.ID,
		Text:           msg.Text,
	}
	if in.Text == "" {
		in.Text = msg.Caption
	}
	if msg.WebAppData != nil {
		in.WebAppData = msg.WebAppData.Data
	}

	if msg.Voice != nil {
		data, err := s.download(ctx, msg.Voice.FileID)
		if err != nil {
			s.log.Warn().Err(err).Msg("voice download failed")
		} else {
			in.Voice = data
			in.VoiceMIME = msg.Voice.MIMEType
			if in.VoiceMIME == "" {
				in.VoiceMIME = "audio/ogg"
			}
		}
	}

	if len(msg.Photo) > 0 {
		// The last rendition is the largest one.
		largest := msg.Photo[len(msg.Photo)-1]
		data, err := s.download(ctx, largest.FileID)
		if err != nil {
			s.log.Warn().Err(err).Msg("photo download failed")
		} else {
			in.Images = append(in.Images, assistant.Image{MIMEType: "image/jpeg", Data: data})
		}
	}

	return in
}

func (s *Server) download(ctx context.Context, fileID string) ([]byte, error) {
	file, err := s.client.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return s.client.DownloadFile(ctx, file.FilePath)
}

func startLinkCodeSweeper(linkService *link.Service, log zerolog.Logger) error {
	c := cron.New()
	_, err := c.AddFunc("@every 10m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		linkService.SweepExpiredCodes(ctx)
	})
	if err != nil {
		return err
	}
	c.Start()
	log.Info().Msg("link code sweeper started")
	return nil
}

func main() {
	log := logger.New()

	if err := checkConfiguration(); err != nil {
		log.Fatal().Err(err).Msg("missing configuration")
	}

	dbService, err := database.NewDBService(os.Getenv("DB_CONNECTION_STRING"))
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize database")
	}
	defer dbService.Close()

	timezone := envOr("TZ", "Europe/Warsaw")
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Fatal().Err(err).Str("tz", timezone).Msg("unknown timezone")
	}

	currency := envOr("DEFAULT_CURRENCY", "UZS")
	botToken := os.Getenv("BOT_TOKEN")

	linkRepo := link.NewPostgresRepository(dbService.DB)
	linkService := link.NewService(linkRepo, log)

	financeService := application.NewTransactionService(
		infrastructure.NewTransactionRepository(dbService.DB),
		infrastructure.NewCategoryRepository(dbService.DB),
		infrastructure.NewAccountRepository(dbService.DB),
		currency,
		log,
	)
	taskService := tasks.NewService(tasks.NewPostgresRepository(dbService.DB), loc, log)
	workoutService := workout.NewService(workout.NewPostgresRepository(dbService.DB), log)

	debug := os.Getenv("BOT_DEBUG") == "true"
	applier := assistant.NewApplier(financeService, taskService, workoutService, debug, log)

	var resolver bot.PlanResolver
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      apiKey,
			HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
		})
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("could not create genai client")
		}
		modelName := envOr("GEMINI_MODEL", "gemini-2.0-flash")
		resolver = assistant.NewResolver(client.Models, modelName, log)
		log.Info().Str("model", modelName).Msg("plan resolver enabled")
	} else {
		log.Info().Msg("GEMINI_API_KEY not set, using rule-based pipeline only")
	}

	handler := bot.NewHandler(linkService, resolver, applier, bot.Config{
		BotToken:    botToken,
		BotUsername: envOr("BOT_USERNAME", "artilectai_bot"),
		WebAppURL:   os.Getenv("WEBAPP_URL"),
		Timezone:    timezone,
		Currency:    currency,
	}, log)

	tgClient := telegram.NewClient(botToken)

	if err := startLinkCodeSweeper(linkService, log); err != nil {
		log.Fatal().Err(err).Msg("scheduler didn't start")
	}

	webhookPath := envOr("WEBHOOK_PATH", "/telegram/webhook")
	server := NewServer(handler, tgClient, dbService, os.Getenv("WEBHOOK_SECRET"), log)
	server.RegisterRoutes(webhookPath)

	if webhookURL := os.Getenv("WEBHOOK_URL"); webhookURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := tgClient.SetWebhook(ctx, webhookURL+webhookPath, os.Getenv("WEBHOOK_SECRET"))
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("could not register webhook")
		}
		log.Info().Str("url", webhookURL+webhookPath).Msg("webhook registered")
	}

	port := envOr("PORT", "8080")
	log.Info().Str("port", port).Msg("server starting")
	if err := http.ListenAndServe(":"+port, server.router); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
