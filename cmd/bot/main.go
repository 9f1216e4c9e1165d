package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	rinkl "github.com/rinkl-labs/rinkl-ai"
	"github.com/rinkl-labs/rinkl-ai/internal/config"
	"github.com/rinkl-labs/rinkl-ai/internal/handler"
	"github.com/rinkl-labs/rinkl-ai/internal/middleware"
	"github.com/rinkl-labs/rinkl-ai/internal/registry"
	"github.com/rinkl-labs/rinkl-ai/internal/repository"
	"github.com/rinkl-labs/rinkl-ai/internal/service"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(rinkl.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to the invite registry
	inviteRegistry := registry.NewRedisRegistry(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer inviteRegistry.Close()

	// Initialize services
	kv := repository.NewPostgresKV(pool)
	gate := service.NewInviteGate(inviteRegistry, kv)
	store := service.NewSessionStore(kv)
	settings := service.NewSettingsService(kv)
	gemini := service.NewGeminiClient(service.GeminiConfig{
		Keys:            cfg.CandidateKeys(),
		Model:           cfg.GeminiModel,
		Temperature:     &cfg.Temperature,
		MaxOutputTokens: cfg.MaxOutputTokens,
	})
	chat := service.NewChatService(store, gemini)

	// Handler pointer for use in default handler closure
	var h *handler.Handler

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.Auth(gate),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil || update.Message == nil {
				return
			}
			if strings.HasPrefix(update.Message.Text, "/") {
				return
			}
			h.HandleTextPrivate(ctx, b, update)
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Initialize handler
	h = handler.New(handler.Deps{
		Bot:      b,
		Gate:     gate,
		Store:    store,
		Chat:     chat,
		Settings: settings,
	})

	// Register all handlers
	h.Register()

	// Start bot
	slog.Info("starting bot")
	b.Start(ctx)

	slog.Info("bot stopped gracefully")
}
