package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rinkl-labs/rinkl-ai/internal/domain"
	"github.com/rinkl-labs/rinkl-ai/internal/middleware"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	chatID := update.Message.Chat.ID

	if !middleware.Authenticated(ctx) {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   h.tr(ctx, chatID, keyGatePrompt),
		})
		return
	}

	h.sendWelcome(ctx, b, chatID)
}

func (h *Handler) sendWelcome(ctx context.Context, b *bot.Bot, chatID int64) {
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      h.tr(ctx, chatID, keyWelcome),
		ParseMode: models.ParseModeMarkdown,
	})
}

// handleCodeAttempt treats a plain text message from an unauthenticated
// chat as an invitation code. Denial reasons are deliberately not
// distinguished for the user; only the cool-down gets its own message.
func (h *Handler) handleCodeAttempt(ctx context.Context, b *bot.Bot, chatID int64, raw string) {
	err := h.gate.Redeem(ctx, chatID, raw)
	if err == nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   h.tr(ctx, chatID, keyGateGranted),
		})
		h.sendWelcome(ctx, b, chatID)
		return
	}

	switch {
	case errors.Is(err, domain.ErrCooldown):
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   h.tr(ctx, chatID, keyGateCooldown),
		})
	case errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, domain.ErrCodeDenied),
		errors.Is(err, domain.ErrRegistryUnreachable):
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   h.tr(ctx, chatID, keyGateDenied),
		})
	default:
		slog.Error("redeem invite code", "chat_id", chatID, "error", err)
	}
}
