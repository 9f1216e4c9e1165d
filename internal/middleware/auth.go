package middleware

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rinkl-labs/rinkl-ai/internal/service"
)

type ctxKey string

const authKey ctxKey = "authenticated"

// Auth returns middleware that resolves the chat's invite-gate state and
// stores it in the context. Handlers read it via Authenticated; chats that
// never redeemed a code see every text message treated as a code attempt.
func Auth(gate *service.InviteGate) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			chatID := chatIDOf(update)
			if chatID != 0 {
				ctx = context.WithValue(ctx, authKey, gate.Authenticated(ctx, chatID))
			}
			next(ctx, b, update)
		}
	}
}

// Authenticated reports whether the chat behind the update has passed the
// invite gate. Defaults to false when the middleware did not run.
func Authenticated(ctx context.Context) bool {
	v, ok := ctx.Value(authKey).(bool)
	return ok && v
}

func chatIDOf(update *models.Update) int64 {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message.Message != nil:
		return update.CallbackQuery.Message.Message.Chat.ID
	}
	return 0
}
