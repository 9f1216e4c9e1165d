package handler

import (
	"github.com/go-telegram/bot"

	"github.com/rinkl-labs/rinkl-ai/internal/service"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot      *bot.Bot
	gate     *service.InviteGate
	store    *service.SessionStore
	chat     *service.ChatService
	settings *service.SettingsService
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot      *bot.Bot
	Gate     *service.InviteGate
	Store    *service.SessionStore
	Chat     *service.ChatService
	Settings *service.SettingsService
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:      deps.Bot,
		gate:     deps.Gate,
		store:    deps.Store,
		chat:     deps.Chat,
		settings: deps.Settings,
	}
}
