package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rinkl-labs/rinkl-ai/internal/config"
	"github.com/rinkl-labs/rinkl-ai/internal/domain"
	"github.com/rinkl-labs/rinkl-ai/internal/middleware"
	tg "github.com/rinkl-labs/rinkl-ai/internal/telegram"
)

func (h *Handler) handleSessions(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}
	if !middleware.Authenticated(ctx) {
		return
	}

	chatID := update.Message.Chat.ID
	h.sendSessionsPage(ctx, b, chatID, 0, false, 0)
}

func (h *Handler) sendSessionsPage(ctx context.Context, b *bot.Bot, chatID int64, page int, edit bool, messageID int) {
	sessions, err := h.store.List(ctx, chatID)
	if err != nil {
		slog.Error("list sessions", "error", err)
		return
	}
	active, err := h.store.Active(ctx, chatID)
	if err != nil {
		slog.Error("active session", "error", err)
		return
	}

	totalPages := int(math.Ceil(float64(len(sessions)) / float64(config.SessionsPerPage)))
	if totalPages == 0 {
		totalPages = 1
	}
	if page >= totalPages {
		page = totalPages - 1
	}

	from := page * config.SessionsPerPage
	to := from + config.SessionsPerPage
	if to > len(sessions) {
		to = len(sessions)
	}

	var rows [][]models.InlineKeyboardButton
	for _, s := range sessions[from:to] {
		label := s.Title()
		if s.ID == active.ID {
			label += " ✅"
		}
		rows = append(rows, tg.ButtonRow(
			tg.InlineButton(label, "switch_session_"+s.ID),
		))
	}

	rows = append(rows, tg.ButtonRow(
		tg.InlineButton(h.tr(ctx, chatID, keySessionNew), "new_session"),
		tg.InlineButton(h.tr(ctx, chatID, keySessionDel), "delete_current"),
	))

	if totalPages > 1 {
		rows = append(rows, tg.PaginationRow(page, totalPages, "sessions_page"))
	}

	text := fmt.Sprintf(h.tr(ctx, chatID, keySessions), len(sessions))
	keyboard := tg.InlineKeyboard(rows...)

	if edit && messageID != 0 {
		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        text,
			ParseMode:   models.ParseModeMarkdownV1,
			ReplyMarkup: keyboard,
		})
	} else {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        text,
			ParseMode:   models.ParseModeMarkdownV1,
			ReplyMarkup: keyboard,
		})
	}
}

func (h *Handler) handleNewSession(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := answerCallback(ctx, b, update)
	if !ok {
		return
	}

	if _, err := h.store.Create(ctx, chatID); err != nil {
		slog.Error("create session", "error", err)
		return
	}

	h.sendSessionsPage(ctx, b, chatID, 0, true, messageID)
}

func (h *Handler) handleDeleteCurrentSession(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := answerCallback(ctx, b, update)
	if !ok {
		return
	}

	active, err := h.store.Active(ctx, chatID)
	if err != nil {
		slog.Error("active session", "error", err)
		return
	}

	if err := h.store.Delete(ctx, chatID, active.ID); err != nil {
		if errors.Is(err, domain.ErrLastSession) {
			b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
				CallbackQueryID: update.CallbackQuery.ID,
				Text:            h.tr(ctx, chatID, keyLastSession),
				ShowAlert:       true,
			})
			return
		}
		slog.Error("delete session", "error", err)
		return
	}

	h.sendSessionsPage(ctx, b, chatID, 0, true, messageID)
}

func (h *Handler) handleSwitchSession(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := answerCallback(ctx, b, update)
	if !ok {
		return
	}

	id := strings.TrimPrefix(update.CallbackQuery.Data, "switch_session_")
	if err := h.store.Switch(ctx, chatID, id); err != nil {
		slog.Error("switch session", "id", id, "error", err)
		return
	}

	h.sendSessionsPage(ctx, b, chatID, 0, true, messageID)
}

func (h *Handler) handleSessionsPage(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, messageID, ok := answerCallback(ctx, b, update)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(strings.TrimPrefix(update.CallbackQuery.Data, "sessions_page_"))
	h.sendSessionsPage(ctx, b, chatID, page, true, messageID)
}

// answerCallback acknowledges a callback query and extracts the chat and
// message it was attached to.
func answerCallback(ctx context.Context, b *bot.Bot, update *models.Update) (chatID int64, messageID int, ok bool) {
	if update.CallbackQuery == nil {
		return 0, 0, false
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: update.CallbackQuery.ID})

	msg := update.CallbackQuery.Message.Message
	if msg == nil {
		return 0, 0, false
	}
	return msg.Chat.ID, msg.ID, true
}
