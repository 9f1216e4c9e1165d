package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rinkl-labs/rinkl-ai/internal/domain"
	"github.com/rinkl-labs/rinkl-ai/internal/middleware"
	"github.com/rinkl-labs/rinkl-ai/internal/service"
	tg "github.com/rinkl-labs/rinkl-ai/internal/telegram"
)

// HandleTextPrivate processes private text and photo messages: invitation
// codes before the gate, chat requests after it.
func (h *Handler) HandleTextPrivate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	msg := update.Message

	// Skip commands
	if strings.HasPrefix(msg.Text, "/") {
		return
	}

	chatID := msg.Chat.ID

	// 1. Unauthenticated chats only get to try codes
	if !middleware.Authenticated(ctx) {
		h.handleCodeAttempt(ctx, b, chatID, msg.Text)
		return
	}

	// 2. A reply to an earlier delivered message edits it and regenerates
	if msg.ReplyToMessage != nil && msg.Text != "" {
		if h.handleEditReply(ctx, b, chatID, msg) {
			return
		}
	}

	// 3. Attachments become inline media
	var media []domain.MediaItem
	if len(msg.Photo) > 0 {
		// Highest resolution variant comes last
		photo := msg.Photo[len(msg.Photo)-1]
		item, err := tg.DownloadMedia(ctx, b, photo.FileID, "image/jpeg")
		if err != nil {
			slog.Error("download photo", "error", err)
		} else {
			media = append(media, item)
		}
	}
	if msg.Document != nil {
		item, err := tg.DownloadMedia(ctx, b, msg.Document.FileID, msg.Document.MimeType)
		if err != nil {
			slog.Error("download document", "error", err)
		} else {
			media = append(media, item)
		}
	}

	userText := msg.Text
	if msg.Caption != "" {
		userText = msg.Caption
	}

	session, err := h.store.Active(ctx, chatID)
	if err != nil {
		slog.Error("load active session", "chat_id", chatID, "error", err)
		return
	}

	// 4. Typing indicator repeats until the reply settles
	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	reply, err := h.chat.Send(ctx, chatID, session.ID, userText, media)
	if err != nil {
		h.reportSendError(ctx, b, chatID, err)
		return
	}

	// 5. Remember which Telegram message carried the user's text so a
	// reply to it can edit-and-regenerate later
	h.rememberUserMessage(ctx, chatID, session.ID, reply.ID, msg.ID)

	h.deliverReply(ctx, b, chatID, session.ID, reply)
}

// handleEditReply resolves the replied-to Telegram message against the
// active session. Replying to one of your own earlier messages rewrites it,
// discards the rest of the conversation and regenerates. Returns false when
// the reply target is not a tracked user message, so the caller treats the
// text as a normal send.
func (h *Handler) handleEditReply(ctx context.Context, b *bot.Bot, chatID int64, msg *models.Message) bool {
	session, err := h.store.Active(ctx, chatID)
	if err != nil {
		return false
	}

	target, _, err := h.store.FindByTelegramID(ctx, chatID, session.ID, msg.ReplyToMessage.ID)
	if err != nil || target.ID == "" || target.Sender != domain.SenderUser {
		return false
	}

	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	reply, err := h.chat.EditAndRegenerate(ctx, chatID, session.ID, target.ID, msg.Text)
	if err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			return false
		}
		h.reportSendError(ctx, b, chatID, err)
		return true
	}

	h.rememberUserMessage(ctx, chatID, session.ID, reply.ID, msg.ID)
	h.deliverReply(ctx, b, chatID, session.ID, reply)
	return true
}

// deliverReply sends the assistant message and records the Telegram id it
// went out as.
func (h *Handler) deliverReply(ctx context.Context, b *bot.Bot, chatID int64, sessionID string, reply *domain.Message) {
	tgID, err := tg.SendLongMessage(ctx, b, chatID, reply.Text)
	if err != nil {
		slog.Error("deliver reply", "chat_id", chatID, "error", err)
		return
	}
	if tgID != 0 {
		if err := h.store.SetTelegramID(ctx, chatID, sessionID, reply.ID, tgID); err != nil {
			slog.Warn("record reply telegram id", "error", err)
		}
	}
}

// rememberUserMessage links the just-appended user message to the Telegram
// message it arrived in. The user message sits directly before the reply.
func (h *Handler) rememberUserMessage(ctx context.Context, chatID int64, sessionID, replyID string, tgID int) {
	session, err := h.store.Get(ctx, chatID, sessionID)
	if err != nil {
		return
	}
	for i, m := range session.Messages {
		if m.ID == replyID && i > 0 && session.Messages[i-1].Sender == domain.SenderUser {
			if err := h.store.SetTelegramID(ctx, chatID, sessionID, session.Messages[i-1].ID, tgID); err != nil {
				slog.Warn("record user telegram id", "error", err)
			}
			return
		}
	}
}

func (h *Handler) reportSendError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	switch {
	case errors.Is(err, domain.ErrRequestInFlight):
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   h.tr(ctx, chatID, keyBusy),
		})
	case errors.Is(err, domain.ErrEmptyMessage):
		// Nothing to send, nothing to answer
	default:
		slog.Error("chat send", "chat_id", chatID, "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   service.ErrorReplyText,
		})
	}
}
