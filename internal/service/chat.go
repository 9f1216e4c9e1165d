package service

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rinkl-labs/rinkl-ai/internal/domain"
)

// ErrorReplyText is the user-facing diagnostic appended when completion
// fails. It is persisted as a normal assistant message with IsError set.
const ErrorReplyText = "Connection error. Please try again later."

// Completer produces one reply for a conversation history.
type Completer interface {
	Complete(ctx context.Context, history []domain.Message) (string, error)
}

// ChatService composes the session store and the completion client.
// A single application-wide in-flight flag serializes sends: while one
// completion is outstanding, further sends are rejected. Session
// switching is independent of an in-flight send, so a late reply lands
// in the session the send started on.
type ChatService struct {
	store     *SessionStore
	completer Completer

	inFlight atomic.Bool
}

func NewChatService(store *SessionStore, completer Completer) *ChatService {
	return &ChatService{store: store, completer: completer}
}

// InFlight reports whether a send is currently outstanding.
func (s *ChatService) InFlight() bool {
	return s.inFlight.Load()
}

// Send appends the user's message, runs completion over the full history
// and appends the reply. The user message is persisted before any network
// I/O; the assistant message (success or error marker) only after the
// call settles. Returns the appended assistant message.
func (s *ChatService) Send(ctx context.Context, owner int64, sessionID, text string, media []domain.MediaItem) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" && len(media) == 0 {
		return nil, domain.ErrEmptyMessage
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrRequestInFlight
	}
	defer s.inFlight.Store(false)

	userMsg := NewMessage(domain.SenderUser, text)
	userMsg.Media = media
	if err := s.store.Append(ctx, owner, sessionID, userMsg); err != nil {
		return nil, err
	}

	return s.complete(ctx, owner, sessionID)
}

// EditAndRegenerate rewrites an earlier message, discards everything
// after it and re-runs completion over the truncated history. An unknown
// message id is a no-op.
func (s *ChatService) EditAndRegenerate(ctx context.Context, owner int64, sessionID, messageID, newText string) (*domain.Message, error) {
	session, err := s.store.Get(ctx, owner, sessionID)
	if err != nil {
		return nil, err
	}

	index := -1
	for i, m := range session.Messages {
		if m.ID == messageID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, domain.ErrMessageNotFound
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrRequestInFlight
	}
	defer s.inFlight.Store(false)

	if err := s.store.ReplaceTail(ctx, owner, sessionID, index, newText); err != nil {
		return nil, err
	}

	return s.complete(ctx, owner, sessionID)
}

// complete runs the completion over the session's current history and
// appends the outcome to the same session, regardless of what the user
// switched to in the meantime.
func (s *ChatService) complete(ctx context.Context, owner int64, sessionID string) (*domain.Message, error) {
	// Get hands back a detached copy, safe to read outside the store lock
	session, err := s.store.Get(ctx, owner, sessionID)
	if err != nil {
		return nil, err
	}

	reply := NewMessage(domain.SenderAssistant, "")

	text, err := s.completer.Complete(ctx, session.Messages)
	if err != nil {
		slog.Error("completion failed", "session", sessionID, "error", err)
		reply.Text = ErrorReplyText
		reply.IsError = true
	} else {
		reply.Text = text
	}

	if err := s.store.Append(ctx, owner, sessionID, reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// NewMessage builds a message with a fresh id and creation timestamp.
func NewMessage(sender domain.Sender, text string) domain.Message {
	return domain.Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		CreatedAt: time.Now(),
	}
}
