package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rinkl-labs/rinkl-ai/internal/domain"
	"github.com/rinkl-labs/rinkl-ai/internal/repository"
)

type fakeCompleter struct {
	reply string
	err   error

	histories [][]domain.Message
}

func (f *fakeCompleter) Complete(_ context.Context, history []domain.Message) (string, error) {
	f.histories = append(f.histories, history)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// blockingCompleter parks until released, so tests can observe the
// in-flight window.
type blockingCompleter struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingCompleter) Complete(context.Context, []domain.Message) (string, error) {
	close(b.started)
	<-b.release
	return "late reply", nil
}

func newTestChat(completer Completer) (*ChatService, *SessionStore) {
	store := NewSessionStore(repository.NewMemoryKV())
	return NewChatService(store, completer), store
}

func TestSend_AppendsUserThenReply(t *testing.T) {
	completer := &fakeCompleter{reply: "hi there"}
	chat, store := newTestChat(completer)
	ctx := context.Background()

	reply, err := chat.Send(ctx, owner, DefaultSessionID, "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply.Text)
	assert.Equal(t, domain.SenderAssistant, reply.Sender)
	assert.False(t, reply.IsError)

	session, err := store.Get(ctx, owner, DefaultSessionID)
	require.NoError(t, err)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, domain.SenderUser, session.Messages[0].Sender)
	assert.Equal(t, "hello", session.Messages[0].Text)
	assert.Equal(t, reply.ID, session.Messages[1].ID)

	// The completion saw the user message
	require.Len(t, completer.histories, 1)
	require.Len(t, completer.histories[0], 1)
	assert.Equal(t, "hello", completer.histories[0][0].Text)
}

func TestSend_EmptyMessageRejected(t *testing.T) {
	completer := &fakeCompleter{reply: "unused"}
	chat, store := newTestChat(completer)
	ctx := context.Background()

	_, err := chat.Send(ctx, owner, DefaultSessionID, "   \n\t ", nil)
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	assert.Empty(t, completer.histories)

	session, err := store.Get(ctx, owner, DefaultSessionID)
	require.NoError(t, err)
	assert.Empty(t, session.Messages)
}

func TestSend_MediaOnlyMessageAllowed(t *testing.T) {
	completer := &fakeCompleter{reply: "nice picture"}
	chat, store := newTestChat(completer)
	ctx := context.Background()

	media := []domain.MediaItem{{Name: "cat.jpg", MIME: "image/jpeg", Data: "aGk="}}
	_, err := chat.Send(ctx, owner, DefaultSessionID, "", media)
	require.NoError(t, err)

	session, err := store.Get(ctx, owner, DefaultSessionID)
	require.NoError(t, err)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, media, session.Messages[0].Media)
}

func TestSend_CompletionFailurePersistsErrorReply(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("all endpoints exhausted")}
	chat, store := newTestChat(completer)
	ctx := context.Background()

	reply, err := chat.Send(ctx, owner, DefaultSessionID, "hello", nil)
	require.NoError(t, err)
	assert.True(t, reply.IsError)
	assert.Equal(t, ErrorReplyText, reply.Text)

	// Both the user message and the error marker are persisted
	session, err := store.Get(ctx, owner, DefaultSessionID)
	require.NoError(t, err)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, "hello", session.Messages[0].Text)
	assert.True(t, session.Messages[1].IsError)
	assert.Equal(t, domain.SenderAssistant, session.Messages[1].Sender)
}

func TestSend_RejectedWhileInFlight(t *testing.T) {
	blocker := &blockingCompleter{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	chat, _ := newTestChat(blocker)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := chat.Send(ctx, owner, DefaultSessionID, "slow one", nil)
		done <- err
	}()

	select {
	case <-blocker.started:
	case <-time.After(time.Second):
		t.Fatal("completion never started")
	}
	assert.True(t, chat.InFlight())

	_, err := chat.Send(ctx, owner, DefaultSessionID, "impatient", nil)
	assert.ErrorIs(t, err, domain.ErrRequestInFlight)

	close(blocker.release)
	require.NoError(t, <-done)
	assert.False(t, chat.InFlight())
}

func TestEditAndRegenerate_TruncatesAndReruns(t *testing.T) {
	completer := &fakeCompleter{reply: "X"}
	chat, store := newTestChat(completer)
	ctx := context.Background()

	msgA := NewMessage(domain.SenderUser, "A")
	msgB := NewMessage(domain.SenderAssistant, "B")
	msgC := NewMessage(domain.SenderUser, "C")
	msgD := NewMessage(domain.SenderAssistant, "D")
	for _, m := range []domain.Message{msgA, msgB, msgC, msgD} {
		require.NoError(t, store.Append(ctx, owner, DefaultSessionID, m))
	}

	reply, err := chat.EditAndRegenerate(ctx, owner, DefaultSessionID, msgA.ID, "A2")
	require.NoError(t, err)
	assert.Equal(t, "X", reply.Text)

	session, err := store.Get(ctx, owner, DefaultSessionID)
	require.NoError(t, err)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, "A2", session.Messages[0].Text)
	assert.Equal(t, domain.SenderUser, session.Messages[0].Sender)
	assert.Equal(t, "X", session.Messages[1].Text)

	// The regeneration ran over the truncated history only
	require.Len(t, completer.histories, 1)
	require.Len(t, completer.histories[0], 1)
	assert.Equal(t, "A2", completer.histories[0][0].Text)
}

func TestEditAndRegenerate_UnknownMessageIsNoop(t *testing.T) {
	completer := &fakeCompleter{reply: "unused"}
	chat, store := newTestChat(completer)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, owner, DefaultSessionID, NewMessage(domain.SenderUser, "A")))

	_, err := chat.EditAndRegenerate(ctx, owner, DefaultSessionID, "missing-id", "A2")
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
	assert.Empty(t, completer.histories)

	session, err := store.Get(ctx, owner, DefaultSessionID)
	require.NoError(t, err)
	require.Len(t, session.Messages, 1)
	assert.Equal(t, "A", session.Messages[0].Text)
}

func TestSend_ReplyLandsInOriginSession(t *testing.T) {
	completer := &fakeCompleter{reply: "landed"}
	chat, store := newTestChat(completer)
	ctx := context.Background()

	origin, err := store.Create(ctx, owner)
	require.NoError(t, err)

	_, err = chat.Send(ctx, owner, origin.ID, "hello", nil)
	require.NoError(t, err)

	// Switching afterwards does not move the reply
	require.NoError(t, store.Switch(ctx, owner, DefaultSessionID))

	session, err := store.Get(ctx, owner, origin.ID)
	require.NoError(t, err)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, "landed", session.Messages[1].Text)

	defaultSession, err := store.Get(ctx, owner, DefaultSessionID)
	require.NoError(t, err)
	assert.Empty(t, defaultSession.Messages)
}
