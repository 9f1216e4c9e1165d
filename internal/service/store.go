package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rinkl-labs/rinkl-ai/internal/domain"
	"github.com/rinkl-labs/rinkl-ai/internal/repository"
)

// DefaultSessionID is the id of the session every fresh store starts with.
const DefaultSessionID = "default"

// storeState is the persisted shape of one owner's session store:
// the session mapping plus the currently active session id.
type storeState struct {
	Sessions map[string]*domain.Session `json:"sessions"`
	ActiveID string                     `json:"activeId"`
}

// SessionStore keeps per-owner chat sessions. The full store is written
// back through the KV port after every mutation; a corrupt or missing
// payload on load falls back to a single empty default session.
type SessionStore struct {
	kv repository.KV

	mu    sync.Mutex
	cache map[int64]*storeState
}

func NewSessionStore(kv repository.KV) *SessionStore {
	return &SessionStore{
		kv:    kv,
		cache: make(map[int64]*storeState),
	}
}

func storeKey(owner int64) string {
	return fmt.Sprintf("chats:%d", owner)
}

// load returns the owner's state, reading it from the KV port on first
// access. Callers must hold s.mu.
func (s *SessionStore) load(ctx context.Context, owner int64) (*storeState, error) {
	if st, ok := s.cache[owner]; ok {
		return st, nil
	}

	st := &storeState{Sessions: map[string]*domain.Session{}}

	data, found, err := s.kv.Get(ctx, storeKey(owner))
	if err != nil {
		return nil, fmt.Errorf("load session store: %w", err)
	}
	if found {
		if err := json.Unmarshal(data, st); err != nil {
			slog.Warn("corrupt session store, resetting", "owner", owner, "error", err)
			st = &storeState{Sessions: map[string]*domain.Session{}}
		}
	}

	if st.Sessions == nil {
		st.Sessions = map[string]*domain.Session{}
	}
	if len(st.Sessions) == 0 {
		st.Sessions[DefaultSessionID] = &domain.Session{
			ID:        DefaultSessionID,
			CreatedAt: time.Now(),
		}
		st.ActiveID = DefaultSessionID
	}
	if _, ok := st.Sessions[st.ActiveID]; !ok {
		st.ActiveID = s.anySessionID(st)
	}

	s.cache[owner] = st
	return st, nil
}

func (s *SessionStore) anySessionID(st *storeState) string {
	ids := make([]string, 0, len(st.Sessions))
	for id := range st.Sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids[0]
}

// persist writes the owner's full state back. Callers must hold s.mu.
func (s *SessionStore) persist(ctx context.Context, owner int64, st *storeState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session store: %w", err)
	}
	if err := s.kv.Set(ctx, storeKey(owner), data); err != nil {
		return fmt.Errorf("persist session store: %w", err)
	}
	return nil
}

// Create inserts a new empty session and activates it.
func (s *SessionStore) Create(ctx context.Context, owner int64) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:        "chat_" + uuid.NewString(),
		CreatedAt: time.Now(),
	}
	st.Sessions[session.ID] = session
	st.ActiveID = session.ID

	if err := s.persist(ctx, owner, st); err != nil {
		return nil, err
	}
	return cloneSession(session), nil
}

// Delete removes a session. Deleting the only session is refused; deleting
// the active session activates one of the survivors.
func (s *SessionStore) Delete(ctx context.Context, owner int64, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, owner)
	if err != nil {
		return err
	}

	if _, ok := st.Sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	if len(st.Sessions) <= 1 {
		return domain.ErrLastSession
	}

	delete(st.Sessions, id)
	if st.ActiveID == id {
		st.ActiveID = s.anySessionID(st)
	}

	return s.persist(ctx, owner, st)
}

// Switch activates an existing session.
func (s *SessionStore) Switch(ctx context.Context, owner int64, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, owner)
	if err != nil {
		return err
	}
	if _, ok := st.Sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	st.ActiveID = id
	return s.persist(ctx, owner, st)
}

// Append adds a message to the end of a session, creating the session if
// it does not exist yet.
func (s *SessionStore) Append(ctx context.Context, owner int64, id string, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, owner)
	if err != nil {
		return err
	}

	session, ok := st.Sessions[id]
	if !ok {
		session = &domain.Session{ID: id, CreatedAt: time.Now()}
		st.Sessions[id] = session
	}
	session.Messages = append(session.Messages, msg)

	return s.persist(ctx, owner, st)
}

// ReplaceTail rewrites the text of the message at index and irreversibly
// discards every message after it. Used by edit-and-regenerate.
func (s *SessionStore) ReplaceTail(ctx context.Context, owner int64, id string, index int, newText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, owner)
	if err != nil {
		return err
	}

	session, ok := st.Sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if index < 0 || index >= len(session.Messages) {
		return domain.ErrMessageNotFound
	}

	session.Messages[index].Text = newText
	session.Messages = session.Messages[:index+1]

	return s.persist(ctx, owner, st)
}

// cloneSession detaches a session from the cache: accessors hand out
// copies so callers can read the message list after the lock is released
// while appends keep mutating the cached original.
func cloneSession(s *domain.Session) *domain.Session {
	c := *s
	c.Messages = make([]domain.Message, len(s.Messages))
	copy(c.Messages, s.Messages)
	return &c
}

// Active returns a copy of the currently active session.
func (s *SessionStore) Active(ctx context.Context, owner int64) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	return cloneSession(st.Sessions[st.ActiveID]), nil
}

// Get returns a copy of a session by id.
func (s *SessionStore) Get(ctx context.Context, owner int64, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	session, ok := st.Sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

// List returns copies of the owner's sessions ordered by creation time.
func (s *SessionStore) List(ctx context.Context, owner int64) ([]*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}

	sessions := make([]*domain.Session, 0, len(st.Sessions))
	for _, session := range st.Sessions {
		sessions = append(sessions, cloneSession(session))
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// FindByTelegramID locates a message in a session by the Telegram message
// id it was delivered as. Returns the index or -1.
func (s *SessionStore) FindByTelegramID(ctx context.Context, owner int64, id string, tgID int) (domain.Message, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, owner)
	if err != nil {
		return domain.Message{}, -1, err
	}
	session, ok := st.Sessions[id]
	if !ok {
		return domain.Message{}, -1, domain.ErrSessionNotFound
	}
	for i, m := range session.Messages {
		if m.TelegramID != 0 && m.TelegramID == tgID {
			return m, i, nil
		}
	}
	return domain.Message{}, -1, nil
}

// SetTelegramID records the Telegram message id a stored message was sent
// as, so later replies can address it.
func (s *SessionStore) SetTelegramID(ctx context.Context, owner int64, id, messageID string, tgID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, owner)
	if err != nil {
		return err
	}
	session, ok := st.Sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	for i := range session.Messages {
		if session.Messages[i].ID == messageID {
			session.Messages[i].TelegramID = tgID
			return s.persist(ctx, owner, st)
		}
	}
	return domain.ErrMessageNotFound
}
