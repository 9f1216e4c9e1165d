package domain

import (
	"time"
)

// DefaultTitle is shown for sessions that have no messages yet.
const DefaultTitle = "New Conversation"

const titleMaxRunes = 30

// Session is one independent conversation with its own ordered message list.
type Session struct {
	ID        string    `json:"id"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
}

// Title derives the list label from the last message's text prefix.
func (s *Session) Title() string {
	if len(s.Messages) == 0 {
		return DefaultTitle
	}
	text := s.Messages[len(s.Messages)-1].Text
	if text == "" {
		return DefaultTitle
	}
	runes := []rune(text)
	if len(runes) > titleMaxRunes {
		return string(runes[:titleMaxRunes]) + "..."
	}
	return text
}
