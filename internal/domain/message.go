package domain

import (
	"strings"
	"time"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// MediaItem is an inline attachment carried with a message.
// Data holds the base64 payload, possibly with a data-URI prefix;
// URL is display-only and is never transmitted.
type MediaItem struct {
	Name string `json:"name"`
	MIME string `json:"type"`
	Size int64  `json:"size"`
	Data string `json:"data"`
	URL  string `json:"url,omitempty"`
}

// Payload returns the base64 payload with any data-URI prefix stripped.
func (m MediaItem) Payload() string {
	if strings.HasPrefix(m.Data, "data:") {
		if i := strings.Index(m.Data, ","); i >= 0 {
			return m.Data[i+1:]
		}
	}
	return m.Data
}

type Message struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	Sender    Sender      `json:"sender"`
	IsError   bool        `json:"isError,omitempty"`
	Media     []MediaItem `json:"media,omitempty"`
	CreatedAt time.Time   `json:"timestamp"`

	// TelegramID links the message to the Telegram message it was sent as,
	// so edit-by-reply can locate it. Zero for messages without one.
	TelegramID int `json:"tgId,omitempty"`
}
