package domain

import "errors"

var (
	ErrInvalidCode         = errors.New("invalid invitation code")
	ErrCodeDenied          = errors.New("invitation code denied")
	ErrRegistryUnreachable = errors.New("invite registry unreachable")
	ErrCooldown            = errors.New("request too soon")
	ErrCompletionExhausted = errors.New("all endpoints exhausted")
	ErrRequestInFlight     = errors.New("active request exists")
	ErrSessionNotFound     = errors.New("session not found")
	ErrLastSession         = errors.New("cannot delete the only session")
	ErrMessageNotFound     = errors.New("message not found")
	ErrEmptyMessage        = errors.New("empty message")
	ErrInvalidTheme        = errors.New("unknown theme mode")
	ErrInvalidLanguage     = errors.New("unsupported language")
)
