package config

import "time"

const (
	// Invite gate
	CodeCooldown = 2 * time.Second
	// Offline/demo bypass, honored only when the registry is unreachable.
	BypassCode = "DEMO01"

	// Completion defaults
	DefaultModel           = "gemini-2.0-flash"
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 1000

	// Placeholder for an empty reply from an otherwise successful response.
	EmptyReplyText = "No response."

	// Session list page size
	SessionsPerPage = 5
)
