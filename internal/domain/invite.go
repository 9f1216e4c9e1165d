package domain

// CodeLength is the fixed length of an invitation code.
const CodeLength = 6

// InviteCode is a one-time access code gating entry to the beta.
// Codes are pre-seeded in the remote registry; Used flips to true
// exactly once on successful redemption.
type InviteCode struct {
	Code string `json:"-"`
	Used bool   `json:"used"`
}
