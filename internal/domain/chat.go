package domain

import "time"

// Role tags a chat message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of a conversation
type ChatMessage struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at,omitempty"`
}

// RateLimit is the persisted tally for the chat endpoint
type RateLimit struct {
	CallsUsed      int        `json:"callsUsed"`
	CallsRemaining int        `json:"callsRemaining"`
	Limit          int        `json:"limit"`
	ResetAt        *time.Time `json:"resetAt,omitempty"`
	UpdatedAt      time.Time  `json:"updatedAt,omitempty"`
}

// Known reports whether a limit has ever been observed
func (r RateLimit) Known() bool {
	return r.Limit > 0
}

// Exhausted reports whether no calls remain before the reset
func (r RateLimit) Exhausted() bool {
	return r.Known() && r.CallsRemaining <= 0
}
