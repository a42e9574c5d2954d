package models

import "time"

// ChatMessage is a single entry in a wallet's chat transcript.
type ChatMessage struct {
	ID         string      `json:"id"`
	Role       string      `json:"role"`
	Type       string      `json:"type,omitempty"`
	Content    string      `json:"content"`
	ColorValue *ColorValue `json:"color_value,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Roles used in ChatMessage.Role.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatHistory is the stored transcript for one wallet address.
type ChatHistory struct {
	WalletAddress string        `json:"wallet_address"`
	Messages      []ChatMessage `json:"messages"`
	LastUpdated   time.Time     `json:"last_updated"`
}
