package storage

import (
	"context"

	"github.com/Rafelvdy/StratosFi/internal/models"
)

// Storage persists chat transcripts keyed by wallet address.
type Storage interface {
	GetChatHistory(ctx context.Context, walletAddress string) (*models.ChatHistory, error)
	AppendChatMessages(ctx context.Context, walletAddress string, messages []models.ChatMessage) error
	ClearChatHistory(ctx context.Context, walletAddress string) error
	Close() error
}
