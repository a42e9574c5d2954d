package storage

import (
	"context"
	"sync"
	"time"

	"github.com/Rafelvdy/StratosFi/internal/models"
)

// MemoryStorage keeps chat histories in process memory. Useful for local
// development and tests.
type MemoryStorage struct {
	mu        sync.RWMutex
	histories map[string][]models.ChatMessage
	updated   map[string]time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		histories: make(map[string][]models.ChatMessage),
		updated:   make(map[string]time.Time),
	}
}

func (s *MemoryStorage) GetChatHistory(ctx context.Context, walletAddress string) (*models.ChatHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := s.histories[walletAddress]
	copied := make([]models.ChatMessage, len(messages))
	copy(copied, messages)

	return &models.ChatHistory{
		WalletAddress: walletAddress,
		Messages:      copied,
		LastUpdated:   s.updated[walletAddress],
	}, nil
}

func (s *MemoryStorage) AppendChatMessages(ctx context.Context, walletAddress string, messages []models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.histories[walletAddress] = append(s.histories[walletAddress], messages...)
	s.updated[walletAddress] = time.Now()
	return nil
}

func (s *MemoryStorage) ClearChatHistory(ctx context.Context, walletAddress string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.histories, walletAddress)
	delete(s.updated, walletAddress)
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
