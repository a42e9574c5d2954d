package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Rafelvdy/StratosFi/internal/models"
	"github.com/Rafelvdy/StratosFi/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SentimentService answers a free-text question about a cryptocurrency.
type SentimentService interface {
	Analyze(ctx context.Context, message string) models.AnalysisResult
}

// ChatHandler serves the chat API: sentiment questions plus per-wallet
// transcript history.
type ChatHandler struct {
	service       SentimentService
	storage       storage.Storage
	llmConfigured bool
	logger        *zap.Logger
}

func NewChatHandler(service SentimentService, store storage.Storage, llmConfigured bool, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		service:       service,
		storage:       store,
		llmConfigured: llmConfigured,
		logger:        logger,
	}
}

type ChatRequest struct {
	Prompt        string `json:"prompt"`
	WalletAddress string `json:"wallet_address"`
}

func (h *ChatHandler) PostChat(c *gin.Context) {
	if !h.llmConfigured {
		h.logger.Error("deepseek api key is not configured")
		c.JSON(http.StatusInternalServerError, failureResponse("API configuration error. Please check server environment setup."))
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Prompt == "" {
		c.JSON(http.StatusBadRequest, failureResponse("No prompt provided"))
		return
	}

	result := h.service.Analyze(c.Request.Context(), req.Prompt)

	if req.WalletAddress != "" {
		h.persistExchange(c.Request.Context(), req.WalletAddress, req.Prompt, result)
	}

	c.JSON(http.StatusOK, result)
}

// persistExchange appends the question and its answers to the wallet's
// transcript. Persistence is best effort: a storage failure is logged but
// never fails the chat response.
func (h *ChatHandler) persistExchange(ctx context.Context, walletAddress, prompt string, result models.AnalysisResult) {
	now := time.Now()
	messages := []models.ChatMessage{{
		ID:        uuid.New().String(),
		Role:      models.RoleUser,
		Content:   prompt,
		CreatedAt: now,
	}}
	for _, msg := range result.Messages {
		messages = append(messages, models.ChatMessage{
			ID:         uuid.New().String(),
			Role:       models.RoleAssistant,
			Type:       msg.Type,
			Content:    msg.Content,
			ColorValue: msg.ColorValue,
			CreatedAt:  now,
		})
	}

	if err := h.storage.AppendChatMessages(ctx, walletAddress, messages); err != nil {
		h.logger.Error("failed to save chat history",
			zap.Error(err),
			zap.String("wallet_address", walletAddress))
	}
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	walletAddress := c.Param("wallet")

	history, err := h.storage.GetChatHistory(c.Request.Context(), walletAddress)
	if err != nil {
		h.logger.Error("failed to load chat history",
			zap.Error(err),
			zap.String("wallet_address", walletAddress))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load chat history"})
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *ChatHandler) ClearHistory(c *gin.Context) {
	walletAddress := c.Param("wallet")

	if err := h.storage.ClearChatHistory(c.Request.Context(), walletAddress); err != nil {
		h.logger.Error("failed to clear chat history",
			zap.Error(err),
			zap.String("wallet_address", walletAddress))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear chat history"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func failureResponse(content string) models.AnalysisResult {
	return models.AnalysisResult{
		Success: false,
		Messages: []models.AnalysisMessage{
			{Type: models.MessageTypeMood, Content: content},
		},
	}
}
