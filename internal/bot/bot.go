package bot

import (
	"context"
	"fmt"

	"github.com/Rafelvdy/StratosFi/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// SentimentService answers a free-text question about a cryptocurrency.
type SentimentService interface {
	Analyze(ctx context.Context, message string) models.AnalysisResult
}

// Bot is the Telegram access point to the sentiment pipeline: any text
// message is treated as a sentiment question.
type Bot struct {
	api     *tgbotapi.BotAPI
	service SentimentService
	logger  *zap.Logger
}

func New(token string, service SentimentService, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:     api,
		service: service,
		logger:  logger,
	}, nil
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		go b.handleMessage(update.Message)
	}

	return nil
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	ctx := context.Background()

	if message.IsCommand() {
		b.handleCommand(message)
		return
	}

	result := b.service.Analyze(ctx, message.Text)

	for _, msg := range result.Messages {
		reply := tgbotapi.NewMessage(message.Chat.ID, msg.Content)
		reply.ReplyToMessageID = message.MessageID
		if _, err := b.api.Send(reply); err != nil {
			b.logger.Error("Failed to send message",
				zap.Error(err),
				zap.Int64("chat_id", message.Chat.ID))
		}
	}
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	welcome := `Welcome to StratosFi! 📈
Ask me about the community sentiment of a cryptocurrency.

Try something like "What's the sentiment on $BTC over the last week?"
Use /help for more details.`

	b.sendMessage(message.Chat.ID, welcome)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `Send me a question mentioning a cryptocurrency and an optional timeframe.

Supported coins: BTC, ETH, SOL, DOGE, XRP, ADA (names like "bitcoin" work too).
Timeframes: last hour, last day, last week, last month.

I'll reply with the community mood plus any significant events and insights.`

	b.sendMessage(message.Chat.ID, help)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
