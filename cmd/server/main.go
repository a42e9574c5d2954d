package main

import (
	"fmt"

	"github.com/Rafelvdy/StratosFi/internal/analyzer"
	"github.com/Rafelvdy/StratosFi/internal/bot"
	"github.com/Rafelvdy/StratosFi/internal/handler"
	"github.com/Rafelvdy/StratosFi/internal/sentiment"
	"github.com/Rafelvdy/StratosFi/internal/storage"
	"github.com/Rafelvdy/StratosFi/internal/twitter"
	"github.com/Rafelvdy/StratosFi/pkg/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		store, err = storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Wire the sentiment pipeline
	fetcher := twitter.NewClient(cfg.Twitter.APIKey, cfg.Twitter.BaseURL, logger)
	moodAnalyzer := analyzer.New(cfg.DeepSeek.APIKey, cfg.DeepSeek.BaseURL, cfg.DeepSeek.Model, logger)
	service := sentiment.NewService(fetcher, moodAnalyzer, logger)

	// Optional Telegram access point
	if cfg.Telegram.Token != "" {
		b, err := bot.New(cfg.Telegram.Token, service, logger)
		if err != nil {
			logger.Fatal("Failed to create bot", zap.Error(err))
		}
		go func() {
			if err := b.Start(); err != nil {
				logger.Error("Bot error", zap.Error(err))
			}
		}()
	}

	chatHandler := handler.NewChatHandler(service, store, cfg.DeepSeek.APIKey != "", logger)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if cfg.Server.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.Server.FrontendURL)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.POST("/api/chat", chatHandler.PostChat)
	r.GET("/api/chat/history/:wallet", chatHandler.GetHistory)
	r.DELETE("/api/chat/history/:wallet", chatHandler.ClearHistory)
	r.GET("/health", chatHandler.GetHealth)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
