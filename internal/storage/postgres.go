package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/Rafelvdy/StratosFi/internal/models"
	_ "github.com/lib/pq"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	storage := &PostgresStorage{db: db}

	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %v", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %v", err)
	}

	return nil
}

func (s *PostgresStorage) GetChatHistory(ctx context.Context, walletAddress string) (*models.ChatHistory, error) {
	query := `
		SELECT id, role, message_type, content, color_value, color, created_at
		FROM chat_messages
		WHERE wallet_address = $1
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("error querying chat history: %v", err)
	}
	defer rows.Close()

	history := &models.ChatHistory{
		WalletAddress: walletAddress,
		Messages:      []models.ChatMessage{},
	}

	for rows.Next() {
		var msg models.ChatMessage
		var msgType, colorValue, color sql.NullString
		if err := rows.Scan(&msg.ID, &msg.Role, &msgType, &msg.Content, &colorValue, &color, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning chat message: %v", err)
		}
		msg.Type = msgType.String
		if colorValue.Valid && color.Valid {
			msg.ColorValue = &models.ColorValue{Value: colorValue.String, Color: color.String}
		}
		history.Messages = append(history.Messages, msg)
		if msg.CreatedAt.After(history.LastUpdated) {
			history.LastUpdated = msg.CreatedAt
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading chat history: %v", err)
	}

	return history, nil
}

func (s *PostgresStorage) AppendChatMessages(ctx context.Context, walletAddress string, messages []models.ChatMessage) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %v", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO chat_messages (id, wallet_address, role, message_type, content, color_value, color, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, msg := range messages {
		createdAt := msg.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		var colorValue, color sql.NullString
		if msg.ColorValue != nil {
			colorValue = sql.NullString{String: msg.ColorValue.Value, Valid: true}
			color = sql.NullString{String: msg.ColorValue.Color, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, query,
			msg.ID, walletAddress, msg.Role, msg.Type, msg.Content, colorValue, color, createdAt,
		); err != nil {
			return fmt.Errorf("error saving chat message: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing chat messages: %v", err)
	}

	return nil
}

func (s *PostgresStorage) ClearChatHistory(ctx context.Context, walletAddress string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE wallet_address = $1`, walletAddress); err != nil {
		return fmt.Errorf("error clearing chat history: %v", err)
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
