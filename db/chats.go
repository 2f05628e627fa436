package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zombar/categorizer/metrics"
	"github.com/zombar/categorizer/models"
)

// CreateChat starts a new empty conversation owned by userID
func (db *DB) CreateChat(userID, websiteURL string) (*models.Chat, error) {
	defer observe("create_chat", time.Now())

	chat := &models.Chat{
		ID:         uuid.New().String(),
		UserID:     userID,
		WebsiteURL: websiteURL,
		Messages:   []models.Message{},
	}

	err := db.conn.QueryRow(`
		INSERT INTO chats (id, user_id, website_url, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING created_at, updated_at
	`, chat.ID, chat.UserID, chat.WebsiteURL).Scan(&chat.CreatedAt, &chat.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}

	return chat, nil
}

// GetChat retrieves a chat with its messages. Ownership is part of the
// lookup: a chat belonging to another user is ErrNotFound, not forbidden.
func (db *DB) GetChat(chatID, userID string) (*models.Chat, error) {
	defer observe("get_chat", time.Now())

	chat := &models.Chat{}
	err := db.conn.QueryRow(`
		SELECT id, user_id, website_url, created_at, updated_at
		FROM chats
		WHERE id = $1 AND user_id = $2
	`, chatID, userID).Scan(&chat.ID, &chat.UserID, &chat.WebsiteURL, &chat.CreatedAt, &chat.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}

	if err := db.loadMessages(chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// ListChats returns all chats owned by userID, most recently updated first
func (db *DB) ListChats(userID string) ([]*models.Chat, error) {
	defer observe("list_chats", time.Now())

	rows, err := db.conn.Query(`
		SELECT id, user_id, website_url, created_at, updated_at
		FROM chats
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer rows.Close()

	chats := []*models.Chat{}
	for rows.Next() {
		chat := &models.Chat{}
		if err := rows.Scan(&chat.ID, &chat.UserID, &chat.WebsiteURL, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, chat := range chats {
		if err := db.loadMessages(chat); err != nil {
			return nil, err
		}
	}
	return chats, nil
}

// AppendMessage adds a message to a chat the caller owns. Messages are
// append-only; insertion order is preserved by a sequence column.
func (db *DB) AppendMessage(chatID, userID string, role models.MessageRole, content string) (*models.Message, error) {
	defer observe("append_message", time.Now())

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Touching updated_at doubles as the ownership check
	result, err := tx.Exec(`
		UPDATE chats SET updated_at = NOW() WHERE id = $1 AND user_id = $2
	`, chatID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to touch chat: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, ErrNotFound
	}

	message := &models.Message{Role: role, Content: content}
	err = tx.QueryRow(`
		INSERT INTO chat_messages (chat_id, role, content, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at
	`, chatID, role, content).Scan(&message.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit message: %w", err)
	}

	metrics.ChatMessagesTotal.WithLabelValues(string(role)).Inc()
	return message, nil
}

// RenameChat updates the chat's website URL label
func (db *DB) RenameChat(chatID, userID, newTitle string) (*models.Chat, error) {
	defer observe("rename_chat", time.Now())

	result, err := db.conn.Exec(`
		UPDATE chats SET website_url = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`, chatID, userID, newTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to rename chat: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, ErrNotFound
	}
	return db.GetChat(chatID, userID)
}

// DeleteChat removes a chat and its messages
func (db *DB) DeleteChat(chatID, userID string) error {
	defer observe("delete_chat", time.Now())

	result, err := db.conn.Exec(`
		DELETE FROM chats WHERE id = $1 AND user_id = $2
	`, chatID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearChats removes every chat owned by userID
func (db *DB) ClearChats(userID string) error {
	defer observe("clear_chats", time.Now())

	_, err := db.conn.Exec(`DELETE FROM chats WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear chats: %w", err)
	}
	return nil
}

func (db *DB) loadMessages(chat *models.Chat) error {
	rows, err := db.conn.Query(`
		SELECT role, content, created_at
		FROM chat_messages
		WHERE chat_id = $1
		ORDER BY seq ASC
	`, chat.ID)
	if err != nil {
		return fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	chat.Messages = []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.Role, &m.Content, &m.Timestamp); err != nil {
			return fmt.Errorf("failed to scan message: %w", err)
		}
		chat.Messages = append(chat.Messages, m)
	}
	return rows.Err()
}
