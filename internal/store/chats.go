// ABOUTME: Chat persistence including transactional cascading deletion
// ABOUTME: DeleteChat removes attachments, messages, and the chat row atomically

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateChat inserts a new chat row. CreatedAt/UpdatedAt are assigned
// if unset.
func (s *SQLiteStore) CreateChat(ctx context.Context, chat *Chat) error {
	now := time.Now().Unix()
	if chat.CreatedAt == 0 {
		chat.CreatedAt = now
	}
	if chat.UpdatedAt == 0 {
		chat.UpdatedAt = now
	}

	query := `
		INSERT INTO chats (id, title, system_prompt, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		chat.ID,
		chat.Title,
		chat.SystemPrompt,
		chat.CreatedAt,
		chat.UpdatedAt,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("chat %q already exists", chat.ID)
		}
		return fmt.Errorf("inserting chat: %w", err)
	}

	s.logger.Debug("chat created", "chat_id", chat.ID)
	return nil
}

// GetChat retrieves a chat by ID.
// Returns ErrNotFound if the chat doesn't exist.
func (s *SQLiteStore) GetChat(ctx context.Context, id string) (*Chat, error) {
	query := `
		SELECT id, title, system_prompt, created_at, updated_at
		FROM chats
		WHERE id = ?
	`

	var chat Chat
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&chat.ID,
		&chat.Title,
		&chat.SystemPrompt,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying chat: %w", err)
	}

	return &chat, nil
}

// ListChats returns chats ordered newest first, capped at limit.
// If limit is 0 or negative, all chats are returned.
func (s *SQLiteStore) ListChats(ctx context.Context, limit int) ([]*Chat, error) {
	query := `
		SELECT id, title, system_prompt, created_at, updated_at
		FROM chats
		ORDER BY created_at DESC, id DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chats: %w", err)
	}
	defer rows.Close()

	var chats []*Chat
	for rows.Next() {
		var chat Chat
		if err := rows.Scan(
			&chat.ID,
			&chat.Title,
			&chat.SystemPrompt,
			&chat.CreatedAt,
			&chat.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning chat: %w", err)
		}
		chats = append(chats, &chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chats: %w", err)
	}

	return chats, nil
}

// DeleteChat removes a chat and all its messages and attachment rows in
// a single transaction. Blob deletion is the caller's responsibility
// and is intentionally not coupled to this transaction.
// Deleting a nonexistent chat is a no-op.
func (s *SQLiteStore) DeleteChat(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM attachments WHERE chat_id = ?`, id); err != nil {
		return fmt.Errorf("deleting attachments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE chat_id = ?`, id); err != nil {
		return fmt.Errorf("deleting messages: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM chats WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting chat: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chat deletion: %w", err)
	}

	s.logger.Info("chat deleted", "chat_id", id)
	return nil
}
