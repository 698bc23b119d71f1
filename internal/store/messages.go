// ABOUTME: Message persistence for chat history
// ABOUTME: Messages are immutable and ordered by creation time ascending

package store

import (
	"context"
	"fmt"
	"time"
)

// AppendMessage inserts one immutable message row with a
// server-assigned timestamp. The row ID is written back to msg.ID.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *Message) error {
	if msg.CreatedAt == 0 {
		msg.CreatedAt = time.Now().Unix()
	}

	query := `
		INSERT INTO messages (chat_id, role, content, created_at)
		VALUES (?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		msg.ChatID,
		msg.Role,
		msg.Content,
		msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading message id: %w", err)
	}
	msg.ID = id

	s.logger.Debug("message appended", "chat_id", msg.ChatID, "role", msg.Role, "message_id", msg.ID)
	return nil
}

// ListMessages retrieves messages for a chat in chronological order
// (oldest first), capped at limit. The autoincrement ID breaks ties
// between messages written within the same second.
// If limit is 0 or negative, all messages are returned.
func (s *SQLiteStore) ListMessages(ctx context.Context, chatID string, limit int) ([]*Message, error) {
	query := `
		SELECT id, chat_id, role, content, created_at
		FROM messages
		WHERE chat_id = ?
		ORDER BY created_at ASC, id ASC
	`
	args := []any{chatID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(
			&msg.ID,
			&msg.ChatID,
			&msg.Role,
			&msg.Content,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	return messages, nil
}
