// ABOUTME: Attachment metadata persistence; blob content lives in object storage
// ABOUTME: Rows carry the object-storage key so chat deletion can find the blobs

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateAttachment inserts an attachment metadata row.
func (s *SQLiteStore) CreateAttachment(ctx context.Context, att *Attachment) error {
	if att.CreatedAt == 0 {
		att.CreatedAt = time.Now().Unix()
	}

	query := `
		INSERT INTO attachments (id, chat_id, name, mime_type, r2_key, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		att.ID,
		att.ChatID,
		att.Name,
		att.MimeType,
		att.Key,
		att.Size,
		att.CreatedAt,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("attachment %q already exists", att.ID)
		}
		return fmt.Errorf("inserting attachment: %w", err)
	}

	s.logger.Debug("attachment created", "chat_id", att.ChatID, "attachment_id", att.ID, "key", att.Key)
	return nil
}

// GetAttachment retrieves attachment metadata by ID.
// Returns ErrNotFound if the attachment doesn't exist.
func (s *SQLiteStore) GetAttachment(ctx context.Context, id string) (*Attachment, error) {
	query := `
		SELECT id, chat_id, name, mime_type, r2_key, size, created_at
		FROM attachments
		WHERE id = ?
	`

	var att Attachment
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&att.ID,
		&att.ChatID,
		&att.Name,
		&att.MimeType,
		&att.Key,
		&att.Size,
		&att.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying attachment: %w", err)
	}

	return &att, nil
}

// ListAttachments retrieves attachment metadata for a chat in
// chronological order (oldest first).
func (s *SQLiteStore) ListAttachments(ctx context.Context, chatID string) ([]*Attachment, error) {
	query := `
		SELECT id, chat_id, name, mime_type, r2_key, size, created_at
		FROM attachments
		WHERE chat_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, fmt.Errorf("querying attachments: %w", err)
	}
	defer rows.Close()

	var attachments []*Attachment
	for rows.Next() {
		var att Attachment
		if err := rows.Scan(
			&att.ID,
			&att.ChatID,
			&att.Name,
			&att.MimeType,
			&att.Key,
			&att.Size,
			&att.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning attachment: %w", err)
		}
		attachments = append(attachments, &att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attachments: %w", err)
	}

	return attachments, nil
}
