// ABOUTME: Key-value settings persistence with upsert semantics
// ABOUTME: Values are opaque strings; callers interpret them (e.g. as an API key)

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetSetting retrieves the value for a key.
// Returns ErrNotFound if the key is not present.
func (s *SQLiteStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying setting: %w", err)
	}

	return value, nil
}

// SetSetting upserts a key-value pair, last write wins.
// created_at is preserved on update; updated_at is refreshed.
func (s *SQLiteStore) SetSetting(ctx context.Context, key, value string) error {
	now := time.Now().Unix()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, now, now)
	if err != nil {
		return fmt.Errorf("upserting setting: %w", err)
	}

	s.logger.Debug("setting updated", "key", key)
	return nil
}
