// ABOUTME: Session persistence for bearer-token authentication
// ABOUTME: Sessions are insert-only; expiry is recorded but not enforced here

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateSession inserts a new session row.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO sessions (token, created_at, expires_at)
		VALUES (?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query, session.Token, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("session token already exists")
		}
		return fmt.Errorf("inserting session: %w", err)
	}

	s.logger.Debug("session created", "expires_at", session.ExpiresAt)
	return nil
}

// GetSession retrieves a session by its token.
// Returns ErrNotFound if no such session exists.
func (s *SQLiteStore) GetSession(ctx context.Context, token string) (*Session, error) {
	query := `
		SELECT token, created_at, expires_at
		FROM sessions
		WHERE token = ?
	`

	var session Session
	err := s.db.QueryRowContext(ctx, query, token).Scan(
		&session.Token,
		&session.CreatedAt,
		&session.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	return &session, nil
}
