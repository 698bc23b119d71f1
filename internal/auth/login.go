// ABOUTME: Master-password login that mints opaque bearer tokens
// ABOUTME: Tokens are UUIDv4 session rows with a configurable TTL

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hearthside/emberchat/internal/store"
)

// Login errors
var (
	// ErrInvalidCredentials means the presented password did not match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotConfigured means no master password is configured
	ErrNotConfigured = errors.New("master password not configured")
)

// SessionCreator defines what the login service needs from storage
type SessionCreator interface {
	CreateSession(ctx context.Context, session *store.Session) error
}

// Service handles master-password login.
type Service struct {
	sessions   SessionCreator
	secret     string
	sessionTTL time.Duration
	logger     *slog.Logger
}

// NewService creates a login service. secret may be plaintext or a
// bcrypt hash; sessionTTL controls the recorded session expiry.
func NewService(sessions SessionCreator, secret string, sessionTTL time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sessions:   sessions,
		secret:     strings.TrimSpace(secret),
		sessionTTL: sessionTTL,
		logger:     logger.With("component", "auth"),
	}
}

// Login verifies the password and mints a fresh session token.
// The comparison is trimmed on both sides. Returns ErrNotConfigured
// when no secret is set and ErrInvalidCredentials on mismatch; no
// session row is created in either case.
func (s *Service) Login(ctx context.Context, password string) (string, error) {
	if s.secret == "" {
		return "", ErrNotConfigured
	}

	if !s.verify(strings.TrimSpace(password)) {
		s.logger.Warn("login rejected")
		return "", ErrInvalidCredentials
	}

	token := uuid.New().String()
	now := time.Now()
	session := &store.Session{
		Token:     token,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(s.sessionTTL).Unix(),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}

	s.logger.Info("login succeeded", "expires_at", session.ExpiresAt)
	return token, nil
}

// verify compares the presented password against the configured secret.
// A secret of bcrypt shape is verified with bcrypt; anything else is a
// constant-time byte comparison.
func (s *Service) verify(password string) bool {
	if isBcryptHash(s.secret) {
		return bcrypt.CompareHashAndPassword([]byte(s.secret), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.secret), []byte(password)) == 1
}

// isBcryptHash reports whether the secret looks like a bcrypt hash
func isBcryptHash(secret string) bool {
	return strings.HasPrefix(secret, "$2a$") ||
		strings.HasPrefix(secret, "$2b$") ||
		strings.HasPrefix(secret, "$2y$")
}
