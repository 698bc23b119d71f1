// ABOUTME: Tests for master-password login
// ABOUTME: Covers success, mismatch, trimming, bcrypt secrets, and unconfigured state

package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hearthside/emberchat/internal/store"
)

// fakeSessions records created sessions and can simulate failures.
type fakeSessions struct {
	sessions  map[string]*store.Session
	createErr error
	getErr    error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]*store.Session)}
}

func (f *fakeSessions) CreateSession(_ context.Context, session *store.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.sessions[session.Token] = session
	return nil
}

func (f *fakeSessions) GetSession(_ context.Context, token string) (*store.Session, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	session, ok := f.sessions[token]
	if !ok {
		return nil, store.ErrNotFound
	}
	return session, nil
}

func TestLogin_Success(t *testing.T) {
	sessions := newFakeSessions()
	svc := NewService(sessions, "correct horse", time.Hour, nil)

	token, err := svc.Login(context.Background(), "correct horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	session, ok := sessions.sessions[token]
	if !ok {
		t.Fatal("session row was not created")
	}
	if session.ExpiresAt != session.CreatedAt+3600 {
		t.Errorf("expected TTL of 1h, got created=%d expires=%d", session.CreatedAt, session.ExpiresAt)
	}
}

func TestLogin_TrimsWhitespace(t *testing.T) {
	sessions := newFakeSessions()
	svc := NewService(sessions, "  secret  ", time.Hour, nil)

	if _, err := svc.Login(context.Background(), "\tsecret \n"); err != nil {
		t.Errorf("expected trimmed comparison to succeed, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	sessions := newFakeSessions()
	svc := NewService(sessions, "secret", time.Hour, nil)

	_, err := svc.Login(context.Background(), "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(sessions.sessions) != 0 {
		t.Error("no session row should be created on failed login")
	}
}

func TestLogin_NotConfigured(t *testing.T) {
	sessions := newFakeSessions()
	svc := NewService(sessions, "", time.Hour, nil)

	_, err := svc.Login(context.Background(), "anything")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
	if len(sessions.sessions) != 0 {
		t.Error("no session row should be created when unconfigured")
	}
}

func TestLogin_BcryptSecret(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("swordfish"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("generating hash: %v", err)
	}

	sessions := newFakeSessions()
	svc := NewService(sessions, string(hash), time.Hour, nil)

	if _, err := svc.Login(context.Background(), "swordfish"); err != nil {
		t.Errorf("expected bcrypt login to succeed, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "tuna"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong bcrypt password, got %v", err)
	}
}

func TestLogin_StorageError(t *testing.T) {
	sessions := newFakeSessions()
	sessions.createErr = fmt.Errorf("disk full")
	svc := NewService(sessions, "secret", time.Hour, nil)

	if _, err := svc.Login(context.Background(), "secret"); err == nil {
		t.Error("expected error when session creation fails")
	}
}

func TestLogin_TokensAreUnique(t *testing.T) {
	sessions := newFakeSessions()
	svc := NewService(sessions, "secret", time.Hour, nil)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		token, err := svc.Login(context.Background(), "secret")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token generated: %s", token)
		}
		seen[token] = true
	}
}
