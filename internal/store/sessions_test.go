// ABOUTME: Tests for session persistence
// ABOUTME: Covers creation, lookup, duplicate tokens, and missing tokens

package store

import (
	"context"
	"testing"
	"time"
)

func TestCreateAndGetSession(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	now := time.Now().Unix()
	session := &Session{
		Token:     "token-abc",
		CreatedAt: now,
		ExpiresAt: now + 3600,
	}

	if err := store.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	got, err := store.GetSession(ctx, "token-abc")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}

	if got.Token != session.Token {
		t.Errorf("Token mismatch: got %q, want %q", got.Token, session.Token)
	}
	if got.CreatedAt != session.CreatedAt {
		t.Errorf("CreatedAt mismatch: got %d, want %d", got.CreatedAt, session.CreatedAt)
	}
	if got.ExpiresAt != session.ExpiresAt {
		t.Errorf("ExpiresAt mismatch: got %d, want %d", got.ExpiresAt, session.ExpiresAt)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	if _, err := store.GetSession(ctx, "nonexistent"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateSession_DuplicateToken(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	now := time.Now().Unix()
	session := &Session{Token: "dup-token", CreatedAt: now, ExpiresAt: now + 60}

	if err := store.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if err := store.CreateSession(ctx, session); err == nil {
		t.Error("expected error inserting duplicate token")
	}
}
