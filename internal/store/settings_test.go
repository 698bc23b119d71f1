// ABOUTME: Tests for the settings key-value store
// ABOUTME: Covers upsert semantics, last-write-wins, and missing keys

package store

import (
	"context"
	"testing"
)

func TestSetAndGetSetting(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	if err := store.SetSetting(ctx, "gemini_api_key", "secret-1"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}

	value, err := store.GetSetting(ctx, "gemini_api_key")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if value != "secret-1" {
		t.Errorf("value mismatch: got %q, want %q", value, "secret-1")
	}
}

func TestSetSetting_Upsert(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	if err := store.SetSetting(ctx, "gemini_api_key", "first"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := store.SetSetting(ctx, "gemini_api_key", "second"); err != nil {
		t.Fatalf("SetSetting upsert failed: %v", err)
	}

	value, err := store.GetSetting(ctx, "gemini_api_key")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if value != "second" {
		t.Errorf("expected last write to win: got %q", value)
	}
}

func TestGetSetting_NotFound(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	if _, err := store.GetSetting(ctx, "missing"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
