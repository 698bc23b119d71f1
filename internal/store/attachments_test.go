// ABOUTME: Tests for attachment metadata persistence
// ABOUTME: Covers creation, lookup, and chronological listing

package store

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestCreateAndGetAttachment(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	newTestChat(t, store, "chat-1")

	att := &Attachment{
		ID:       "att-1",
		ChatID:   "chat-1",
		Name:     "report.pdf",
		MimeType: "application/pdf",
		Key:      "chats/chat-1/att-1/report.pdf",
		Size:     2048,
	}
	if err := store.CreateAttachment(ctx, att); err != nil {
		t.Fatalf("CreateAttachment failed: %v", err)
	}

	got, err := store.GetAttachment(ctx, "att-1")
	if err != nil {
		t.Fatalf("GetAttachment failed: %v", err)
	}

	if got.Name != att.Name {
		t.Errorf("Name mismatch: got %q, want %q", got.Name, att.Name)
	}
	if got.MimeType != att.MimeType {
		t.Errorf("MimeType mismatch: got %q, want %q", got.MimeType, att.MimeType)
	}
	if got.Key != att.Key {
		t.Errorf("Key mismatch: got %q, want %q", got.Key, att.Key)
	}
	if got.Size != att.Size {
		t.Errorf("Size mismatch: got %d, want %d", got.Size, att.Size)
	}
}

func TestGetAttachment_NotFound(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	if _, err := store.GetAttachment(ctx, "nonexistent"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListAttachments_ChronologicalOrder(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	newTestChat(t, store, "chat-1")

	base := time.Now().Unix()
	for _, offset := range []int64{1, 0, 2} {
		att := &Attachment{
			ID:        fmt.Sprintf("att-%d", offset),
			ChatID:    "chat-1",
			Name:      fmt.Sprintf("file-%d.txt", offset),
			MimeType:  "text/plain",
			Key:       fmt.Sprintf("chats/chat-1/att-%d/file.txt", offset),
			CreatedAt: base + offset,
		}
		if err := store.CreateAttachment(ctx, att); err != nil {
			t.Fatalf("CreateAttachment failed: %v", err)
		}
	}

	attachments, err := store.ListAttachments(ctx, "chat-1")
	if err != nil {
		t.Fatalf("ListAttachments failed: %v", err)
	}
	if len(attachments) != 3 {
		t.Fatalf("expected 3 attachments, got %d", len(attachments))
	}
	for i, want := range []string{"att-0", "att-1", "att-2"} {
		if attachments[i].ID != want {
			t.Errorf("position %d: got %q, want %q", i, attachments[i].ID, want)
		}
	}
}
