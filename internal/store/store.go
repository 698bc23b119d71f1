// ABOUTME: Store interface and data types for emberchat persistence
// ABOUTME: Defines Session, Setting, Chat, Message, Attachment and the Store interface

package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// Message roles. Anything that is not RoleModel is treated as a user
// turn when the conversation is forwarded to the model.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Session represents an authenticated login session. Sessions are
// created on successful login and never mutated. ExpiresAt is recorded
// but not enforced by the auth guard.
type Session struct {
	Token     string
	CreatedAt int64
	ExpiresAt int64
}

// Setting is a key-value configuration row with upsert semantics.
type Setting struct {
	Key       string
	Value     string
	CreatedAt int64
	UpdatedAt int64
}

// Chat represents a conversation. SystemPrompt, when set, is sent to
// the model ahead of the message history.
type Chat struct {
	ID           string
	Title        string
	SystemPrompt string
	CreatedAt    int64
	UpdatedAt    int64
}

// Message is a single immutable turn within a chat, ordered by CreatedAt.
type Message struct {
	ID        int64
	ChatID    string
	Role      string
	Content   string
	CreatedAt int64
}

// Attachment is file metadata pointing at a blob in object storage.
// The blob itself lives under Key; the row is metadata only.
type Attachment struct {
	ID        string
	ChatID    string
	Name      string
	MimeType  string
	Key       string
	Size      int64
	CreatedAt int64
}

// Store defines the interface for emberchat persistence
type Store interface {
	// Sessions
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, token string) (*Session, error)

	// Settings
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	// Chats
	CreateChat(ctx context.Context, chat *Chat) error
	GetChat(ctx context.Context, id string) (*Chat, error)
	ListChats(ctx context.Context, limit int) ([]*Chat, error)
	DeleteChat(ctx context.Context, id string) error

	// Messages
	AppendMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, chatID string, limit int) ([]*Message, error)

	// Attachments
	CreateAttachment(ctx context.Context, att *Attachment) error
	GetAttachment(ctx context.Context, id string) (*Attachment, error)
	ListAttachments(ctx context.Context, chatID string) ([]*Attachment, error)

	// Close releases any resources held by the store
	Close() error
}
