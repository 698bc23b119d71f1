// Package store provides persistent storage for emberchat using SQLite.
//
// # Data Models
//
//   - Session: opaque bearer tokens created at login
//   - Setting: key-value configuration (e.g. the model API key)
//   - Chat: conversation metadata with an optional system prompt
//   - Message: immutable chat turns ordered by creation time
//   - Attachment: file metadata pointing at object storage
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// The schema is created automatically on open. Timestamps are stored
// as unix seconds, matching the wire format of the HTTP API.
//
// # Deletion Semantics
//
// DeleteChat removes a chat's attachments, messages, and the chat row
// in one transaction. Deleting the backing blobs is the caller's
// responsibility and is deliberately not transactional with the
// relational delete: blob deletion is best-effort.
//
// # Error Handling
//
// Lookups return ErrNotFound when the entity does not exist. All
// methods accept context.Context for cancellation support.
package store
