// Package auth provides authentication for emberchat.
//
// # Model
//
// A single shared master password guards the whole deployment. Login
// mints an opaque UUIDv4 bearer token, persisted as a session row.
// The Guard middleware validates tokens on every protected request:
// possession of any valid token grants full access; no identity, role,
// or scope is derived.
//
// # Expiry
//
// Sessions record an expiry timestamp but the guard does not check it.
// Tokens are effectively non-expiring; the stored expiry exists so the
// deployment can be hardened later without a schema change.
//
// # Password Format
//
// The configured master password may be plaintext (compared in
// constant time after trimming) or a bcrypt hash, recognized by its
// $2a$/$2b$/$2y$ prefix.
package auth
