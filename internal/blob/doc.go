// Package blob provides object storage for attachment content.
//
// S3Store talks to any S3-compatible endpoint via aws-sdk-go-v2;
// Cloudflare R2 works with region "auto" and path-style addressing.
// MemoryStore is an in-memory implementation for tests with
// delete-failure injection, since chat deletion treats blob deletes
// as best-effort.
package blob
