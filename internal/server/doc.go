// Package server implements the emberchat HTTP JSON API.
//
// # Routes
//
// Open routes:
//
//	POST /auth/login   exchange the master password for a bearer token
//	GET  /healthz      liveness check
//
// Everything else requires an Authorization: Bearer token that matches
// a stored session:
//
//	GET  /chats                     list chats, newest first
//	POST /chats                     create a chat
//	POST /chats/{id}/delete         delete a chat, its messages, attachments, and blobs
//	GET  /chats/{id}/messages       list messages in chronological order
//	POST /chats/{id}/messages       send a message and get the model's reply
//	GET  /chats/{id}/attachments    list attachment metadata
//	POST /chats/{id}/attachments    upload a file (multipart, field "file")
//	GET  /attachments/{id}          download an attachment
//	GET  /settings/{key}            read a setting
//	PUT  /settings/{key}            write a setting
//
// # Message Flow
//
// Sending a message assembles the model context (system prompt, recent
// history, attachment summary, new message), persists the user's turn,
// calls the model, persists the reply, and returns it. The user's turn
// is stored before the model call so upstream failures never lose it.
//
// # Errors
//
// Errors are JSON bodies of the form {"error": "..."} with a matching
// HTTP status.
package server
