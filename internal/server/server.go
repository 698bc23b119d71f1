// ABOUTME: HTTP server wiring for the emberchat JSON API
// ABOUTME: Routes, auth middleware placement, and shared response helpers

package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hearthside/emberchat/internal/auth"
	"github.com/hearthside/emberchat/internal/blob"
	"github.com/hearthside/emberchat/internal/conversation"
	"github.com/hearthside/emberchat/internal/store"
)

// messagesPageLimit caps how many rows a message-list request returns.
const messagesPageLimit = 200

// SettingGeminiAPIKey is the settings key holding the model API key.
const SettingGeminiAPIKey = "gemini_api_key"

// Generator defines what the server needs from the model gateway
type Generator interface {
	Generate(ctx context.Context, apiKey, model string, turns []conversation.Turn) (string, error)
}

// Config holds the server's behavioral knobs.
type Config struct {
	Model        string
	HistoryLimit int
}

// Server exposes the chat-history backend over HTTP.
type Server struct {
	store     store.Store
	blobs     blob.Store
	generator Generator
	login     *auth.Service
	guard     *auth.Guard
	cfg       Config
	logger    *slog.Logger
}

// New creates a Server with its dependencies.
func New(st store.Store, blobs blob.Store, generator Generator, login *auth.Service, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:     st,
		blobs:     blobs,
		generator: generator,
		login:     login,
		guard:     auth.NewGuard(st, logger),
		cfg:       cfg,
		logger:    logger.With("component", "server"),
	}
}

// Handler returns the routed HTTP handler. Login and health are open;
// everything else sits behind the bearer-token guard.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /chats", s.guard.Middleware(s.handleListChats))
	mux.HandleFunc("POST /chats", s.guard.Middleware(s.handleCreateChat))
	mux.HandleFunc("POST /chats/{id}/delete", s.guard.Middleware(s.handleDeleteChat))
	mux.HandleFunc("GET /chats/{id}/messages", s.guard.Middleware(s.handleListMessages))
	mux.HandleFunc("POST /chats/{id}/messages", s.guard.Middleware(s.handleSendMessage))
	mux.HandleFunc("GET /chats/{id}/attachments", s.guard.Middleware(s.handleListAttachments))
	mux.HandleFunc("POST /chats/{id}/attachments", s.guard.Middleware(s.handleUploadAttachment))
	mux.HandleFunc("GET /attachments/{id}", s.guard.Middleware(s.handleDownloadAttachment))
	mux.HandleFunc("GET /settings/{key}", s.guard.Middleware(s.handleGetSetting))
	mux.HandleFunc("PUT /settings/{key}", s.guard.Middleware(s.handleSetSetting))

	return mux
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// sendJSONError writes a JSON error body with the given status.
func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeJSON writes a JSON response with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
