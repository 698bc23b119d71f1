// ABOUTME: HTTP handlers for auth, chats, messages, attachments, and settings
// ABOUTME: Message send runs the full assemble-store-generate-store flow

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hearthside/emberchat/internal/auth"
	"github.com/hearthside/emberchat/internal/blob"
	"github.com/hearthside/emberchat/internal/conversation"
	"github.com/hearthside/emberchat/internal/store"
)

// maxUploadBytes bounds multipart attachment uploads.
const maxUploadBytes = 32 << 20

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type createChatRequest struct {
	Title        string `json:"title"`
	SystemPrompt string `json:"system_prompt"`
}

type chatResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	SystemPrompt string `json:"system_prompt"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

type messageResponse struct {
	ID        int64  `json:"id"`
	ChatID    string `json:"chat_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

type attachmentResponse struct {
	ID        string `json:"id"`
	ChatID    string `json:"chat_id"`
	Name      string `json:"name"`
	MimeType  string `json:"mime_type"`
	Size      int64  `json:"size"`
	CreatedAt int64  `json:"created_at"`
}

type settingRequest struct {
	Value string `json:"value"`
}

// handleLogin exchanges the master password for a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, err := s.login.Login(r.Context(), req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.sendJSONError(w, http.StatusUnauthorized, "invalid password")
		return
	}
	if errors.Is(err, auth.ErrNotConfigured) {
		s.logger.Error("login attempted with no master password configured")
		s.sendJSONError(w, http.StatusInternalServerError, "server not configured")
		return
	}
	if err != nil {
		s.logger.Error("login failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "login failed")
		return
	}

	s.writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

// handleCreateChat creates a new chat.
func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	var req createChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "New chat"
	}

	now := time.Now().Unix()
	chat := &store.Chat{
		ID:           uuid.New().String(),
		Title:        title,
		SystemPrompt: req.SystemPrompt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateChat(r.Context(), chat); err != nil {
		s.logger.Error("failed to create chat", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "failed to create chat")
		return
	}

	s.logger.Info("chat created", "chat_id", chat.ID)
	s.writeJSON(w, http.StatusCreated, toChatResponse(chat))
}

// handleListChats lists chats, newest first.
func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := s.store.ListChats(r.Context(), 0)
	if err != nil {
		s.logger.Error("failed to list chats", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "failed to list chats")
		return
	}

	resp := make([]chatResponse, 0, len(chats))
	for _, chat := range chats {
		resp = append(resp, toChatResponse(chat))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleDeleteChat deletes a chat with its messages and attachments.
// Blob deletes are best-effort: a storage failure is logged and the
// relational rows are removed regardless.
func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID := r.PathValue("id")

	attachments, err := s.store.ListAttachments(r.Context(), chatID)
	if err != nil {
		s.logger.Error("failed to list attachments for delete", "chat_id", chatID, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "failed to delete chat")
		return
	}

	for _, att := range attachments {
		if err := s.blobs.Delete(r.Context(), att.Key); err != nil {
			s.logger.Warn("failed to delete attachment blob", "key", att.Key, "error", err)
		}
	}

	if err := s.store.DeleteChat(r.Context(), chatID); err != nil {
		s.logger.Error("failed to delete chat", "chat_id", chatID, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "failed to delete chat")
		return
	}

	s.logger.Info("chat deleted", "chat_id", chatID, "attachments", len(attachments))
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleListMessages returns a chat's messages in chronological order.
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	chatID := r.PathValue("id")

	messages, err := s.store.ListMessages(r.Context(), chatID, messagesPageLimit)
	if err != nil {
		s.logger.Error("failed to list messages", "chat_id", chatID, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}

	resp := make([]messageResponse, 0, len(messages))
	for _, msg := range messages {
		resp = append(resp, toMessageResponse(msg))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleSendMessage stores the user's message, forwards the assembled
// conversation to the model, stores the reply, and returns it.
//
// The user message is persisted before the model is called, so a
// missing API key or an upstream failure still leaves the user's turn
// in history.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	chatID := r.PathValue("id")

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.sendJSONError(w, http.StatusBadRequest, "message required")
		return
	}

	chat, err := s.store.GetChat(r.Context(), chatID)
	if errors.Is(err, store.ErrNotFound) {
		s.sendJSONError(w, http.StatusNotFound, "chat not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load chat", "chat_id", chatID, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "failed to load chat")
		return
	}

	history, err := s.store.ListMessages(r.Context(), chatID, s.cfg.HistoryLimit)
	if err != nil {
		s.logger.Error("failed to load history", "chat_id", chatID, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	attachments, err := s.store.ListAttachments(r.Context(), chatID)
	if err != nil {
		s.logger.Error("failed to load attachments", "chat_id", chatID, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "failed to load attachments")
		return
	}

	turns := conversation.Assemble(chat.SystemPrompt, history, attachments, req.Message)

	userMsg := &store.Message{
		ChatID:    chatID,
		Role:      store.RoleUser,
		Content:   req.Message,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.store.AppendMessage(r.Context(), userMsg); err != nil {
		s.logger.Error("failed to store user message", "chat_id", chatID, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "failed to store message")
		return
	}

	apiKey, err := s.store.GetSetting(r.Context(), SettingGeminiAPIKey)
	if errors.Is(err, store.ErrNotFound) {
		s.sendJSONError(w, http.StatusInternalServerError, "model API key not configured")
		return
	}
	if err != nil {
		s.logger.Error("failed to load API key", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "failed to load API key")
		return
	}

	reply, err := s.generator.Generate(r.Context(), apiKey, s.cfg.Model, turns)
	if err != nil {
		s.logger.Error("model call failed", "chat_id", chatID, "model", s.cfg.Model, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, fmt.Sprintf("model API error: %v", err))
		return
	}

	modelMsg := &store.Message{
		ChatID:    chatID,
		Role:      store.RoleModel,
		Content:   reply,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.store.AppendMessage(r.Context(), modelMsg); err != nil {
		s.logger.Error("failed to store model reply", "chat_id", chatID, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "failed to store reply")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// handleListAttachments lists a chat's attachment metadata.
func (s *Server) handleListAttachments(w http.ResponseWriter, r *http.Request) {
	chatID := r.PathValue("id")

	attachments, err := s.store.ListAttachments(r.Context(), chatID)
	if err != nil {
		s.logger.Error("failed to list attachments", "chat_id", chatID, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "failed to list attachments")
		return
	}

	resp := make([]attachmentResponse, 0, len(attachments))
	for _, att := range attachments {
		resp = append(resp, toAttachmentResponse(att))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleUploadAttachment accepts a multipart file and stores the blob
// plus its metadata row.
func (s *Server) handleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	chatID := r.PathValue("id")

	if _, err := s.store.GetChat(r.Context(), chatID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "chat not found")
			return
		}
		s.logger.Error("failed to load chat", "chat_id", chatID, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "failed to load chat")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	att := &store.Attachment{
		ID:        uuid.New().String(),
		ChatID:    chatID,
		Name:      header.Filename,
		MimeType:  mimeType,
		Size:      header.Size,
		CreatedAt: time.Now().Unix(),
	}
	att.Key = fmt.Sprintf("chats/%s/%s/%s", chatID, att.ID, att.Name)

	if err := s.blobs.Put(r.Context(), att.Key, mimeType, header.Size, file); err != nil {
		s.logger.Error("failed to store blob", "key", att.Key, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	if err := s.store.CreateAttachment(r.Context(), att); err != nil {
		s.logger.Error("failed to store attachment metadata", "key", att.Key, "error", err)
		if derr := s.blobs.Delete(r.Context(), att.Key); derr != nil {
			s.logger.Warn("failed to clean up orphaned blob", "key", att.Key, "error", derr)
		}
		s.sendJSONError(w, http.StatusInternalServerError, "failed to store attachment")
		return
	}

	s.logger.Info("attachment uploaded", "chat_id", chatID, "attachment_id", att.ID, "size", att.Size)
	s.writeJSON(w, http.StatusCreated, toAttachmentResponse(att))
}

// handleDownloadAttachment streams an attachment's blob.
func (s *Server) handleDownloadAttachment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	att, err := s.store.GetAttachment(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.sendJSONError(w, http.StatusNotFound, "attachment not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load attachment", "attachment_id", id, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "failed to load attachment")
		return
	}

	body, contentType, err := s.blobs.Get(r.Context(), att.Key)
	if errors.Is(err, blob.ErrNotFound) {
		s.sendJSONError(w, http.StatusNotFound, "attachment content not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to read blob", "key", att.Key, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = att.MimeType
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Name))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		s.logger.Warn("attachment stream interrupted", "attachment_id", id, "error", err)
	}
}

// handleGetSetting returns a settings value.
func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	value, err := s.store.GetSetting(r.Context(), key)
	if errors.Is(err, store.ErrNotFound) {
		s.sendJSONError(w, http.StatusNotFound, "setting not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load setting", "key", key, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "failed to load setting")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

// handleSetSetting upserts a settings value.
func (s *Server) handleSetSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req settingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.store.SetSetting(r.Context(), key, req.Value); err != nil {
		s.logger.Error("failed to store setting", "key", key, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "failed to store setting")
		return
	}

	s.logger.Info("setting updated", "key", key)
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func toChatResponse(chat *store.Chat) chatResponse {
	return chatResponse{
		ID:           chat.ID,
		Title:        chat.Title,
		SystemPrompt: chat.SystemPrompt,
		CreatedAt:    chat.CreatedAt,
		UpdatedAt:    chat.UpdatedAt,
	}
}

func toMessageResponse(msg *store.Message) messageResponse {
	return messageResponse{
		ID:        msg.ID,
		ChatID:    msg.ChatID,
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}

func toAttachmentResponse(att *store.Attachment) attachmentResponse {
	return attachmentResponse{
		ID:        att.ID,
		ChatID:    att.ChatID,
		Name:      att.Name,
		MimeType:  att.MimeType,
		Size:      att.Size,
		CreatedAt: att.CreatedAt,
	}
}
