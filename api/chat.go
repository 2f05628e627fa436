package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/zombar/categorizer/auth"
	"github.com/zombar/categorizer/db"
	"github.com/zombar/categorizer/models"
)

// handleChatCollection handles /api/chat: list and create
func (s *Server) handleChatCollection(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	switch r.Method {
	case http.MethodGet:
		s.handleListChats(w, claims)
	case http.MethodPost:
		s.handleCreateChat(w, r, claims)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleChatItem dispatches /api/chat/{id}, /api/chat/{id}/messages,
// /api/chat/{id}/rename and /api/chat/history
func (s *Server) handleChatItem(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	path := strings.TrimPrefix(r.URL.Path, "/api/chat/")
	if path == "" {
		respondError(w, http.StatusBadRequest, "chat id is required")
		return
	}

	if path == "history" {
		if r.Method != http.MethodDelete {
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.handleClearChats(w, claims)
		return
	}

	if id, ok := strings.CutSuffix(path, "/messages"); ok {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.handleAppendMessage(w, r, claims, id)
		return
	}

	if id, ok := strings.CutSuffix(path, "/rename"); ok {
		if r.Method != http.MethodPut {
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.handleRenameChat(w, r, claims, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetChat(w, claims, path)
	case http.MethodDelete:
		s.handleDeleteChat(w, claims, path)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleListChats(w http.ResponseWriter, claims *auth.Claims) {
	chats, err := s.store.ListChats(claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"chats":   chats,
	})
}

// CreateChatRequest is the chat creation payload
type CreateChatRequest struct {
	WebsiteURL string `json:"websiteUrl"`
}

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request, claims *auth.Claims) {
	var req CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.WebsiteURL == "" {
		respondError(w, http.StatusBadRequest, "websiteUrl is required")
		return
	}

	chat, err := s.store.CreateChat(claims.UserID, req.WebsiteURL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create chat")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"chat":    chat,
	})
}

func (s *Server) handleGetChat(w http.ResponseWriter, claims *auth.Claims, chatID string) {
	chat, err := s.store.GetChat(chatID, claims.UserID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Chat not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"chat":    chat,
	})
}

// AppendMessageRequest is the message payload
type AppendMessageRequest struct {
	Role    models.MessageRole `json:"role"`
	Content string             `json:"content"`
}

// handleAppendMessage appends the caller's message and, when an assistant is
// configured and the message came from the user, obtains and appends the
// assistant's reply. A failed reply does not roll back the user's message.
func (s *Server) handleAppendMessage(w http.ResponseWriter, r *http.Request, claims *auth.Claims, chatID string) {
	var req AppendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Role == "" || req.Content == "" {
		respondError(w, http.StatusBadRequest, "role and content are required")
		return
	}
	if !req.Role.Valid() {
		respondError(w, http.StatusBadRequest, "role must be user or assistant")
		return
	}

	chat, err := s.store.GetChat(chatID, claims.UserID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Chat not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	if _, err := s.store.AppendMessage(chatID, claims.UserID, req.Role, req.Content); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to add message")
		return
	}

	var assistantErr string
	if s.assistant != nil && req.Role == models.RoleUser {
		answer, err := s.assistant.Ask(r.Context(), chatID, chat.WebsiteURL, req.Content)
		if err != nil {
			slog.Warn("assistant reply failed", "chat_id", chatID, "error", err)
			assistantErr = "assistant unavailable"
		} else if _, err := s.store.AppendMessage(chatID, claims.UserID, models.RoleAssistant, answer); err != nil {
			slog.Error("failed to persist assistant reply", "chat_id", chatID, "error", err)
			assistantErr = "failed to save assistant reply"
		}
	}

	chat, err = s.store.GetChat(chatID, claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	response := map[string]interface{}{
		"success": true,
		"chat":    chat,
	}
	if assistantErr != "" {
		response["assistant_error"] = assistantErr
	}
	respondJSON(w, http.StatusOK, response)
}

// RenameChatRequest is the rename payload
type RenameChatRequest struct {
	NewTitle string `json:"newTitle"`
}

func (s *Server) handleRenameChat(w http.ResponseWriter, r *http.Request, claims *auth.Claims, chatID string) {
	var req RenameChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NewTitle == "" {
		respondError(w, http.StatusBadRequest, "newTitle is required")
		return
	}

	chat, err := s.store.RenameChat(chatID, claims.UserID, req.NewTitle)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Chat not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to rename chat")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"chat":    chat,
	})
}

func (s *Server) handleDeleteChat(w http.ResponseWriter, claims *auth.Claims, chatID string) {
	if err := s.store.DeleteChat(chatID, claims.UserID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Chat not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete chat")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Chat deleted successfully",
	})
}

func (s *Server) handleClearChats(w http.ResponseWriter, claims *auth.Claims) {
	if err := s.store.ClearChats(claims.UserID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to clear chat history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Chat history cleared",
	})
}
