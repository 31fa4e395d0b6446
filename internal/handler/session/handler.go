package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linyuezhao/cultural-navigator/backend/internal/model/chat"
	"github.com/linyuezhao/cultural-navigator/backend/internal/service/conversation"
	"github.com/linyuezhao/cultural-navigator/backend/pkg/utils"
)

// Handler 会话生命周期的HTTP处理器
type Handler struct {
	conversations *conversation.Service
}

// New 创建会话处理器
func New(conversations *conversation.Service) *Handler {
	return &Handler{conversations: conversations}
}

// RegisterRoutes 注册会话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Delete("/session/{sessionID}", h.handleDeleteSession)
	r.Put("/session/{sessionID}/profile", h.handleUpdateProfile)
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session := h.conversations.CreateSession(r.Context())
	utils.RespondJSON(w, http.StatusCreated, session)
}

// handleDeleteSession 销毁会话及其聊天记录
func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.conversations.DeleteSession(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateProfile 保存文化咨询表单的背景信息
func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		CurrentStatus        string `json:"currentStatus"`
		SituationType        string `json:"situationType"`
		SituationElaboration string `json:"situationElaboration"`
		EmotionalState       string `json:"emotionalState"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile := chat.Profile{
		CurrentStatus:  payload.CurrentStatus,
		SituationType:  chat.NormalizeSituation(payload.SituationType, payload.SituationElaboration),
		EmotionalState: payload.EmotionalState,
	}

	if err := h.conversations.UpdateProfile(r.Context(), sessionID, profile); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, conversation.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, profile)
}
