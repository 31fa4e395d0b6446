package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	chatModel "github.com/linyuezhao/cultural-navigator/backend/internal/model/chat"
	"github.com/linyuezhao/cultural-navigator/backend/internal/service/ai"
	"github.com/linyuezhao/cultural-navigator/backend/internal/service/conversation"
	"github.com/linyuezhao/cultural-navigator/backend/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	conversations *conversation.Service
	aiSvc         *ai.Service
}

// New 创建聊天处理器。aiSvc 为空时聊天接口返回 503。
func New(conversations *conversation.Service, aiSvc *ai.Service) *Handler {
	return &Handler{conversations: conversations, aiSvc: aiSvc}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/{topic}", h.handleChatTurn)
	r.Get("/chat/{topic}/messages", h.handleTranscript)
	r.Delete("/chat/{topic}/messages/{index}", h.handleDeleteMessage)
	r.Delete("/chat/{topic}/messages", h.handleClear)
}

// handleChatTurn 完成一轮对话：组装提示词、调用大模型、把两条消息追加到记录。
// 大模型边界失败不会中断本轮：回复内容降级为错误提示文本，对话保持可用。
func (h *Handler) handleChatTurn(w http.ResponseWriter, r *http.Request) {
	topic := chatModel.Topic(chi.URLParam(r, "topic"))
	if !chatModel.ValidTopic(topic) {
		utils.RespondError(w, http.StatusNotFound, "unknown topic")
		return
	}

	var payload struct {
		SessionID string `json:"sessionId"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}
	if h.aiSvc == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "ai service unavailable")
		return
	}

	ctx := r.Context()

	session, err := h.conversations.GetSession(ctx, payload.SessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	history, err := h.conversations.WindowMessages(ctx, payload.SessionID, topic)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	queryType, contextBlock := queryFor(topic, session)

	reply, err := h.aiSvc.Generate(ctx, queryType, payload.Message, contextBlock, history)
	degraded := false
	if err != nil {
		var boundaryErr *ai.BoundaryError
		if !errors.As(err, &boundaryErr) {
			utils.RespondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		// 降级为消息：模型不可用时对话界面照常工作。
		log.Printf("[chat] llm boundary failed for session=%s topic=%s: %v", payload.SessionID, topic, err)
		reply = fmt.Sprintf("发生错误：%v", boundaryErr.Err)
		degraded = true
	}

	// 组装提示词不修改记录，两条消息在拿到回复后统一追加。
	userMsg := chatModel.Message{Role: chatModel.RoleUser, Content: payload.Message}
	assistantMsg := chatModel.Message{Role: chatModel.RoleAssistant, Content: reply}
	if err := h.conversations.Append(ctx, payload.SessionID, topic, userMsg); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := h.conversations.Append(ctx, payload.SessionID, topic, assistantMsg); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"reply":    reply,
		"degraded": degraded,
	})
}

// handleTranscript 返回指定会话域的全部聊天记录
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	topic := chatModel.Topic(chi.URLParam(r, "topic"))
	sessionID := r.URL.Query().Get("sessionId")

	messages, err := h.conversations.Transcript(r.Context(), sessionID, topic)
	if err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, messages)
}

// handleDeleteMessage 删除指定位置的消息
func (h *Handler) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	topic := chatModel.Topic(chi.URLParam(r, "topic"))
	sessionID := r.URL.Query().Get("sessionId")

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid message index")
		return
	}

	if err := h.conversations.DeleteAt(r.Context(), sessionID, topic, index); err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClear 清空指定会话域的聊天记录
func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	topic := chatModel.Topic(chi.URLParam(r, "topic"))
	sessionID := r.URL.Query().Get("sessionId")

	if err := h.conversations.Clear(r.Context(), sessionID, topic); err != nil {
		utils.RespondError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// queryFor 把会话域映射到提问场景。文化咨询附带表单背景信息。
func queryFor(topic chatModel.Topic, session chatModel.Session) (ai.QueryType, string) {
	if topic == chatModel.TopicEmotional {
		return ai.QueryEmotionSupport, ""
	}
	return ai.QueryCulturalAdvice, ai.ContextBlock(session.Profile)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, conversation.ErrSessionNotFound), errors.Is(err, conversation.ErrUnknownTopic):
		return http.StatusNotFound
	case errors.Is(err, conversation.ErrIndexOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
