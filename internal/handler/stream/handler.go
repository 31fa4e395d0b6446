package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/cloudwego/eino/schema"

	chatModel "github.com/linyuezhao/cultural-navigator/backend/internal/model/chat"
	"github.com/linyuezhao/cultural-navigator/backend/internal/service/ai"
	"github.com/linyuezhao/cultural-navigator/backend/internal/service/conversation"
	"github.com/linyuezhao/cultural-navigator/backend/pkg/utils"
)

// Handler 通过Server-Sent Events流式返回AI回复
type Handler struct {
	aiSvc         *ai.Service
	conversations *conversation.Service
}

// New 创建流式处理器
func New(aiSvc *ai.Service, conversations *conversation.Service) *Handler {
	return &Handler{aiSvc: aiSvc, conversations: conversations}
}

// Response 表示一个流式响应分片
type Response struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleStreamRequest 以SSE分片完成一轮对话。
// 与普通聊天接口一样，边界失败降级为错误提示文本，本轮记录照常写入。
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID string, topic chatModel.Topic, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	session, err := h.conversations.GetSession(ctx, sessionID)
	if err != nil {
		h.sendError(w, flusher, fmt.Sprintf("failed to get session: %v", err))
		return err
	}

	history, err := h.conversations.WindowMessages(ctx, sessionID, topic)
	if err != nil {
		h.sendError(w, flusher, fmt.Sprintf("failed to load history: %v", err))
		return err
	}

	queryType := ai.QueryEmotionSupport
	contextBlock := ""
	if topic == chatModel.TopicCultural {
		queryType = ai.QueryCulturalAdvice
		contextBlock = ai.ContextBlock(session.Profile)
	}

	h.send(w, flusher, Response{Event: "start", SessionID: sessionID})

	reply, streamErr := h.streamReply(ctx, w, flusher, sessionID, queryType, userMessage, contextBlock, history)
	if streamErr != nil {
		var boundaryErr *ai.BoundaryError
		if !errors.As(streamErr, &boundaryErr) {
			h.sendError(w, flusher, streamErr.Error())
			return streamErr
		}
		log.Printf("[stream] llm boundary failed for session=%s topic=%s: %v", sessionID, topic, streamErr)
		reply = fmt.Sprintf("发生错误：%v", boundaryErr.Err)
		h.send(w, flusher, Response{Event: "message", SessionID: sessionID, Content: reply})
	}

	userMsg := chatModel.Message{Role: chatModel.RoleUser, Content: userMessage}
	assistantMsg := chatModel.Message{Role: chatModel.RoleAssistant, Content: reply}
	if err := h.conversations.Append(ctx, sessionID, topic, userMsg); err != nil {
		log.Printf("[stream] failed to save user message: %v", err)
	}
	if err := h.conversations.Append(ctx, sessionID, topic, assistantMsg); err != nil {
		log.Printf("[stream] failed to save assistant message: %v", err)
	}

	h.send(w, flusher, Response{Event: "end", SessionID: sessionID, Finished: true})

	log.Printf("[stream] completed turn for session=%s topic=%s", sessionID, topic)
	return nil
}

// streamReply 把模型输出逐片推送给客户端，返回拼接后的完整回复。
func (h *Handler) streamReply(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sessionID string, queryType ai.QueryType, userMessage, contextBlock string, history []chatModel.Message) (string, error) {
	if !h.aiSvc.StreamingEnabled() {
		reply, err := h.aiSvc.Generate(ctx, queryType, userMessage, contextBlock, history)
		if err != nil {
			return "", err
		}
		h.send(w, flusher, Response{Event: "message", SessionID: sessionID, Content: reply})
		return reply, nil
	}

	stream, err := h.aiSvc.Stream(ctx, queryType, userMessage, contextBlock, history)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", &ai.BoundaryError{Err: recvErr}
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			h.send(w, flusher, Response{Event: "delta", SessionID: sessionID, Content: chunk.Content})
		}
	}

	response, err := schema.ConcatMessages(chunks)
	if err != nil {
		return "", &ai.BoundaryError{Err: err}
	}

	h.send(w, flusher, Response{Event: "message", SessionID: sessionID, Content: response.Content})
	return response.Content, nil
}

func (h *Handler) send(w http.ResponseWriter, flusher http.Flusher, response Response) {
	utils.SendSSEChunk(w, flusher, response)
}

func (h *Handler) sendError(w http.ResponseWriter, flusher http.Flusher, errorMsg string) {
	h.send(w, flusher, Response{Event: "error", Error: errorMsg})
}
