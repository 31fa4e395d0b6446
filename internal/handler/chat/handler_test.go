package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	chatModel "github.com/linyuezhao/cultural-navigator/backend/internal/model/chat"
	"github.com/linyuezhao/cultural-navigator/backend/internal/service/conversation"
)

func setupRouter() (*chi.Mux, *conversation.Service) {
	conversations := conversation.NewService(0)
	handler := New(conversations, nil)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, conversations
}

func seedMessages(t *testing.T, conversations *conversation.Service, sessionID string, topic chatModel.Topic, contents ...string) {
	t.Helper()
	for _, content := range contents {
		msg := chatModel.Message{Role: chatModel.RoleUser, Content: content}
		if err := conversations.Append(context.Background(), sessionID, topic, msg); err != nil {
			t.Fatalf("Append err: %v", err)
		}
	}
}

func TestChatTurnUnknownTopic(t *testing.T) {
	r, _ := setupRouter()

	payload, _ := json.Marshal(map[string]string{"sessionId": "x", "message": "你好"})
	req := httptest.NewRequest(http.MethodPost, "/chat/speech", bytes.NewReader(payload))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestChatTurnMissingMessage(t *testing.T) {
	r, _ := setupRouter()

	payload, _ := json.Marshal(map[string]string{"sessionId": "x"})
	req := httptest.NewRequest(http.MethodPost, "/chat/cultural", bytes.NewReader(payload))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestChatTurnWithoutAIService(t *testing.T) {
	r, _ := setupRouter()

	payload, _ := json.Marshal(map[string]string{"sessionId": "x", "message": "你好"})
	req := httptest.NewRequest(http.MethodPost, "/chat/emotional", bytes.NewReader(payload))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestTranscript(t *testing.T) {
	r, conversations := setupRouter()
	session := conversations.CreateSession(context.Background())
	seedMessages(t, conversations, session.ID, chatModel.TopicCultural, "第一条", "第二条")

	req := httptest.NewRequest(http.MethodGet, "/chat/cultural/messages?sessionId="+session.ID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var messages []chatModel.Message
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(messages) != 2 || messages[0].Content != "第一条" {
		t.Fatalf("unexpected transcript: %+v", messages)
	}
}

func TestDeleteMessage(t *testing.T) {
	r, conversations := setupRouter()
	session := conversations.CreateSession(context.Background())
	seedMessages(t, conversations, session.ID, chatModel.TopicEmotional, "第一条", "第二条", "第三条")

	req := httptest.NewRequest(http.MethodDelete, "/chat/emotional/messages/1?sessionId="+session.ID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}

	messages, _ := conversations.Transcript(context.Background(), session.ID, chatModel.TopicEmotional)
	if len(messages) != 2 || messages[1].Content != "第三条" {
		t.Fatalf("deletion must shift later messages down: %+v", messages)
	}
}

func TestDeleteMessageInvalidIndex(t *testing.T) {
	r, conversations := setupRouter()
	session := conversations.CreateSession(context.Background())

	req := httptest.NewRequest(http.MethodDelete, "/chat/emotional/messages/5?sessionId="+session.ID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestClearMessages(t *testing.T) {
	r, conversations := setupRouter()
	session := conversations.CreateSession(context.Background())
	seedMessages(t, conversations, session.ID, chatModel.TopicCultural, "第一条")

	req := httptest.NewRequest(http.MethodDelete, "/chat/cultural/messages?sessionId="+session.ID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}

	messages, _ := conversations.Transcript(context.Background(), session.ID, chatModel.TopicCultural)
	if len(messages) != 0 {
		t.Fatalf("expected cleared history, got %+v", messages)
	}
}
