package conversation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/linyuezhao/cultural-navigator/backend/internal/model/chat"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownTopic    = errors.New("unknown conversation topic")
	ErrIndexOutOfRange = errors.New("message index out of range")
)

// DefaultWindow 是发给大模型的历史消息条数上限（5 轮问答）。
const DefaultWindow = 10

// Service 管理会话生命周期与各会话域的聊天记录。
// 记录只在会话存续期间存在，进程结束即销毁。
type Service struct {
	mu       sync.RWMutex
	window   int
	sessions map[string]*chat.Session
	messages map[string]map[chat.Topic][]chat.Message
}

// NewService 创建内存会话服务。window 不合法时退回默认值。
func NewService(window int) *Service {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Service{
		window:   window,
		sessions: make(map[string]*chat.Session),
		messages: make(map[string]map[chat.Topic][]chat.Message),
	}
}

// Window 返回配置的上下文窗口大小。
func (s *Service) Window() int {
	return s.window
}

// CreateSession 创建一个空会话，各会话域的记录均为空。
func (s *Service) CreateSession(_ context.Context) chat.Session {
	session := &chat.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.messages[session.ID] = map[chat.Topic][]chat.Message{
		chat.TopicCultural:  make([]chat.Message, 0, 16),
		chat.TopicEmotional: make([]chat.Message, 0, 16),
	}
	s.mu.Unlock()

	return *session
}

// GetSession 按标识查找会话。
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}
	return *session, nil
}

// DeleteSession 销毁会话及其全部聊天记录。
func (s *Service) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	delete(s.messages, sessionID)
	return nil
}

// UpdateProfile 保存文化咨询表单提交的背景信息。
func (s *Service) UpdateProfile(_ context.Context, sessionID string, profile chat.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	session.Profile = profile
	return nil
}

// Append 把一条消息追加到指定会话域的末尾。
func (s *Service) Append(_ context.Context, sessionID string, topic chat.Topic, message chat.Message) error {
	if !chat.ValidTopic(topic) {
		return ErrUnknownTopic
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	topics, ok := s.messages[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	topics[topic] = append(topics[topic], message)
	return nil
}

// DeleteAt 删除指定位置的消息，后续消息依次前移。
// 删除按位置而非稳定标识进行，因此整个操作在锁内完成，
// 避免并发删除导致的位置漂移。
func (s *Service) DeleteAt(_ context.Context, sessionID string, topic chat.Topic, index int) error {
	if !chat.ValidTopic(topic) {
		return ErrUnknownTopic
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	topics, ok := s.messages[sessionID]
	if !ok {
		return ErrSessionNotFound
	}

	history := topics[topic]
	if index < 0 || index >= len(history) {
		return ErrIndexOutOfRange
	}

	topics[topic] = append(history[:index], history[index+1:]...)
	return nil
}

// WindowMessages 返回指定会话域最近的若干条消息，按时间先后排列。
// 记录不足时返回全部。
func (s *Service) WindowMessages(_ context.Context, sessionID string, topic chat.Topic) ([]chat.Message, error) {
	if !chat.ValidTopic(topic) {
		return nil, ErrUnknownTopic
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	topics, ok := s.messages[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	history := topics[topic]
	start := 0
	if len(history) > s.window {
		start = len(history) - s.window
	}

	copied := make([]chat.Message, len(history)-start)
	copy(copied, history[start:])
	return copied, nil
}

// Transcript 返回指定会话域的全部消息副本。
func (s *Service) Transcript(_ context.Context, sessionID string, topic chat.Topic) ([]chat.Message, error) {
	if !chat.ValidTopic(topic) {
		return nil, ErrUnknownTopic
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	topics, ok := s.messages[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	history := topics[topic]
	copied := make([]chat.Message, len(history))
	copy(copied, history)
	return copied, nil
}

// Clear 清空指定会话域的记录，会话内不可恢复。
func (s *Service) Clear(_ context.Context, sessionID string, topic chat.Topic) error {
	if !chat.ValidTopic(topic) {
		return ErrUnknownTopic
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	topics, ok := s.messages[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	topics[topic] = topics[topic][:0]
	return nil
}
