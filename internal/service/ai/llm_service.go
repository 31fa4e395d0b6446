package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/linyuezhao/cultural-navigator/backend/internal/config"
	"github.com/linyuezhao/cultural-navigator/backend/internal/model/chat"
)

// BoundaryError 表示大模型边界调用失败（网络、超时或响应异常）。
// 核心层只返回类型化错误，是否把失败渲染成聊天内容由展示层决定。
type BoundaryError struct {
	Err error
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("llm boundary: %v", e.Err)
}

func (e *BoundaryError) Unwrap() error {
	return e.Err
}

// Service 封装大模型调用。
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService 创建大模型服务并编译对话链。
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("middle", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{chatModel: chatModel, cfg: cfg, chain: runnable}, nil
}

// StreamingEnabled 指示是否开启 SSE 流式输出。
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// Generate 用指定场景生成一次回复。失败返回 *BoundaryError。
func (s *Service) Generate(ctx context.Context, queryType QueryType, userText, contextBlock string, history []chat.Message) (string, error) {
	response, err := s.chain.Invoke(ctx, s.chainInput(queryType, userText, contextBlock, history))
	if err != nil {
		return "", &BoundaryError{Err: err}
	}

	log.Printf("[ai] generated %s response, length=%d", queryType, len(response.Content))
	return response.Content, nil
}

// Stream 以流式方式生成回复。失败返回 *BoundaryError。
func (s *Service) Stream(ctx context.Context, queryType QueryType, userText, contextBlock string, history []chat.Message) (*schema.StreamReader[*schema.Message], error) {
	if !s.StreamingEnabled() {
		return nil, &BoundaryError{Err: fmt.Errorf("streaming disabled in configuration")}
	}

	stream, err := s.chain.Stream(ctx, s.chainInput(queryType, userText, contextBlock, history))
	if err != nil {
		return nil, &BoundaryError{Err: err}
	}
	return stream, nil
}

// chainInput 与 Compose 使用同一套构造函数，保证链路内的消息顺序
// 与 Compose 的契约一致。
func (s *Service) chainInput(queryType QueryType, userText, contextBlock string, history []chat.Message) map[string]any {
	return map[string]any{
		"system": SystemPrompt(queryType, userText),
		"middle": middleMessages(queryType, contextBlock, history),
		"query":  userText,
	}
}
