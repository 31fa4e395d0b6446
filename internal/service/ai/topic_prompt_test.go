package ai

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/linyuezhao/cultural-navigator/backend/internal/analysis/sentiment"
	"github.com/linyuezhao/cultural-navigator/backend/internal/model/chat"
)

func TestComposeEmotionSupportEmptyHistory(t *testing.T) {
	messages := Compose(QueryEmotionSupport, "我很焦虑", "", nil)

	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != schema.System {
		t.Fatalf("first message should be system, got %s", messages[0].Role)
	}

	polarity := sentiment.Analyze("我很焦虑").Polarity
	want := fmt.Sprintf("%g", polarity)
	if !strings.Contains(messages[0].Content, want) {
		t.Fatalf("system prompt should embed polarity %s, got: %s", want, messages[0].Content)
	}

	last := messages[len(messages)-1]
	if last.Role != schema.User || last.Content != "我很焦虑" {
		t.Fatalf("last message should be the user text, got %+v", last)
	}
}

func TestComposeCulturalAdviceWithContext(t *testing.T) {
	contextBlock := ContextBlock(chat.Profile{
		CurrentStatus:  "刚来美国一个月",
		SituationType:  "文化适应",
		EmotionalState: "有点焦虑",
	})

	messages := Compose(QueryCulturalAdvice, "怎么和教授约时间？", contextBlock, nil)

	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].Role != schema.System {
		t.Fatalf("first message should be system, got %s", messages[0].Role)
	}
	if messages[1].Role != schema.User || !strings.HasPrefix(messages[1].Content, "用户背景信息：") {
		t.Fatalf("second message should carry the context block, got %+v", messages[1])
	}
	if !strings.Contains(messages[1].Content, "文化适应") {
		t.Fatalf("context block missing situation type: %s", messages[1].Content)
	}
	if messages[2].Content != "怎么和教授约时间？" {
		t.Fatalf("last message should be the question, got %q", messages[2].Content)
	}
}

func TestComposeContextOnlyForCulturalAdvice(t *testing.T) {
	messages := Compose(QueryEmotionSupport, "最近睡不好", "情景类型：其他", nil)
	for _, msg := range messages {
		if strings.Contains(msg.Content, "用户背景信息") {
			t.Fatal("emotion support prompt must not carry the cultural context block")
		}
	}
}

func TestComposeHistoryOrdering(t *testing.T) {
	history := []chat.Message{
		{Role: chat.RoleUser, Content: "第一问"},
		{Role: chat.RoleAssistant, Content: "第一答"},
		{Role: chat.RoleUser, Content: "第二问"},
		{Role: chat.RoleAssistant, Content: "第二答"},
	}

	messages := Compose(QueryCulturalAdvice, "第三问", "", history)

	if len(messages) != 6 {
		t.Fatalf("expected 6 messages, got %d", len(messages))
	}

	wantContents := []string{"第一问", "第一答", "第二问", "第二答", "第三问"}
	for i, want := range wantContents {
		got := messages[i+1]
		if got.Content != want {
			t.Fatalf("message %d: got %q want %q", i+1, got.Content, want)
		}
	}

	if messages[2].Role != schema.Assistant {
		t.Fatalf("history assistant turn lost its role: %s", messages[2].Role)
	}
}

func TestComposeSkipsSystemRoleHistory(t *testing.T) {
	history := []chat.Message{
		{Role: chat.RoleSystem, Content: "不应出现"},
		{Role: chat.RoleUser, Content: "你好"},
	}

	messages := Compose(QueryAnonymousSharing, "分享一下", "", history)
	for _, msg := range messages[1:] {
		if msg.Content == "不应出现" {
			t.Fatal("system-role history entries must not be forwarded")
		}
	}
}

func TestSystemPromptTemplates(t *testing.T) {
	if !strings.Contains(SystemPrompt(QueryCulturalAdvice, ""), "文化顾问") {
		t.Fatal("cultural advice prompt missing persona")
	}
	if !strings.Contains(SystemPrompt(QueryAnonymousSharing, ""), "倾听者") {
		t.Fatal("anonymous sharing prompt missing persona")
	}
	if !strings.Contains(SystemPrompt(QueryEmotionSupport, "我很难过"), "情感极性") {
		t.Fatal("emotion support prompt missing polarity clause")
	}
}

func TestContextBlockEmptyProfile(t *testing.T) {
	if block := ContextBlock(chat.Profile{}); block != "" {
		t.Fatalf("expected empty context for empty profile, got %q", block)
	}
}
