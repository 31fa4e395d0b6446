package ai

import (
	"fmt"

	"github.com/cloudwego/eino/schema"
	"github.com/linyuezhao/cultural-navigator/backend/internal/analysis/sentiment"
	"github.com/linyuezhao/cultural-navigator/backend/internal/model/chat"
)

// QueryType 标识三种固定的提问场景，每种场景有独立的系统提示词。
type QueryType string

const (
	QueryCulturalAdvice   QueryType = "cultural_advice"
	QueryEmotionSupport   QueryType = "emotion_support"
	QueryAnonymousSharing QueryType = "anonymous_sharing"
)

const culturalAdvicePrompt = `你是一位经验丰富的文化顾问，专门帮助国际学生适应新的文化环境。
你需要：
1. 提供具体、实用的建议
2. 解释文化差异背后的原因
3. 分享相关的文化习俗和礼仪
4. 给出实际的例子和情境
请基于用户的具体情况提供个性化的建议。`

const emotionSupportPrompt = `你是一位富有同理心的心理支持顾问。
用户当前的情感状态显示情感极性为%g。
请：
1. 表达理解和认同
2. 提供情感支持
3. 给出实用的建议
4. 鼓励积极的态度
注意使用温和、支持性的语言。`

const anonymousSharingPrompt = `你是一位理解和支持的倾听者。
对于匿名分享：
1. 表示理解和同理
2. 分享类似经历（如果适用）
3. 提供建设性的建议
4. 鼓励继续分享
请保持文化敏感性。`

// SystemPrompt 返回场景对应的系统提示词。
// 情感支持场景会对用户输入做一次实时情感分析，并把极性值嵌入提示词。
func SystemPrompt(queryType QueryType, userText string) string {
	switch queryType {
	case QueryEmotionSupport:
		score := sentiment.Analyze(userText)
		return fmt.Sprintf(emotionSupportPrompt, score.Polarity)
	case QueryAnonymousSharing:
		return anonymousSharingPrompt
	default:
		return culturalAdvicePrompt
	}
}

// ContextBlock 把会话背景信息拼成文化咨询场景的上下文文本。
func ContextBlock(profile chat.Profile) string {
	if profile.SituationType == "" && profile.CurrentStatus == "" && profile.EmotionalState == "" {
		return ""
	}
	return fmt.Sprintf("情景类型：%s\n当前状态：%s\n情绪状态：%s",
		profile.SituationType, profile.CurrentStatus, profile.EmotionalState)
}

// Compose 按固定顺序构造发给大模型的完整消息列表：
// 系统提示词 → 可选的背景信息 → 窗口内的历史消息（按时间先后）→ 本次提问。
// 顺序不可调整：模型需要先看到人设，再看到历史，最后看到当前问题。
// Compose 不修改历史记录，调用方在拿到回复后自行追加两条消息。
func Compose(queryType QueryType, userText, contextBlock string, history []chat.Message) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history)+3)
	messages = append(messages, schema.SystemMessage(SystemPrompt(queryType, userText)))
	messages = append(messages, middleMessages(queryType, contextBlock, history)...)
	messages = append(messages, schema.UserMessage(userText))
	return messages
}

// middleMessages 返回系统提示词与当前提问之间的部分：背景信息与历史窗口。
func middleMessages(queryType QueryType, contextBlock string, history []chat.Message) []*schema.Message {
	middle := make([]*schema.Message, 0, len(history)+1)

	if queryType == QueryCulturalAdvice && contextBlock != "" {
		middle = append(middle, schema.UserMessage("用户背景信息："+contextBlock))
	}

	for _, msg := range history {
		switch msg.Role {
		case chat.RoleUser:
			middle = append(middle, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			middle = append(middle, schema.AssistantMessage(msg.Content, nil))
		}
	}

	return middle
}
