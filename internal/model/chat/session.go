package chat

import "time"

// Topic 标识一个相互隔离的会话域。
type Topic string

const (
	// TopicCultural 文化咨询。
	TopicCultural Topic = "cultural"
	// TopicEmotional 情感支持。
	TopicEmotional Topic = "emotional"
)

// ValidTopic 判断是否是已知会话域。
func ValidTopic(t Topic) bool {
	return t == TopicCultural || t == TopicEmotional
}

// Profile 保存用户在文化咨询表单里填写的背景信息，随会话存续。
type Profile struct {
	CurrentStatus  string `json:"currentStatus"`
	SituationType  string `json:"situationType"`
	EmotionalState string `json:"emotionalState"`
}

// Session 表示一次匿名访问，持有各会话域的聊天记录与背景信息。
type Session struct {
	ID        string    `json:"id"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"createdAt"`
}
