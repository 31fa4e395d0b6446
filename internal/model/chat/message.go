package chat

// 消息角色，与大模型接口的角色一致。
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message 表示会话中的一轮发言，创建后不再修改。
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
