package post

import "time"

// Post 表示一条匿名树洞帖子。写入后不可修改或删除（追加式日志）。
// SentimentScore 是服务端根据正文计算的情感极性，MoodScore 是用户选择的
// 心情档位分值，两者语义不同，分开存储。
type Post struct {
	ID             int64     `json:"id"`
	Content        string    `json:"content"`
	Category       string    `json:"category"`
	Mood           string    `json:"mood,omitempty"`
	MoodColor      string    `json:"moodColor,omitempty"`
	MoodScore      float64   `json:"moodScore"`
	SentimentScore float64   `json:"sentimentScore"`
	PostDate       time.Time `json:"postDate"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Categories 返回树洞分类的固定选项，顺序即表单展示顺序。
func Categories() []string {
	return []string{"学业压力", "文化适应", "人际关系", "其他"}
}
