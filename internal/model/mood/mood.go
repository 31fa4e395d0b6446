package mood

import (
	"errors"
	"strings"
)

// ErrUnknownMood 表示标签不在固定的五档心情表内。
var ErrUnknownMood = errors.New("unknown mood label")

// Entry 描述一档心情：展示标签、颜色与 0-100 的分值。
type Entry struct {
	Label string  `json:"label"`
	Color string  `json:"color"`
	Score float64 `json:"score"`
}

// entries 的顺序即前端滑块的展示顺序，逻辑上无权重含义。
var entries = []Entry{
	{Label: "非常开心", Color: "#FFD700", Score: 100},
	{Label: "心情不错", Color: "#98FB98", Score: 75},
	{Label: "一般般", Color: "#87CEEB", Score: 50},
	{Label: "有点低落", Color: "#DDA0DD", Score: 25},
	{Label: "很难过", Color: "#CD5C5C", Score: 0},
}

// NeutralScore 是未选择心情时的默认分值。
const NeutralScore = 50

// Entries 返回固定心情表的副本，保持展示顺序。
func Entries() []Entry {
	return append([]Entry(nil), entries...)
}

// Resolve 根据标签查找心情档位。前端标签可能带 emoji 后缀（如 "很难过 😢"），
// 匹配时按首个空格截断后再比对。
func Resolve(label string) (Entry, error) {
	normalized := canonical(label)
	for _, entry := range entries {
		if entry.Label == normalized {
			return entry, nil
		}
	}
	return Entry{}, ErrUnknownMood
}

func canonical(label string) string {
	trimmed := strings.TrimSpace(label)
	if idx := strings.IndexAny(trimmed, " 　"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return trimmed
}
