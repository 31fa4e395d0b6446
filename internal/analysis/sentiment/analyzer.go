package sentiment

import "strings"

// Score 表示一段文本的情感分析结果。
// Polarity 在 [-1, 1] 之间，负值代表负面情绪；Subjectivity 在 [0, 1] 之间，
// 值越大说明文本越主观。
type Score struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

// 词典按权重分桶，覆盖留学生常见的中英文表达。
// 同一词典、同一文本的分析结果是确定的。
var positiveTerms = map[string]float64{
	"开心": 1.0, "高兴": 1.0, "快乐": 1.0, "喜悦": 1.0, "兴奋": 0.9,
	"太好了": 1.0, "太棒了": 1.0, "真棒": 0.9, "顺利": 0.7, "满意": 0.7,
	"喜欢": 0.7, "感谢": 0.6, "谢谢": 0.6, "期待": 0.6, "进步": 0.6,
	"适应": 0.5, "还好": 0.4, "不错": 0.6, "乐观": 0.8, "放松": 0.5,
	"happy": 1.0, "great": 0.8, "good": 0.6, "awesome": 1.0, "amazing": 1.0,
	"love": 0.8, "thanks": 0.6, "excited": 0.9, "wonderful": 1.0, "better": 0.5,
}

var negativeTerms = map[string]float64{
	"难过": 1.0, "伤心": 1.0, "悲伤": 1.0, "痛苦": 1.0, "沮丧": 0.9,
	"失落": 0.8, "低落": 0.8, "焦虑": 0.9, "紧张": 0.7, "害怕": 0.8,
	"孤单": 0.8, "孤独": 0.8, "寂寞": 0.8, "想家": 0.8, "委屈": 0.8,
	"压力": 0.7, "失望": 0.8, "迷茫": 0.7, "累": 0.5, "烦": 0.6,
	"生气": 0.8, "讨厌": 0.8, "崩溃": 1.0, "哭": 0.7, "担心": 0.6,
	"sad": 1.0, "anxious": 0.9, "stressed": 0.8, "lonely": 0.8, "homesick": 0.8,
	"depressed": 1.0, "tired": 0.5, "worried": 0.6, "afraid": 0.8, "upset": 0.8,
}

// 否定前缀：出现在情感词前会翻转该词的极性。
var negationPrefixes = []string{"不", "没", "别", "毫不", "不太", "not ", "never ", "no "}

// 程度副词与第一人称等主观性标记。
var intensifiers = []string{"很", "非常", "太", "特别", "真的", "好", "极其", "so ", "very ", "really ", "extremely "}

var subjectiveMarkers = []string{"我", "觉得", "感觉", "感到", "希望", "想", "心里", "i ", "i'm", "feel", "think", "hope", "wish"}

// Analyze 对文本做词典式情感打分。空文本返回零值。
func Analyze(text string) Score {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Score{}
	}

	var pos, neg float64
	pos, neg = accumulate(normalized, positiveTerms, pos, neg)
	neg, pos = accumulate(normalized, negativeTerms, neg, pos)

	var polarity float64
	if total := pos + neg; total > 0 {
		base := (pos - neg) / total
		polarity = base * magnitude(normalized, text)
	}

	subjectivity := subjectivityOf(normalized, pos+neg)

	return Score{Polarity: polarity, Subjectivity: subjectivity}
}

// accumulate 统计一个词典的命中权重。被否定前缀修饰的命中计入相反桶。
func accumulate(text string, terms map[string]float64, same, opposite float64) (float64, float64) {
	for term, weight := range terms {
		hits := strings.Count(text, term)
		if hits == 0 {
			continue
		}

		negated := 0
		for _, prefix := range negationPrefixes {
			negated += strings.Count(text, prefix+term)
		}
		if negated > hits {
			negated = hits
		}

		same += weight * float64(hits-negated)
		opposite += weight * float64(negated)
	}
	return same, opposite
}

// magnitude 根据程度副词与感叹号放大极性强度，上限为 1。
func magnitude(normalized, raw string) float64 {
	boost := 0
	for _, word := range intensifiers {
		boost += strings.Count(normalized, word)
	}
	boost += strings.Count(raw, "!") + strings.Count(raw, "！")
	if boost > 4 {
		boost = 4
	}
	return 0.6 + 0.1*float64(boost)
}

func subjectivityOf(normalized string, emotionalWeight float64) float64 {
	score := emotionalWeight * 0.2
	for _, marker := range subjectiveMarkers {
		if strings.Contains(normalized, marker) {
			score += 0.15
		}
	}
	if score > 1 {
		score = 1
	}
	return score
}
