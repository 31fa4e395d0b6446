package chat

// SituationType 描述文化咨询表单中的情景类型选项。
// Display 是带示例的展示文案，Value 是写入会话背景的简化值。
type SituationType struct {
	Display string `json:"display"`
	Value   string `json:"value"`
}

// SituationOther 选中后要求用户补充具体情景描述。
const SituationOther = "其他"

// SituationTypes 返回固定的四种情景类型，顺序即表单展示顺序。
func SituationTypes() []SituationType {
	return []SituationType{
		{Display: "学习相关（如图书馆使用、与教授沟通等）", Value: "学习相关"},
		{Display: "文化适应（如理解美国人的社交习惯）", Value: "文化适应"},
		{Display: "生活问题（如住宿、交通、饮食等）", Value: "生活问题"},
		{Display: SituationOther, Value: SituationOther},
	}
}

// NormalizeSituation 将情景类型与可选的补充说明合并为最终写入背景的值。
// 选择"其他"且填写了说明时记录为 "其他：<说明>"。
func NormalizeSituation(value, elaboration string) string {
	if value == SituationOther && elaboration != "" {
		return SituationOther + "：" + elaboration
	}
	return value
}
