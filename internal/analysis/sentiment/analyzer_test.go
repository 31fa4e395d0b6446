package sentiment

import "testing"

func TestAnalyzeEmptyText(t *testing.T) {
	score := Analyze("")
	if score.Polarity != 0 || score.Subjectivity != 0 {
		t.Fatalf("expected zero score for empty text, got %+v", score)
	}

	score = Analyze("   ")
	if score.Polarity != 0 || score.Subjectivity != 0 {
		t.Fatalf("expected zero score for blank text, got %+v", score)
	}
}

func TestAnalyzeNegativeText(t *testing.T) {
	score := Analyze("我很焦虑")
	if score.Polarity >= 0 {
		t.Fatalf("expected negative polarity, got %f", score.Polarity)
	}
	if score.Subjectivity <= 0 {
		t.Fatalf("expected subjective text, got %f", score.Subjectivity)
	}
}

func TestAnalyzePositiveText(t *testing.T) {
	score := Analyze("今天太棒了，我很开心！")
	if score.Polarity <= 0 {
		t.Fatalf("expected positive polarity, got %f", score.Polarity)
	}
}

func TestAnalyzeHomesick(t *testing.T) {
	score := Analyze("想家了")
	if score.Polarity >= 0 {
		t.Fatalf("expected negative polarity for homesick text, got %f", score.Polarity)
	}
}

func TestAnalyzeNegationFlipsPolarity(t *testing.T) {
	negated := Analyze("我不难过")
	plain := Analyze("我难过")
	if plain.Polarity >= 0 {
		t.Fatalf("expected negative polarity, got %f", plain.Polarity)
	}
	if negated.Polarity <= plain.Polarity {
		t.Fatalf("negation should raise polarity: negated=%f plain=%f", negated.Polarity, plain.Polarity)
	}
}

func TestAnalyzeBounds(t *testing.T) {
	samples := []string{
		"太棒了！！！我非常非常开心，真的特别兴奋！",
		"崩溃了，我很难过很痛苦，压力太大，特别焦虑！",
		"今天星期三",
		"I'm so stressed and homesick, really sad!",
		"awesome, thanks, I feel great and excited!!!",
	}
	for _, text := range samples {
		score := Analyze(text)
		if score.Polarity < -1 || score.Polarity > 1 {
			t.Fatalf("polarity out of range for %q: %f", text, score.Polarity)
		}
		if score.Subjectivity < 0 || score.Subjectivity > 1 {
			t.Fatalf("subjectivity out of range for %q: %f", text, score.Subjectivity)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	first := Analyze("刚来美国一个月，有点想家，但是同学都很友善")
	second := Analyze("刚来美国一个月，有点想家，但是同学都很友善")
	if first != second {
		t.Fatalf("analysis not deterministic: %+v vs %+v", first, second)
	}
}
