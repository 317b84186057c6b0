package scoring

import (
	"testing"

	"complyready-backend/shared/database/models/assessment"
)

func question(weight float64, value string) assessment.Question {
	q := assessment.Question{Text: "q", Category: assessment.CategoryGeneral, Weight: weight}
	if value != "" {
		q.Answers = []assessment.Answer{{Value: value}}
	}
	return q
}

func questions(n int, weight float64, value string) []assessment.Question {
	qs := make([]assessment.Question, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, question(weight, value))
	}
	return qs
}

func TestScoreSixteenYesFourUnanswered(t *testing.T) {
	qs := append(questions(16, 1, assessment.AnswerYes), questions(4, 1, "")...)

	res := Score(qs)
	if res.Score != 80 {
		t.Fatalf("score = %d, want 80", res.Score)
	}
	if res.OpenGaps != 4 {
		t.Fatalf("openGaps = %d, want 4", res.OpenGaps)
	}
	if res.RiskLevel != RiskLow {
		t.Fatalf("riskLevel = %s, want Low", res.RiskLevel)
	}
}

func TestScoreHalfYesHalfPartial(t *testing.T) {
	qs := append(questions(10, 1, assessment.AnswerYes), questions(10, 1, assessment.AnswerPartial)...)

	res := Score(qs)
	if res.Score != 75 {
		t.Fatalf("score = %d, want 75", res.Score)
	}
	if res.RiskLevel != RiskMedium {
		t.Fatalf("riskLevel = %s, want Medium", res.RiskLevel)
	}
	if res.OpenGaps != 0 {
		t.Fatalf("openGaps = %d, want 0", res.OpenGaps)
	}
}

func TestScoreNoQuestions(t *testing.T) {
	res := Score(nil)
	if res.Score != 0 {
		t.Fatalf("score = %d, want 0", res.Score)
	}
	if res.RiskLevel != RiskHigh {
		t.Fatalf("riskLevel = %s, want High", res.RiskLevel)
	}
}

func TestScoreMalformedAnswerCountsAsGap(t *testing.T) {
	qs := []assessment.Question{
		question(1, assessment.AnswerYes),
		question(1, "MAYBE"),
	}
	res := Score(qs)
	if res.OpenGaps != 1 {
		t.Fatalf("openGaps = %d, want 1", res.OpenGaps)
	}
	if res.Score != 50 {
		t.Fatalf("score = %d, want 50", res.Score)
	}
}

func TestScoreRespectsWeights(t *testing.T) {
	qs := []assessment.Question{
		question(3, assessment.AnswerYes),
		question(1, assessment.AnswerNo),
	}
	res := Score(qs)
	if res.Score != 75 {
		t.Fatalf("score = %d, want 75", res.Score)
	}
	if res.OpenGaps != 1 {
		t.Fatalf("openGaps = %d, want 1", res.OpenGaps)
	}
}

func TestScoreBounds(t *testing.T) {
	values := []string{assessment.AnswerYes, assessment.AnswerPartial, assessment.AnswerNo, "", "JUNK"}
	for _, a := range values {
		for _, b := range values {
			res := Score([]assessment.Question{question(2, a), question(1, b)})
			if res.Score < 0 || res.Score > 100 {
				t.Fatalf("score out of bounds for (%q,%q): %d", a, b, res.Score)
			}
		}
	}
}

func TestRiskLevelCutPoints(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, RiskLow},
		{80, RiskLow},
		{79, RiskMedium},
		{50, RiskMedium},
		{49, RiskHigh},
		{0, RiskHigh},
	}
	for _, c := range cases {
		if got := RiskLevel(c.score); got != c.want {
			t.Fatalf("RiskLevel(%d) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestWeakItemsCollectsNoAndUnanswered(t *testing.T) {
	qs := []assessment.Question{
		question(1, assessment.AnswerYes),
		question(2, assessment.AnswerNo),
		question(1, assessment.AnswerPartial),
		question(1, ""),
	}
	items := WeakItems(qs)
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].Answer != assessment.AnswerNo || items[0].Weight != 2 {
		t.Fatalf("unexpected first weak item: %+v", items[0])
	}
	if items[1].Answer != AnswerUnanswered {
		t.Fatalf("unexpected second weak item: %+v", items[1])
	}
}
