package scoring

import (
	"math"

	"complyready-backend/shared/database/models/assessment"
)

// Risk tier labels
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// AnswerUnanswered marks a question with no stored answer in weak-item output
const AnswerUnanswered = "UNANSWERED"

// Result is the outcome of scoring one assessment's question set.
type Result struct {
	Score     int
	RiskLevel string
	OpenGaps  int
}

// WeakItem is a question that was answered NO or left unanswered, the input
// to the narrative-report prompt.
type WeakItem struct {
	Question string  `json:"question"`
	Category string  `json:"category"`
	Weight   float64 `json:"weight"`
	Answer   string  `json:"answer"`
}

// Score computes the weighted compliance score over an assessment's
// questions. YES earns full weight, PARTIAL half, NO nothing; NO, unanswered
// and malformed answers each count as one open gap.
func Score(questions []assessment.Question) Result {
	var total, gained float64
	openGaps := 0

	for _, q := range questions {
		total += q.Weight

		if len(q.Answers) == 0 {
			openGaps++
			continue
		}

		switch q.Answers[0].Value {
		case assessment.AnswerYes:
			gained += q.Weight
		case assessment.AnswerPartial:
			gained += q.Weight * 0.5
		case assessment.AnswerNo:
			openGaps++
		default:
			openGaps++
		}
	}

	score := 0
	if total > 0 {
		score = int(math.Round(gained / total * 100))
	}

	return Result{
		Score:     score,
		RiskLevel: RiskLevel(score),
		OpenGaps:  openGaps,
	}
}

// RiskLevel maps a 0-100 score to its risk tier. The same cut points apply at
// submission and at action-completion recompute.
func RiskLevel(score int) string {
	switch {
	case score >= 80:
		return RiskLow
	case score >= 50:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// WeakItems collects every question answered NO or left unanswered, in
// question order.
func WeakItems(questions []assessment.Question) []WeakItem {
	var items []WeakItem
	for _, q := range questions {
		answer := AnswerUnanswered
		if len(q.Answers) > 0 {
			answer = q.Answers[0].Value
		}
		if answer != assessment.AnswerNo && answer != AnswerUnanswered {
			continue
		}
		items = append(items, WeakItem{
			Question: q.Text,
			Category: q.Category,
			Weight:   q.Weight,
			Answer:   answer,
		})
	}
	return items
}
