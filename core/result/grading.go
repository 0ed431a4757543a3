package result

import (
	"math"

	"github.com/trezcool/tracklearn/core/quiz"
)

// Grade is the outcome of grading an attempt against an answer key.
type Grade struct {
	TotalQuestions int
	CorrectAnswers int
	Score          int // percentage, 0 - 100
}

// GradeAnswers grades the selections against the answer key.
// A question is correct when the selected options are exactly its correct options;
// unanswered questions count as wrong and selections for unknown questions are ignored.
func GradeAnswers(key quiz.AnswerKey, answers Answers) Grade {
	g := Grade{TotalQuestions: len(key)}
	for questionID, correct := range key {
		if len(correct) == 0 {
			continue
		}
		if sameOptions(correct, answers[questionID]) {
			g.CorrectAnswers++
		}
	}
	g.Score = Score(g.CorrectAnswers, g.TotalQuestions)
	return g
}

// Score returns the rounded percentage of correct answers.
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) * 100 / float64(total)))
}

func sameOptions(correct map[string]struct{}, selected Selection) bool {
	seen := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		if _, ok := correct[id]; !ok {
			return false
		}
		seen[id] = struct{}{}
	}
	return len(seen) == len(correct)
}
