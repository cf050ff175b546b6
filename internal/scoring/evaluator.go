// Package scoring turns a raw quiz submission into a deterministic score.
// Evaluation is pure: no I/O, no clock, identical inputs give identical
// results.
package scoring

import (
	"math"
	"strings"

	apperrors "github.com/pitchside/cricket-quiz-service/internal/errors"
	"github.com/pitchside/cricket-quiz-service/internal/models"
)

type AnswerStatus string

const (
	StatusCorrect    AnswerStatus = "correct"
	StatusWrong      AnswerStatus = "wrong"
	StatusUnanswered AnswerStatus = "unanswered"
)

// Submission is one user's answer set for one attempt. Question indices are
// 0-based; not every index needs to be present. When the same index appears
// more than once the last occurrence wins.
type Submission struct {
	Answers   []SubmittedAnswer `json:"answers" validate:"required,dive"`
	TimeSpent int               `json:"time_spent" validate:"min=0"` // Seconds
}

type SubmittedAnswer struct {
	QuestionIndex  int    `json:"question_index" validate:"min=0"`
	SelectedAnswer string `json:"selected_answer"`
}

type QuestionResult struct {
	QuestionIndex  int          `json:"question_index"`
	Prompt         string       `json:"question"`
	CorrectAnswer  string       `json:"correct_answer"`
	UserAnswer     *string      `json:"user_answer"`
	IsCorrect      bool         `json:"is_correct"`
	Points         int          `json:"points"`
	PossiblePoints int          `json:"possible_points"`
	Status         AnswerStatus `json:"status"`
}

type ScoreResult struct {
	Score          int              `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	CorrectAnswers int              `json:"correct_answers"`
	WrongAnswers   int              `json:"wrong_answers"`
	Unanswered     int              `json:"unanswered"`
	Percentage     int              `json:"percentage"`
	TimeSpent      int              `json:"time_spent"`
	Detailed       []QuestionResult `json:"detailed"`
}

// Perfect reports whether every possible point was scored.
func (r *ScoreResult) Perfect() bool {
	return r.Percentage == 100
}

// Evaluate scores a submission against a quiz definition.
//
// Answers are matched case-insensitively after trimming whitespace. A missing
// or blank answer counts as unanswered, not wrong. The score is the sum of
// point values of correctly answered questions; the percentage denominator is
// the quiz's total possible points, not its question count. A quiz with zero
// questions yields a zero result rather than an error.
func Evaluate(quiz *models.Quiz, submission *Submission) (*ScoreResult, error) {
	if quiz == nil || submission == nil {
		return nil, apperrors.NewValidationError("submission", "quiz and submission are required", nil)
	}

	answerByIndex := make(map[int]string, len(submission.Answers))
	for _, a := range submission.Answers {
		if a.QuestionIndex < 0 {
			return nil, apperrors.NewValidationError("question_index", "must not be negative", a.QuestionIndex)
		}
		answerByIndex[a.QuestionIndex] = a.SelectedAnswer
	}

	result := &ScoreResult{
		TotalQuestions: len(quiz.Questions),
		TimeSpent:      submission.TimeSpent,
		Detailed:       make([]QuestionResult, 0, len(quiz.Questions)),
	}

	for i := range quiz.Questions {
		question := &quiz.Questions[i]
		points := question.PointValue()

		qr := QuestionResult{
			QuestionIndex:  i,
			Prompt:         question.Prompt,
			CorrectAnswer:  question.CorrectAnswer,
			PossiblePoints: points,
		}

		userAnswer, answered := answerByIndex[i]
		switch {
		case !answered || strings.TrimSpace(userAnswer) == "":
			result.Unanswered++
			qr.Status = StatusUnanswered
		case answersEqual(userAnswer, question.CorrectAnswer):
			result.CorrectAnswers++
			result.Score += points
			qr.UserAnswer = &userAnswer
			qr.IsCorrect = true
			qr.Points = points
			qr.Status = StatusCorrect
		default:
			result.WrongAnswers++
			qr.UserAnswer = &userAnswer
			qr.Status = StatusWrong
		}

		result.Detailed = append(result.Detailed, qr)
	}

	if possible := quiz.TotalPossiblePoints(); possible > 0 {
		result.Percentage = int(math.Round(float64(result.Score) / float64(possible) * 100))
	}

	return result, nil
}

func answersEqual(submitted, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(correct))
}
