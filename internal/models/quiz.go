package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizCategory string

const (
	CategoryBatting QuizCategory = "Batting"
	CategoryBowling QuizCategory = "Bowling"
	CategoryHistory QuizCategory = "History"
	CategoryTeams   QuizCategory = "Teams"
	CategoryRecords QuizCategory = "Records"
	CategoryGeneral QuizCategory = "General"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "Easy"
	DifficultyMedium DifficultyLevel = "Medium"
	DifficultyHard   DifficultyLevel = "Hard"
)

// DefaultQuestionPoints is used when a question carries no explicit point value.
const DefaultQuestionPoints = 10

type Quiz struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Title       string          `json:"title" gorm:"not null;size:200;uniqueIndex" validate:"required,min=3,max=200"`
	Description string          `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Category    QuizCategory    `json:"category" gorm:"not null;index" validate:"required,quiz_category"`
	Difficulty  DifficultyLevel `json:"difficulty" gorm:"not null;index" validate:"required,difficulty_level"`
	TimeLimit   int             `json:"time_limit" gorm:"not null" validate:"required,min=1,max=60"` // Minutes
	IsActive    bool            `json:"is_active" gorm:"default:true;index"`

	Questions []Question `json:"questions" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`

	// Aggregate statistics, informational only (updated best-effort after submissions)
	CompletionCount int `json:"completion_count" gorm:"default:0"`
	AverageScore    int `json:"average_score" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// Question invariant: CorrectAnswer is always a member of Options. Enforced at
// quiz-creation time; the scoring engine assumes it holds.
type Question struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	QuizID        uint           `json:"quiz_id" gorm:"not null;index"`
	Order         int            `json:"order" gorm:"not null"`
	Prompt        string         `json:"question" gorm:"type:text;not null" validate:"required,min=10"`
	Options       datatypes.JSON `json:"options" gorm:"type:jsonb;not null"` // []string, 2-6 entries
	CorrectAnswer string         `json:"correct_answer,omitempty" gorm:"not null;size:500" validate:"required"`
	Explanation   string         `json:"explanation,omitempty" gorm:"type:text"`
	Points        int            `json:"points" gorm:"default:10" validate:"min=1,max=100"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

func (Question) TableName() string {
	return "quiz_questions"
}

// PointValue returns the question's point value, falling back to the default
// when the stored value is unset.
func (q *Question) PointValue() int {
	if q.Points <= 0 {
		return DefaultQuestionPoints
	}
	return q.Points
}

// TotalPossiblePoints sums the point values of every question in the quiz.
func (q *Quiz) TotalPossiblePoints() int {
	total := 0
	for i := range q.Questions {
		total += q.Questions[i].PointValue()
	}
	return total
}
