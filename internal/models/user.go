package models

import (
	"time"

	"gorm.io/gorm"
)

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "Beginner"
	ExperienceIntermediate ExperienceLevel = "Intermediate"
	ExperienceExpert       ExperienceLevel = "Expert"
)

type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"uniqueIndex;not null;size:30" validate:"required,min=3,max=30"`
	Email    string `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`

	// Profile info
	FavoriteTeam    *string         `json:"favorite_team" gorm:"size:100"`
	FavoritePlayer  *string         `json:"favorite_player" gorm:"size:100"`
	ExperienceLevel ExperienceLevel `json:"experience_level" gorm:"default:Beginner" validate:"omitempty,experience_level"`
	Bio             *string         `json:"bio" gorm:"size:500" validate:"omitempty,max=500"`

	// Progression state. Mutated only through progression.Apply via the
	// submission service; Level is always derived from TotalPoints.
	TotalPoints      int        `json:"total_points" gorm:"default:0;index:idx_users_total_points,sort:desc"`
	Level            int        `json:"level" gorm:"default:1"`
	Streak           int        `json:"streak" gorm:"default:0"`
	LastActivityDate *time.Time `json:"last_activity_date"`

	// Optimistic concurrency guard for the read-modify-write submission cycle
	Revision int64 `json:"-" gorm:"default:0"`

	QuizScores []QuizScore `json:"quiz_scores,omitempty" gorm:"foreignKey:UserID"`
	Badges     []UserBadge `json:"badges,omitempty" gorm:"foreignKey:UserID"`

	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// QuizScore is one append-only history record, one per scored attempt.
type QuizScore struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"not null;index"`
	QuizID         uint      `json:"quiz_id" gorm:"not null;index"`
	Score          int       `json:"score" gorm:"not null;default:0"`
	TotalQuestions int       `json:"total_questions" gorm:"not null"`
	CorrectAnswers int       `json:"correct_answers" gorm:"not null;default:0"`
	TimeSpent      int       `json:"time_spent" gorm:"not null"` // Seconds
	Percentage     int       `json:"percentage" gorm:"not null"`
	CompletedAt    time.Time `json:"completed_at" gorm:"not null;index"`
}

func (User) TableName() string {
	return "users"
}

func (QuizScore) TableName() string {
	return "quiz_scores"
}

// LevelForPoints derives the level for a point total. Level 1 covers 0-99
// points, level 2 covers 100-199, and so on. Level is never stored as an
// independent counter that could drift from TotalPoints.
func LevelForPoints(totalPoints int) int {
	if totalPoints < 0 {
		return 1
	}
	return totalPoints/100 + 1
}
