package models

import (
	"time"

	"gorm.io/gorm"
)

type BadgeRarity string

const (
	RarityBronze   BadgeRarity = "Bronze"
	RaritySilver   BadgeRarity = "Silver"
	RarityGold     BadgeRarity = "Gold"
	RarityPlatinum BadgeRarity = "Platinum"
)

type BadgeCriteriaType string

const (
	CriteriaQuizScore    BadgeCriteriaType = "quiz_score"
	CriteriaStreak       BadgeCriteriaType = "streak"
	CriteriaTotalPoints  BadgeCriteriaType = "total_points"
	CriteriaQuizCount    BadgeCriteriaType = "quiz_count"
	CriteriaPerfectScore BadgeCriteriaType = "perfect_score"

	// Reserved criteria kinds. They have no evaluable rule yet (category
	// history and per-attempt time-limit context are not tracked), so badges
	// carrying them are never satisfied.
	CriteriaCategoryExpert BadgeCriteriaType = "category_expert"
	CriteriaSpeedDemon     BadgeCriteriaType = "speed_demon"
)

type BadgeCriteria struct {
	Type  BadgeCriteriaType `json:"type" validate:"required,criteria_type"`
	Value int               `json:"value" validate:"required,min=1"`
	// Only used for category_expert
	Category QuizCategory `json:"category,omitempty"`
}

type Badge struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;not null;size:100" validate:"required"`
	Description string `json:"description" gorm:"type:text;not null" validate:"required"`

	CriteriaType     BadgeCriteriaType `json:"-" gorm:"not null;size:30;index"`
	CriteriaValue    int               `json:"-" gorm:"not null"`
	CriteriaCategory QuizCategory      `json:"-" gorm:"size:30"`

	Icon     string      `json:"icon" gorm:"size:20;default:🏅"`
	Rarity   BadgeRarity `json:"rarity" gorm:"not null;default:Bronze;index" validate:"omitempty,badge_rarity"`
	Points   int         `json:"points" gorm:"not null;default:10"`
	Color    string      `json:"color" gorm:"size:10;default:#6B7280"`
	IsActive bool        `json:"is_active" gorm:"default:true;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// UserBadge associates a user with an earned badge. At most one row per
// (user, badge) pair; awards are never revoked.
type UserBadge struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	UserID   uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_badge"`
	BadgeID  uint      `json:"badge_id" gorm:"not null;uniqueIndex:idx_user_badge"`
	EarnedAt time.Time `json:"earned_at" gorm:"not null"`

	Badge Badge `json:"badge" gorm:"foreignKey:BadgeID"`
}

func (Badge) TableName() string {
	return "badges"
}

func (UserBadge) TableName() string {
	return "user_badges"
}

// Criteria returns the badge's criteria as a single value.
func (b *Badge) Criteria() BadgeCriteria {
	return BadgeCriteria{
		Type:     b.CriteriaType,
		Value:    b.CriteriaValue,
		Category: b.CriteriaCategory,
	}
}
