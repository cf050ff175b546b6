package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventQuizCompleted EventType = "quiz.completed"
	EventBadgeEarned   EventType = "badge.earned"
	EventLevelUp       EventType = "user.level_up"
)

// Event is the envelope every published message shares.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

type QuizCompletedEvent struct {
	UserID     uint `json:"user_id"`
	QuizID     uint `json:"quiz_id"`
	Score      int  `json:"score"`
	Percentage int  `json:"percentage"`
	Streak     int  `json:"streak"`
}

type BadgeEarnedEvent struct {
	UserID    uint   `json:"user_id"`
	BadgeID   uint   `json:"badge_id"`
	BadgeName string `json:"badge_name"`
	Rarity    string `json:"rarity"`
	Points    int    `json:"points"`
}

type LevelUpEvent struct {
	UserID      uint `json:"user_id"`
	OldLevel    int  `json:"old_level"`
	NewLevel    int  `json:"new_level"`
	TotalPoints int  `json:"total_points"`
}

// NewEvent wraps a payload in a fresh envelope.
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "cricket-quiz-service",
		Version:   "1.0",
		Timestamp: time.Now(),
		Data:      data,
	}
}
