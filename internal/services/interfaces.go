package services

import (
	"context"
	"time"

	"github.com/pitchside/cricket-quiz-service/internal/models"
	"github.com/pitchside/cricket-quiz-service/internal/repositories"
	"github.com/pitchside/cricket-quiz-service/internal/scoring"
)

// ===== REQUEST / RESPONSE STRUCTS =====

// SubmitQuizRequest is the submission contract regardless of transport.
// Duplicate submissions carry no idempotency key: a retried request after a
// reported ServerError is indistinguishable from a second genuine attempt.
type SubmitQuizRequest struct {
	QuizID    uint                      `json:"quiz_id" validate:"required"`
	Answers   []scoring.SubmittedAnswer `json:"answers" validate:"required,dive"`
	TimeSpent int                       `json:"time_spent" validate:"min=0"` // Seconds
}

type EarnedBadge struct {
	Name   string             `json:"name"`
	Rarity models.BadgeRarity `json:"rarity"`
	Points int                `json:"points"`
}

type SubmitQuizResponse struct {
	scoring.ScoreResult
	EarnedBadges []EarnedBadge `json:"earned_badges"`
	TotalPoints  int           `json:"total_points"`
	Level        int           `json:"level"`
	Streak       int           `json:"streak"`
	LevelledUp   bool          `json:"levelled_up"`
}

type QuizResultsResponse struct {
	Quiz        *models.Quiz                         `json:"quiz"`
	UserScore   *models.QuizScore                    `json:"user_score"`
	Leaderboard []*repositories.QuizLeaderboardEntry `json:"leaderboard"`
}

type BadgeProgress struct {
	Badge    *models.Badge `json:"badge"`
	Earned   bool          `json:"earned"`
	EarnedAt *time.Time    `json:"earned_at,omitempty"`
	Progress int           `json:"progress"` // 0-100
}

type PlayerStats struct {
	TotalQuizzes      int `json:"total_quizzes"`
	AverageScore      int `json:"average_score"`
	BestScore         int `json:"best_score"`
	AveragePercentage int `json:"average_percentage"`
	TotalTimeSpent    int `json:"total_time_spent"` // Seconds
}

type PlayerProfile struct {
	User  *models.User `json:"user"`
	Stats PlayerStats  `json:"stats"`
}

// ===== SERVICE INTERFACES =====

type SubmissionService interface {
	Submit(ctx context.Context, req *SubmitQuizRequest, userID uint) (*SubmitQuizResponse, error)
}

type QuizService interface {
	List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	Categories(ctx context.Context) (map[models.QuizCategory]int, error)
	Results(ctx context.Context, quizID, userID uint) (*QuizResultsResponse, error)
}

type PlayerService interface {
	Profile(ctx context.Context, userID uint) (*PlayerProfile, error)
	Badges(ctx context.Context, userID uint) ([]*BadgeProgress, error)
	History(ctx context.Context, userID uint, limit, offset int) ([]*models.QuizScore, int64, error)
	Leaderboard(ctx context.Context, filters repositories.LeaderboardFilters) ([]*repositories.LeaderboardEntry, error)
}

type ExportService interface {
	ExportLeaderboard(ctx context.Context, filters repositories.LeaderboardFilters) ([]byte, error)
	ExportHistory(ctx context.Context, userID uint) ([]byte, error)
}

// ServiceManager exposes all services behind one handle.
type ServiceManager interface {
	Submission() SubmissionService
	Quiz() QuizService
	Player() PlayerService
	Export() ExportService
}
