package repositories

import (
	"context"
	"errors"

	"github.com/pitchside/cricket-quiz-service/internal/models"
	"github.com/pitchside/cricket-quiz-service/internal/progression"
	"gorm.io/gorm"
)

// ErrRevisionConflict is returned by SaveProgression when the stored user
// revision no longer matches the one the snapshot was loaded at. The caller
// re-loads and re-runs the progression stages.
var ErrRevisionConflict = errors.New("user revision conflict")

// IsNotFoundError reports whether err is the driver-level missing-record error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ===== FILTERS =====

type QuizFilters struct {
	Category   *models.QuizCategory    `json:"category"`
	Difficulty *models.DifficultyLevel `json:"difficulty"`
	Limit      int                     `json:"limit"`
	Offset     int                     `json:"offset"`
}

type LeaderboardTimeframe string

const (
	TimeframeAllTime LeaderboardTimeframe = "all-time"
	TimeframeWeekly  LeaderboardTimeframe = "weekly"
	TimeframeMonthly LeaderboardTimeframe = "monthly"
)

type LeaderboardFilters struct {
	Timeframe LeaderboardTimeframe `json:"timeframe"`
	Limit     int                  `json:"limit"`
}

// ===== RESULT STRUCTS =====

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	TotalPoints int    `json:"total_points"`
	Level       int    `json:"level"`
	Streak      int    `json:"streak"`
	QuizCount   int    `json:"quiz_count"`
}

type QuizLeaderboardEntry struct {
	UserID         uint   `json:"user_id"`
	Username       string `json:"username"`
	BestScore      int    `json:"best_score"`
	BestPercentage int    `json:"best_percentage"`
}

// ===== REPOSITORY INTERFACES =====

type QuizRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	// GetActiveByID loads an active quiz with its questions in order.
	GetActiveByID(ctx context.Context, id uint) (*models.Quiz, error)
	List(ctx context.Context, filters QuizFilters) ([]*models.Quiz, int64, error)
	Categories(ctx context.Context) (map[models.QuizCategory]int, error)

	// RecordCompletion bumps the quiz's completion count and recomputes its
	// running average score. Best-effort, last-writer-wins.
	RecordCompletion(ctx context.Context, quizID uint, score int) error
	Leaderboard(ctx context.Context, quizID uint, limit int) ([]*QuizLeaderboardEntry, error)
}

type UserProgressionStore interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)

	// LoadProgression reads the user's progression snapshot, held badge IDs
	// and current revision in one consistent view.
	LoadProgression(ctx context.Context, userID uint) (progression.Snapshot, []uint, int64, error)

	// SaveProgression writes the snapshot back if the stored revision still
	// equals expectedRevision, appending any history records without an ID
	// and awarding newBadgeIDs. Returns ErrRevisionConflict otherwise.
	SaveProgression(ctx context.Context, snapshot progression.Snapshot, newBadgeIDs []uint, expectedRevision int64) error

	History(ctx context.Context, userID uint, limit, offset int) ([]*models.QuizScore, int64, error)
	LatestScoreForQuiz(ctx context.Context, userID, quizID uint) (*models.QuizScore, error)
	Leaderboard(ctx context.Context, filters LeaderboardFilters) ([]*LeaderboardEntry, error)
}

type BadgeCatalog interface {
	ListActive(ctx context.Context) ([]*models.Badge, error)
	GetUserBadges(ctx context.Context, userID uint) ([]*models.UserBadge, error)
}

// Repository aggregates all repositories behind one handle.
type Repository interface {
	Quiz() QuizRepository
	User() UserProgressionStore
	Badge() BadgeCatalog

	Ping(ctx context.Context) error
	Close() error
}
