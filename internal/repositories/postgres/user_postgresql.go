package postgres

import (
	"context"
	"time"

	"github.com/pitchside/cricket-quiz-service/internal/models"
	"github.com/pitchside/cricket-quiz-service/internal/progression"
	"github.com/pitchside/cricket-quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserProgressionStore {
	return &UserPostgreSQL{db: db}
}

func (r *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("Badges.Badge").
		First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserPostgreSQL) LoadProgression(ctx context.Context, userID uint) (progression.Snapshot, []uint, int64, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Preload("QuizScores", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_scores.completed_at ASC, quiz_scores.id ASC")
		}).
		First(&user, userID).Error; err != nil {
		return progression.Snapshot{}, nil, 0, err
	}

	var badgeIDs []uint
	if err := r.db.WithContext(ctx).Model(&models.UserBadge{}).
		Where("user_id = ?", userID).
		Pluck("badge_id", &badgeIDs).Error; err != nil {
		return progression.Snapshot{}, nil, 0, err
	}

	snapshot := progression.Snapshot{
		UserID:           user.ID,
		TotalPoints:      user.TotalPoints,
		Level:            user.Level,
		Streak:           user.Streak,
		LastActivityDate: user.LastActivityDate,
		History:          user.QuizScores,
	}

	return snapshot, badgeIDs, user.Revision, nil
}

// SaveProgression writes the snapshot back under optimistic concurrency. The
// UPDATE carries the expected revision in its WHERE clause; zero rows
// affected means another submission won the race and the caller must re-run
// against a fresh snapshot. History records with a zero ID are the ones
// appended since the load and are inserted here; awards are inserted once
// per (user, badge) pair.
func (r *UserPostgreSQL) SaveProgression(ctx context.Context, snapshot progression.Snapshot, newBadgeIDs []uint, expectedRevision int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND revision = ?", snapshot.UserID, expectedRevision).
			Updates(map[string]interface{}{
				"total_points":       snapshot.TotalPoints,
				"level":              snapshot.Level,
				"streak":             snapshot.Streak,
				"last_activity_date": snapshot.LastActivityDate,
				"revision":           expectedRevision + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repositories.ErrRevisionConflict
		}

		for i := range snapshot.History {
			if snapshot.History[i].ID != 0 {
				continue
			}
			record := snapshot.History[i]
			record.UserID = snapshot.UserID
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		for _, badgeID := range newBadgeIDs {
			award := models.UserBadge{
				UserID:   snapshot.UserID,
				BadgeID:  badgeID,
				EarnedAt: now,
			}
			if err := tx.Create(&award).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *UserPostgreSQL) History(ctx context.Context, userID uint, limit, offset int) ([]*models.QuizScore, int64, error) {
	var scores []*models.QuizScore
	var total int64

	query := r.db.WithContext(ctx).Model(&models.QuizScore{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Order("completed_at DESC").Find(&scores).Error; err != nil {
		return nil, 0, err
	}

	return scores, total, nil
}

func (r *UserPostgreSQL) LatestScoreForQuiz(ctx context.Context, userID, quizID uint) (*models.QuizScore, error) {
	var score models.QuizScore
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("completed_at DESC").
		First(&score).Error; err != nil {
		return nil, err
	}
	return &score, nil
}

func (r *UserPostgreSQL) Leaderboard(ctx context.Context, filters repositories.LeaderboardFilters) ([]*repositories.LeaderboardEntry, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}

	query := r.db.WithContext(ctx).Model(&models.User{}).
		Select("users.id AS user_id, users.username, users.total_points, users.level, users.streak, COUNT(quiz_scores.id) AS quiz_count").
		Joins("LEFT JOIN quiz_scores ON quiz_scores.user_id = users.id").
		Where("users.is_active = ?", true)

	switch filters.Timeframe {
	case repositories.TimeframeWeekly:
		query = query.Where("users.last_activity_date >= ?", time.Now().AddDate(0, 0, -7))
	case repositories.TimeframeMonthly:
		query = query.Where("users.last_activity_date >= ?", time.Now().AddDate(0, -1, 0))
	}

	var entries []*repositories.LeaderboardEntry
	if err := query.
		Group("users.id, users.username, users.total_points, users.level, users.streak").
		Order("users.total_points DESC, users.level DESC").
		Limit(limit).
		Scan(&entries).Error; err != nil {
		return nil, err
	}

	for i, entry := range entries {
		entry.Rank = i + 1
	}

	return entries, nil
}
