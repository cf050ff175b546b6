package postgres

import (
	"context"

	"github.com/pitchside/cricket-quiz-service/internal/models"
	"github.com/pitchside/cricket-quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db}
}

func (r *QuizPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.\"order\" ASC")
		}).
		First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizPostgreSQL) GetActiveByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.\"order\" ASC")
		}).
		First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizPostgreSQL) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	var quizzes []*models.Quiz
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Quiz{}).Where("is_active = ?", true)
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Order("created_at DESC").Find(&quizzes).Error; err != nil {
		return nil, 0, err
	}

	return quizzes, total, nil
}

func (r *QuizPostgreSQL) Categories(ctx context.Context) (map[models.QuizCategory]int, error) {
	var rows []struct {
		Category models.QuizCategory
		Count    int
	}
	if err := r.db.WithContext(ctx).Model(&models.Quiz{}).
		Select("category, count(*) as count").
		Where("is_active = ?", true).
		Group("category").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	categories := make(map[models.QuizCategory]int, len(rows))
	for _, row := range rows {
		categories[row.Category] = row.Count
	}
	return categories, nil
}

// RecordCompletion recomputes the quiz's aggregate statistics from the score
// history. Last-writer-wins; a lost update here only skews informational
// numbers, never a user's score.
func (r *QuizPostgreSQL) RecordCompletion(ctx context.Context, quizID uint, score int) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE quizzes SET
			completion_count = completion_count + 1,
			average_score = (
				SELECT COALESCE(ROUND(AVG(score)), 0) FROM quiz_scores WHERE quiz_id = ?
			)
		WHERE id = ?`, quizID, quizID).Error
}

func (r *QuizPostgreSQL) Leaderboard(ctx context.Context, quizID uint, limit int) ([]*repositories.QuizLeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	var entries []*repositories.QuizLeaderboardEntry
	if err := r.db.WithContext(ctx).
		Table("quiz_scores").
		Select("quiz_scores.user_id, users.username, MAX(quiz_scores.score) AS best_score, MAX(quiz_scores.percentage) AS best_percentage").
		Joins("JOIN users ON users.id = quiz_scores.user_id").
		Where("quiz_scores.quiz_id = ?", quizID).
		Group("quiz_scores.user_id, users.username").
		Order("best_score DESC, best_percentage DESC").
		Limit(limit).
		Scan(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}
