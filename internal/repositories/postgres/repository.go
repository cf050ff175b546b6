package postgres

import (
	"context"

	"github.com/pitchside/cricket-quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db    *gorm.DB
	quiz  repositories.QuizRepository
	user  repositories.UserProgressionStore
	badge repositories.BadgeCatalog
}

// NewRepository builds the aggregate repository handle over one gorm DB.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		db:    db,
		quiz:  NewQuizPostgreSQL(db),
		user:  NewUserPostgreSQL(db),
		badge: NewBadgePostgreSQL(db),
	}
}

func (r *repository) Quiz() repositories.QuizRepository       { return r.quiz }
func (r *repository) User() repositories.UserProgressionStore { return r.user }
func (r *repository) Badge() repositories.BadgeCatalog        { return r.badge }

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
