package postgres

import (
	"context"

	"github.com/pitchside/cricket-quiz-service/internal/models"
	"github.com/pitchside/cricket-quiz-service/internal/repositories"
	"gorm.io/gorm"
)

type BadgePostgreSQL struct {
	db *gorm.DB
}

func NewBadgePostgreSQL(db *gorm.DB) repositories.BadgeCatalog {
	return &BadgePostgreSQL{db: db}
}

func (r *BadgePostgreSQL) ListActive(ctx context.Context) ([]*models.Badge, error) {
	var catalog []*models.Badge
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&catalog).Error; err != nil {
		return nil, err
	}
	return catalog, nil
}

func (r *BadgePostgreSQL) GetUserBadges(ctx context.Context, userID uint) ([]*models.UserBadge, error) {
	var awards []*models.UserBadge
	if err := r.db.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&awards).Error; err != nil {
		return nil, err
	}
	return awards, nil
}
