package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pitchside/cricket-quiz-service/internal/models"
	"github.com/pitchside/cricket-quiz-service/internal/repositories"
	"github.com/pitchside/cricket-quiz-service/internal/utils"
	"github.com/redis/go-redis/v9"
)

const (
	badgeCatalogKey = "badge:catalog:active"
	badgeCatalogTTL = 5 * time.Minute
)

// cachedBadge is the cache wire form of a Badge. The criteria columns are
// hidden from client JSON (`json:"-"` on the model), so the catalog must be
// serialized through this type or cached badges come back with empty
// criteria and can never be earned.
type cachedBadge struct {
	ID               uint                     `json:"id"`
	Name             string                   `json:"name"`
	Description      string                   `json:"description"`
	CriteriaType     models.BadgeCriteriaType `json:"criteria_type"`
	CriteriaValue    int                      `json:"criteria_value"`
	CriteriaCategory models.QuizCategory      `json:"criteria_category,omitempty"`
	Icon             string                   `json:"icon"`
	Rarity           models.BadgeRarity       `json:"rarity"`
	Points           int                      `json:"points"`
	Color            string                   `json:"color"`
	IsActive         bool                     `json:"is_active"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

func encodeCatalog(catalog []*models.Badge) ([]byte, error) {
	entries := make([]cachedBadge, 0, len(catalog))
	for _, b := range catalog {
		entries = append(entries, cachedBadge{
			ID:               b.ID,
			Name:             b.Name,
			Description:      b.Description,
			CriteriaType:     b.CriteriaType,
			CriteriaValue:    b.CriteriaValue,
			CriteriaCategory: b.CriteriaCategory,
			Icon:             b.Icon,
			Rarity:           b.Rarity,
			Points:           b.Points,
			Color:            b.Color,
			IsActive:         b.IsActive,
			CreatedAt:        b.CreatedAt,
			UpdatedAt:        b.UpdatedAt,
		})
	}
	return json.Marshal(entries)
}

func decodeCatalog(data []byte) ([]*models.Badge, error) {
	var entries []cachedBadge
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	catalog := make([]*models.Badge, 0, len(entries))
	for _, e := range entries {
		catalog = append(catalog, &models.Badge{
			ID:               e.ID,
			Name:             e.Name,
			Description:      e.Description,
			CriteriaType:     e.CriteriaType,
			CriteriaValue:    e.CriteriaValue,
			CriteriaCategory: e.CriteriaCategory,
			Icon:             e.Icon,
			Rarity:           e.Rarity,
			Points:           e.Points,
			Color:            e.Color,
			IsActive:         e.IsActive,
			CreatedAt:        e.CreatedAt,
			UpdatedAt:        e.UpdatedAt,
		})
	}
	return catalog, nil
}

// CachedBadgeCatalog decorates a BadgeCatalog with a Redis read-through
// cache. The catalog is read-mostly and rarely changes, so a short TTL is
// enough; the core never writes badge definitions.
type CachedBadgeCatalog struct {
	inner  repositories.BadgeCatalog
	client *redis.Client
	logger utils.Logger
}

func NewCachedBadgeCatalog(inner repositories.BadgeCatalog, client *redis.Client, logger utils.Logger) *CachedBadgeCatalog {
	return &CachedBadgeCatalog{
		inner:  inner,
		client: client,
		logger: logger,
	}
}

func (c *CachedBadgeCatalog) ListActive(ctx context.Context) ([]*models.Badge, error) {
	if cached, err := c.client.Get(ctx, badgeCatalogKey).Bytes(); err == nil {
		if catalog, err := decodeCatalog(cached); err == nil {
			return catalog, nil
		}
		// Corrupt entry; fall through to the database and overwrite it.
		c.logger.Warn("Discarding unreadable badge catalog cache entry")
	} else if err != redis.Nil {
		c.logger.LogError(err, "Badge catalog cache read failed, falling back to database")
	}

	catalog, err := c.inner.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, err := encodeCatalog(catalog); err == nil {
		if err := c.client.Set(ctx, badgeCatalogKey, encoded, badgeCatalogTTL).Err(); err != nil {
			c.logger.LogError(err, "Badge catalog cache write failed")
		}
	}

	return catalog, nil
}

// GetUserBadges is per-user and volatile; it always goes to the database.
func (c *CachedBadgeCatalog) GetUserBadges(ctx context.Context, userID uint) ([]*models.UserBadge, error) {
	return c.inner.GetUserBadges(ctx, userID)
}

// Invalidate drops the cached catalog, for use by admin tooling after
// catalog changes.
func (c *CachedBadgeCatalog) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, badgeCatalogKey).Err()
}
