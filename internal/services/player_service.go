package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/pitchside/cricket-quiz-service/internal/badges"
	"github.com/pitchside/cricket-quiz-service/internal/models"
	"github.com/pitchside/cricket-quiz-service/internal/repositories"
	"github.com/pitchside/cricket-quiz-service/internal/utils"
)

type playerService struct {
	repo    repositories.Repository
	catalog repositories.BadgeCatalog
	logger  utils.Logger
}

func NewPlayerService(repo repositories.Repository, catalog repositories.BadgeCatalog, logger utils.Logger) PlayerService {
	return &playerService{repo: repo, catalog: catalog, logger: logger}
}

func (s *playerService) Profile(ctx context.Context, userID uint) (*PlayerProfile, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	snapshot, _, _, err := s.repo.User().LoadProgression(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progression: %w", err)
	}

	return &PlayerProfile{
		User:  user,
		Stats: statsFromHistory(snapshot.History),
	}, nil
}

// Badges lists every active badge with the user's earned flag, the earned
// date where one exists, and a 0-100 progress percentage. This is the
// speculative, side-effect-free use of the badge evaluator.
func (s *playerService) Badges(ctx context.Context, userID uint) ([]*BadgeProgress, error) {
	snapshot, heldIDs, _, err := s.repo.User().LoadProgression(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load progression: %w", err)
	}

	catalog, err := s.catalog.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load badge catalog: %w", err)
	}

	awards, err := s.catalog.GetUserBadges(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load earned badges: %w", err)
	}
	earnedAt := make(map[uint]time.Time, len(awards))
	for _, award := range awards {
		earnedAt[award.BadgeID] = award.EarnedAt
	}

	held := badges.NewHeldSet(heldIDs)
	result := make([]*BadgeProgress, 0, len(catalog))
	for _, badge := range catalog {
		bp := &BadgeProgress{Badge: badge, Earned: held.Contains(badge.ID)}
		if bp.Earned {
			bp.Progress = 100
			if at, ok := earnedAt[badge.ID]; ok {
				bp.EarnedAt = &at
			}
		} else {
			bp.Progress = badges.Progress(snapshot, badge)
		}
		result = append(result, bp)
	}

	return result, nil
}

func (s *playerService) History(ctx context.Context, userID uint, limit, offset int) ([]*models.QuizScore, int64, error) {
	scores, total, err := s.repo.User().History(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get quiz history: %w", err)
	}
	return scores, total, nil
}

func (s *playerService) Leaderboard(ctx context.Context, filters repositories.LeaderboardFilters) ([]*repositories.LeaderboardEntry, error) {
	entries, err := s.repo.User().Leaderboard(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return entries, nil
}

func statsFromHistory(history []models.QuizScore) PlayerStats {
	stats := PlayerStats{TotalQuizzes: len(history)}
	if len(history) == 0 {
		return stats
	}

	totalScore, totalPercentage := 0, 0
	for i := range history {
		record := &history[i]
		totalScore += record.Score
		totalPercentage += record.Percentage
		stats.TotalTimeSpent += record.TimeSpent
		if record.Score > stats.BestScore {
			stats.BestScore = record.Score
		}
	}

	count := float64(len(history))
	stats.AverageScore = int(math.Round(float64(totalScore) / count))
	stats.AveragePercentage = int(math.Round(float64(totalPercentage) / count))

	return stats
}
