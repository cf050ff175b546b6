package badges

import (
	"testing"

	"github.com/pitchside/cricket-quiz-service/internal/models"
	"github.com/pitchside/cricket-quiz-service/internal/progression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func badge(id uint, kind models.BadgeCriteriaType, value int, points int) *models.Badge {
	return &models.Badge{
		ID:            id,
		Name:          string(kind),
		CriteriaType:  kind,
		CriteriaValue: value,
		Points:        points,
		IsActive:      true,
	}
}

func snapshotWith(points, streak int, scores ...models.QuizScore) progression.Snapshot {
	return progression.Snapshot{
		UserID:      1,
		TotalPoints: points,
		Level:       models.LevelForPoints(points),
		Streak:      streak,
		History:     scores,
	}
}

func TestSatisfies_EachCriteriaKind(t *testing.T) {
	snapshot := snapshotWith(1000, 7,
		models.QuizScore{Score: 100, Percentage: 100},
		models.QuizScore{Score: 40, Percentage: 80},
	)

	tests := []struct {
		name      string
		badge     *models.Badge
		satisfied bool
	}{
		{"total points met", badge(1, models.CriteriaTotalPoints, 1000, 0), true},
		{"total points not met", badge(2, models.CriteriaTotalPoints, 1001, 0), false},
		{"streak met", badge(3, models.CriteriaStreak, 7, 0), true},
		{"streak not met", badge(4, models.CriteriaStreak, 8, 0), false},
		{"quiz count met", badge(5, models.CriteriaQuizCount, 2, 0), true},
		{"quiz count not met", badge(6, models.CriteriaQuizCount, 3, 0), false},
		{"perfect score met", badge(7, models.CriteriaPerfectScore, 1, 0), true},
		{"perfect score not met", badge(8, models.CriteriaPerfectScore, 2, 0), false},
		{"single quiz score met", badge(9, models.CriteriaQuizScore, 100, 0), true},
		{"single quiz score not met", badge(10, models.CriteriaQuizScore, 101, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.satisfied, Satisfies(snapshot, tt.badge))
		})
	}
}

func TestSatisfies_ReservedKindsNeverSatisfied(t *testing.T) {
	// A maxed-out snapshot still cannot earn badges with reserved criteria.
	snapshot := snapshotWith(1_000_000, 365,
		models.QuizScore{Score: 500, Percentage: 100},
	)

	assert.False(t, Satisfies(snapshot, badge(1, models.CriteriaCategoryExpert, 1, 0)))
	assert.False(t, Satisfies(snapshot, badge(2, models.CriteriaSpeedDemon, 1, 0)))
	assert.False(t, Satisfies(snapshot, badge(3, models.BadgeCriteriaType("made_up"), 1, 0)))
}

func TestSatisfies_QuizScoreChecksFullHistory(t *testing.T) {
	// The qualifying attempt is not the latest one.
	snapshot := snapshotWith(140, 1,
		models.QuizScore{Score: 100, Percentage: 100},
		models.QuizScore{Score: 40, Percentage: 50},
	)

	assert.True(t, Satisfies(snapshot, badge(1, models.CriteriaQuizScore, 100, 0)))
}

func TestQualify_SkipsHeldBadges(t *testing.T) {
	snapshot := snapshotWith(500, 3, models.QuizScore{Score: 50, Percentage: 100})
	catalog := []*models.Badge{
		badge(1, models.CriteriaQuizCount, 1, 10),
		badge(2, models.CriteriaTotalPoints, 500, 50),
		badge(3, models.CriteriaStreak, 10, 25),
	}

	first := Qualify(snapshot, catalog, NewHeldSet(nil))
	require.Len(t, first, 2)

	// Awarding is idempotent: once the earned badges join the held set, the
	// same snapshot qualifies for nothing.
	held := NewHeldSet([]uint{first[0].ID, first[1].ID})
	second := Qualify(snapshot, catalog, held)
	assert.Empty(t, second)
}

func TestQualify_FirstQuizBadge(t *testing.T) {
	snapshot := snapshotWith(10, 1, models.QuizScore{Score: 10, Percentage: 50})
	catalog := []*models.Badge{badge(1, models.CriteriaQuizCount, 1, 10)}

	earned := Qualify(snapshot, catalog, NewHeldSet(nil))
	require.Len(t, earned, 1)
	assert.Equal(t, uint(1), earned[0].ID)
}

func TestHeldSet(t *testing.T) {
	held := NewHeldSet([]uint{3, 5})

	assert.True(t, held.Contains(3))
	assert.True(t, held.Contains(5))
	assert.False(t, held.Contains(4))
	assert.ElementsMatch(t, []uint{3, 5}, held.IDs())
}

func TestProgress(t *testing.T) {
	snapshot := snapshotWith(250, 3,
		models.QuizScore{Score: 60, Percentage: 100},
		models.QuizScore{Score: 40, Percentage: 80},
	)

	tests := []struct {
		name     string
		badge    *models.Badge
		expected int
	}{
		{"total points partial", badge(1, models.CriteriaTotalPoints, 1000, 0), 25},
		{"total points capped", badge(2, models.CriteriaTotalPoints, 200, 0), 100},
		{"streak partial", badge(3, models.CriteriaStreak, 7, 0), 42},
		{"quiz count partial", badge(4, models.CriteriaQuizCount, 10, 0), 20},
		{"perfect score", badge(5, models.CriteriaPerfectScore, 2, 0), 50},
		{"quiz score partial", badge(6, models.CriteriaQuizScore, 100, 0), 60},
		{"reserved kind reports zero", badge(7, models.CriteriaSpeedDemon, 5, 0), 0},
		{"zero threshold reports zero", badge(8, models.CriteriaQuizCount, 0, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Progress(snapshot, tt.badge))
		})
	}
}

func TestRewardPoints(t *testing.T) {
	earned := []*models.Badge{
		badge(1, models.CriteriaQuizCount, 1, 10),
		badge(2, models.CriteriaStreak, 7, 75),
	}

	assert.Equal(t, 85, RewardPoints(earned))
	assert.Equal(t, 0, RewardPoints(nil))
}
