// Package badges evaluates achievement badge criteria against a user's
// progression snapshot. Evaluation is pure and side-effect free, so it is
// safe to call speculatively (badge progress previews) as well as after a
// scored attempt.
package badges

import (
	"github.com/pitchside/cricket-quiz-service/internal/models"
	"github.com/pitchside/cricket-quiz-service/internal/progression"
)

// criterionFunc reports whether a snapshot satisfies one criteria kind at the
// given threshold.
type criterionFunc func(snapshot progression.Snapshot, value int) bool

// criterionEvaluators dispatches on the badge's criteria type tag. Kinds
// absent from this map (including the reserved category_expert and
// speed_demon) are treated as never satisfied rather than dropped or
// rejected.
var criterionEvaluators = map[models.BadgeCriteriaType]criterionFunc{
	models.CriteriaTotalPoints: func(s progression.Snapshot, v int) bool {
		return s.TotalPoints >= v
	},
	models.CriteriaStreak: func(s progression.Snapshot, v int) bool {
		return s.Streak >= v
	},
	models.CriteriaQuizCount: func(s progression.Snapshot, v int) bool {
		return len(s.History) >= v
	},
	models.CriteriaPerfectScore: func(s progression.Snapshot, v int) bool {
		return s.PerfectScoreCount() >= v
	},
	// Satisfied by any single attempt ever, not just the latest one, so the
	// full history is re-checked on every call.
	models.CriteriaQuizScore: func(s progression.Snapshot, v int) bool {
		return s.BestSingleScore() >= v
	},
}

// HeldSet is the set of badge IDs a user already holds.
type HeldSet map[uint]struct{}

func NewHeldSet(ids []uint) HeldSet {
	set := make(HeldSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (h HeldSet) Contains(id uint) bool {
	_, ok := h[id]
	return ok
}

// IDs returns the held badge IDs in unspecified order.
func (h HeldSet) IDs() []uint {
	ids := make([]uint, 0, len(h))
	for id := range h {
		ids = append(ids, id)
	}
	return ids
}

// Qualify returns the catalog badges the snapshot newly qualifies for.
// Already-held badges are skipped, which makes awarding idempotent: once the
// caller unions the result into the held set, a second call with the same
// snapshot returns nothing.
func Qualify(snapshot progression.Snapshot, catalog []*models.Badge, held HeldSet) []*models.Badge {
	var qualified []*models.Badge
	for _, badge := range catalog {
		if held.Contains(badge.ID) {
			continue
		}
		if Satisfies(snapshot, badge) {
			qualified = append(qualified, badge)
		}
	}
	return qualified
}

// Satisfies evaluates one badge's criteria against the snapshot.
func Satisfies(snapshot progression.Snapshot, badge *models.Badge) bool {
	criteria := badge.Criteria()
	eval, ok := criterionEvaluators[criteria.Type]
	if !ok {
		return false
	}
	return eval(snapshot, criteria.Value)
}

// Progress reports how close a snapshot is to a badge's threshold as a 0-100
// percentage. Unimplementable criteria kinds report 0 until earned.
func Progress(snapshot progression.Snapshot, badge *models.Badge) int {
	criteria := badge.Criteria()
	if criteria.Value <= 0 {
		return 0
	}

	var current int
	switch criteria.Type {
	case models.CriteriaTotalPoints:
		current = snapshot.TotalPoints
	case models.CriteriaStreak:
		current = snapshot.Streak
	case models.CriteriaQuizCount:
		current = len(snapshot.History)
	case models.CriteriaPerfectScore:
		current = snapshot.PerfectScoreCount()
	case models.CriteriaQuizScore:
		current = snapshot.BestSingleScore()
	default:
		return 0
	}

	percent := current * 100 / criteria.Value
	if percent > 100 {
		percent = 100
	}
	return percent
}

// RewardPoints sums the reward point values of a badge set.
func RewardPoints(earned []*models.Badge) int {
	total := 0
	for _, badge := range earned {
		total += badge.Points
	}
	return total
}
