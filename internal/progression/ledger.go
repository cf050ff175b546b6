// Package progression folds score results into a user's cumulative
// progression state. All functions are pure: they take a snapshot and return
// a new one, never touching storage. The submission service owns the
// read-modify-write boundary and calls Apply exactly once per genuine
// attempt.
package progression

import (
	"math"
	"time"

	"github.com/pitchside/cricket-quiz-service/internal/models"
	"github.com/pitchside/cricket-quiz-service/internal/scoring"
)

// Snapshot is the point-in-time progression state of one user.
type Snapshot struct {
	UserID           uint
	TotalPoints      int
	Level            int
	Streak           int
	LastActivityDate *time.Time
	History          []models.QuizScore
}

// NewSnapshot is the progression state of a freshly created user.
func NewSnapshot(userID uint) Snapshot {
	return Snapshot{
		UserID: userID,
		Level:  1,
	}
}

// Apply folds one score result into the snapshot and returns the updated
// copy. The input snapshot is not modified.
//
// TotalPoints only ever grows, Level is recomputed from the new total, and
// the streak is updated on calendar-day granularity: a first-ever attempt
// starts the streak at 1, a same-day repeat leaves it unchanged, a
// consecutive-day attempt extends it, and a gap of more than one day restarts
// it at 1.
func Apply(snapshot Snapshot, quizID uint, result *scoring.ScoreResult, now time.Time, loc *time.Location) Snapshot {
	if loc == nil {
		loc = time.UTC
	}

	next := snapshot
	next.History = make([]models.QuizScore, len(snapshot.History), len(snapshot.History)+1)
	copy(next.History, snapshot.History)
	next.History = append(next.History, models.QuizScore{
		UserID:         snapshot.UserID,
		QuizID:         quizID,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		CorrectAnswers: result.CorrectAnswers,
		TimeSpent:      result.TimeSpent,
		Percentage:     result.Percentage,
		CompletedAt:    now,
	})

	next.TotalPoints = snapshot.TotalPoints + result.Score
	next.Level = models.LevelForPoints(next.TotalPoints)

	today := truncateToDay(now, loc)
	switch {
	case snapshot.LastActivityDate == nil:
		next.Streak = 1
	default:
		switch daysBetween(truncateToDay(*snapshot.LastActivityDate, loc), today) {
		case 0:
			next.Streak = snapshot.Streak
		case 1:
			next.Streak = snapshot.Streak + 1
		default:
			next.Streak = 1
		}
	}
	next.LastActivityDate = &today

	return next
}

// WithBonusPoints adds badge reward points to the snapshot and recomputes the
// level so bonus points count toward it.
func WithBonusPoints(snapshot Snapshot, bonus int) Snapshot {
	if bonus <= 0 {
		return snapshot
	}
	next := snapshot
	next.TotalPoints += bonus
	next.Level = models.LevelForPoints(next.TotalPoints)
	return next
}

// PerfectScoreCount counts history records with a 100% percentage.
func (s Snapshot) PerfectScoreCount() int {
	count := 0
	for i := range s.History {
		if s.History[i].Percentage == 100 {
			count++
		}
	}
	return count
}

// BestSingleScore returns the highest score of any single attempt.
func (s Snapshot) BestSingleScore() int {
	best := 0
	for i := range s.History {
		if s.History[i].Score > best {
			best = s.History[i].Score
		}
	}
	return best
}

func truncateToDay(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// daysBetween counts calendar days between two midnight-truncated instants.
// Rounding absorbs the 23h/25h days around DST transitions.
func daysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}
