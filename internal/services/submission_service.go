package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pitchside/cricket-quiz-service/internal/badges"
	"github.com/pitchside/cricket-quiz-service/internal/events"
	"github.com/pitchside/cricket-quiz-service/internal/models"
	"github.com/pitchside/cricket-quiz-service/internal/progression"
	"github.com/pitchside/cricket-quiz-service/internal/repositories"
	"github.com/pitchside/cricket-quiz-service/internal/scoring"
	"github.com/pitchside/cricket-quiz-service/internal/utils"
	"github.com/pitchside/cricket-quiz-service/internal/validator"
)

// maxSubmitRetries bounds the optimistic-concurrency retry loop. Two
// concurrent submissions by the same user (double-click, retried request)
// race on the user revision; the loser re-runs the pure stages against the
// fresh snapshot.
const maxSubmitRetries = 3

type submissionService struct {
	repo      repositories.Repository
	catalog   repositories.BadgeCatalog
	publisher events.EventPublisher
	logger    utils.Logger
	validator *validator.Validator
	streakLoc *time.Location
	now       func() time.Time
}

// NewSubmissionService builds the orchestrator that turns a raw submission
// into persisted progression state. catalog may be a cached decorator over
// the badge repository.
func NewSubmissionService(
	repo repositories.Repository,
	catalog repositories.BadgeCatalog,
	publisher events.EventPublisher,
	logger utils.Logger,
	v *validator.Validator,
	streakLoc *time.Location,
) SubmissionService {
	if streakLoc == nil {
		streakLoc = time.UTC
	}
	return &submissionService{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
		validator: v,
		streakLoc: streakLoc,
		now:       time.Now,
	}
}

// Submit runs one attempt through the scoring pipeline:
// load quiz -> evaluate answers -> apply progression -> evaluate badges ->
// persist under optimistic concurrency -> record quiz stats -> respond.
// Everything before persistence is pure and leaves no state on failure.
func (s *submissionService) Submit(ctx context.Context, req *SubmitQuizRequest, userID uint) (*SubmitQuizResponse, error) {
	s.logger.Info("Submitting quiz attempt",
		"quiz_id", req.QuizID,
		"user_id", userID,
		"answers_count", len(req.Answers))

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, req.QuizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	if !quiz.IsActive {
		return nil, ErrQuizInactive
	}

	submission := &scoring.Submission{Answers: req.Answers, TimeSpent: req.TimeSpent}
	result, err := scoring.Evaluate(quiz, submission)
	if err != nil {
		return nil, err
	}

	catalog, err := s.catalog.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load badge catalog: %w", err)
	}

	now := s.now()
	var outcome *submissionOutcome
	for attempt := 0; attempt < maxSubmitRetries; attempt++ {
		outcome, err = s.applyAndPersist(ctx, quiz.ID, userID, result, catalog, now)
		if err == nil {
			break
		}
		if !errors.Is(err, repositories.ErrRevisionConflict) {
			break
		}
		s.logger.Warn("Submission revision conflict, retrying",
			"user_id", userID,
			"quiz_id", quiz.ID,
			"attempt", attempt+1)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrRevisionConflict) {
			return nil, ErrConcurrencyConflict
		}
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	// Aggregate quiz statistics are informational; a failure here never
	// invalidates the recorded attempt.
	if err := s.repo.Quiz().RecordCompletion(ctx, quiz.ID, result.Score); err != nil {
		s.logger.LogError(err, "Failed to update quiz statistics", "quiz_id", quiz.ID)
	}

	s.publishEvents(ctx, quiz.ID, userID, result, outcome)

	s.logger.Info("Quiz attempt recorded",
		"quiz_id", quiz.ID,
		"user_id", userID,
		"score", result.Score,
		"new_badges", len(outcome.earned))

	return s.buildResponse(result, outcome), nil
}

type submissionOutcome struct {
	before progression.Snapshot
	after  progression.Snapshot
	earned []*badgeAward
}

type badgeAward struct {
	id     uint
	name   string
	rarity models.BadgeRarity
	points int
}

// applyAndPersist is one iteration of the read-modify-write cycle: it loads
// a fresh snapshot, re-runs the pure stages and tries to save at the loaded
// revision.
func (s *submissionService) applyAndPersist(
	ctx context.Context,
	quizID, userID uint,
	result *scoring.ScoreResult,
	catalog []*models.Badge,
	now time.Time,
) (*submissionOutcome, error) {
	snapshot, heldIDs, revision, err := s.repo.User().LoadProgression(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := progression.Apply(snapshot, quizID, result, now, s.streakLoc)

	held := badges.NewHeldSet(heldIDs)
	newlyEarned := badges.Qualify(next, catalog, held)

	// Badge reward points count toward the level too.
	next = progression.WithBonusPoints(next, badges.RewardPoints(newlyEarned))

	newBadgeIDs := make([]uint, 0, len(newlyEarned))
	awards := make([]*badgeAward, 0, len(newlyEarned))
	for _, b := range newlyEarned {
		newBadgeIDs = append(newBadgeIDs, b.ID)
		awards = append(awards, &badgeAward{
			id:     b.ID,
			name:   b.Name,
			rarity: b.Rarity,
			points: b.Points,
		})
	}

	if err := s.repo.User().SaveProgression(ctx, next, newBadgeIDs, revision); err != nil {
		return nil, err
	}

	return &submissionOutcome{before: snapshot, after: next, earned: awards}, nil
}

func (s *submissionService) publishEvents(ctx context.Context, quizID, userID uint, result *scoring.ScoreResult, outcome *submissionOutcome) {
	if s.publisher == nil {
		return
	}

	publish := func(event *events.Event) {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.LogError(err, "Failed to publish event", "event_type", event.Type)
		}
	}

	publish(events.NewEvent(events.EventQuizCompleted, events.QuizCompletedEvent{
		UserID:     userID,
		QuizID:     quizID,
		Score:      result.Score,
		Percentage: result.Percentage,
		Streak:     outcome.after.Streak,
	}))

	for _, award := range outcome.earned {
		publish(events.NewEvent(events.EventBadgeEarned, events.BadgeEarnedEvent{
			UserID:    userID,
			BadgeID:   award.id,
			BadgeName: award.name,
			Rarity:    string(award.rarity),
			Points:    award.points,
		}))
	}

	if outcome.after.Level > outcome.before.Level {
		publish(events.NewEvent(events.EventLevelUp, events.LevelUpEvent{
			UserID:      userID,
			OldLevel:    outcome.before.Level,
			NewLevel:    outcome.after.Level,
			TotalPoints: outcome.after.TotalPoints,
		}))
	}
}

func (s *submissionService) buildResponse(result *scoring.ScoreResult, outcome *submissionOutcome) *SubmitQuizResponse {
	earnedBadges := make([]EarnedBadge, 0, len(outcome.earned))
	for _, award := range outcome.earned {
		earnedBadges = append(earnedBadges, EarnedBadge{
			Name:   award.name,
			Rarity: award.rarity,
			Points: award.points,
		})
	}

	return &SubmitQuizResponse{
		ScoreResult:  *result,
		EarnedBadges: earnedBadges,
		TotalPoints:  outcome.after.TotalPoints,
		Level:        outcome.after.Level,
		Streak:       outcome.after.Streak,
		LevelledUp:   outcome.after.Level > outcome.before.Level,
	}
}
