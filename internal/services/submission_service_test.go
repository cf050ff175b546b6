package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pitchside/cricket-quiz-service/internal/events"
	"github.com/pitchside/cricket-quiz-service/internal/models"
	"github.com/pitchside/cricket-quiz-service/internal/progression"
	"github.com/pitchside/cricket-quiz-service/internal/repositories"
	"github.com/pitchside/cricket-quiz-service/internal/scoring"
	"github.com/pitchside/cricket-quiz-service/internal/utils"
	"github.com/pitchside/cricket-quiz-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ===== MOCKS =====

type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetActiveByID(ctx context.Context, id uint) (*models.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quiz), args.Error(1)
}

func (m *MockQuizRepository) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Quiz), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuizRepository) Categories(ctx context.Context) (map[models.QuizCategory]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[models.QuizCategory]int), args.Error(1)
}

func (m *MockQuizRepository) RecordCompletion(ctx context.Context, quizID uint, score int) error {
	args := m.Called(ctx, quizID, score)
	return args.Error(0)
}

func (m *MockQuizRepository) Leaderboard(ctx context.Context, quizID uint, limit int) ([]*repositories.QuizLeaderboardEntry, error) {
	args := m.Called(ctx, quizID, limit)
	return args.Get(0).([]*repositories.QuizLeaderboardEntry), args.Error(1)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) LoadProgression(ctx context.Context, userID uint) (progression.Snapshot, []uint, int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(progression.Snapshot), args.Get(1).([]uint), args.Get(2).(int64), args.Error(3)
}

func (m *MockUserStore) SaveProgression(ctx context.Context, snapshot progression.Snapshot, newBadgeIDs []uint, expectedRevision int64) error {
	args := m.Called(ctx, snapshot, newBadgeIDs, expectedRevision)
	return args.Error(0)
}

func (m *MockUserStore) History(ctx context.Context, userID uint, limit, offset int) ([]*models.QuizScore, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*models.QuizScore), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserStore) LatestScoreForQuiz(ctx context.Context, userID, quizID uint) (*models.QuizScore, error) {
	args := m.Called(ctx, userID, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizScore), args.Error(1)
}

func (m *MockUserStore) Leaderboard(ctx context.Context, filters repositories.LeaderboardFilters) ([]*repositories.LeaderboardEntry, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*repositories.LeaderboardEntry), args.Error(1)
}

type MockBadgeCatalog struct {
	mock.Mock
}

func (m *MockBadgeCatalog) ListActive(ctx context.Context) ([]*models.Badge, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Badge), args.Error(1)
}

func (m *MockBadgeCatalog) GetUserBadges(ctx context.Context, userID uint) ([]*models.UserBadge, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.UserBadge), args.Error(1)
}

type MockRepository struct {
	quiz *MockQuizRepository
	user *MockUserStore
}

func (m *MockRepository) Quiz() repositories.QuizRepository       { return m.quiz }
func (m *MockRepository) User() repositories.UserProgressionStore { return m.user }
func (m *MockRepository) Badge() repositories.BadgeCatalog        { return nil }
func (m *MockRepository) Ping(ctx context.Context) error          { return nil }
func (m *MockRepository) Close() error                            { return nil }

// ===== FIXTURES =====

func testQuiz() *models.Quiz {
	options, _ := json.Marshal([]string{"4", "5", "6", "8"})
	return &models.Quiz{
		ID:         1,
		Title:      "Cricket Basics",
		Category:   models.CategoryBatting,
		Difficulty: models.DifficultyEasy,
		TimeLimit:  10,
		IsActive:   true,
		Questions: []models.Question{
			{ID: 1, QuizID: 1, Order: 0, Prompt: "Max runs off one ball?", Options: options, CorrectAnswer: "6", Points: 10},
			{ID: 2, QuizID: 1, Order: 1, Prompt: "Balls per over?", Options: options, CorrectAnswer: "6", Points: 10},
		},
	}
}

func correctSubmission() *SubmitQuizRequest {
	return &SubmitQuizRequest{
		QuizID: 1,
		Answers: []scoring.SubmittedAnswer{
			{QuestionIndex: 0, SelectedAnswer: "6"},
			{QuestionIndex: 1, SelectedAnswer: "6"},
		},
		TimeSpent: 60,
	}
}

type submitFixture struct {
	service   SubmissionService
	quizRepo  *MockQuizRepository
	userStore *MockUserStore
	catalog   *MockBadgeCatalog
	publisher *events.MockEventPublisher
}

func newSubmitFixture(t *testing.T) *submitFixture {
	t.Helper()

	quizRepo := &MockQuizRepository{}
	userStore := &MockUserStore{}
	catalog := &MockBadgeCatalog{}
	publisher := events.NewMockEventPublisher()

	service := NewSubmissionService(
		&MockRepository{quiz: quizRepo, user: userStore},
		catalog,
		publisher,
		utils.NewDefaultLogger(),
		validator.New(),
		time.UTC,
	)

	return &submitFixture{
		service:   service,
		quizRepo:  quizRepo,
		userStore: userStore,
		catalog:   catalog,
		publisher: publisher,
	}
}

// ===== TESTS =====

func TestSubmit_HappyPath(t *testing.T) {
	f := newSubmitFixture(t)
	ctx := context.Background()

	f.quizRepo.On("GetByID", ctx, uint(1)).Return(testQuiz(), nil)
	f.catalog.On("ListActive", ctx).Return([]*models.Badge{}, nil)
	f.userStore.On("LoadProgression", ctx, uint(5)).
		Return(progression.NewSnapshot(5), []uint{}, int64(0), nil)
	f.userStore.On("SaveProgression", ctx, mock.Anything, []uint{}, int64(0)).Return(nil)
	f.quizRepo.On("RecordCompletion", ctx, uint(1), 20).Return(nil)

	resp, err := f.service.Submit(ctx, correctSubmission(), 5)
	require.NoError(t, err)

	assert.Equal(t, 20, resp.Score)
	assert.Equal(t, 100, resp.Percentage)
	assert.Equal(t, 20, resp.TotalPoints)
	assert.Equal(t, 1, resp.Level)
	assert.Equal(t, 1, resp.Streak)
	assert.False(t, resp.LevelledUp)
	assert.Empty(t, resp.EarnedBadges)

	completed := f.publisher.EventsOfType(events.EventQuizCompleted)
	require.Len(t, completed, 1)
	assert.Empty(t, f.publisher.EventsOfType(events.EventBadgeEarned))
	assert.Empty(t, f.publisher.EventsOfType(events.EventLevelUp))

	f.userStore.AssertExpectations(t)
	f.quizRepo.AssertExpectations(t)
}

func TestSubmit_AwardsBadgesAndBonusPoints(t *testing.T) {
	f := newSubmitFixture(t)
	ctx := context.Background()

	firstQuiz := &models.Badge{
		ID: 1, Name: "First Steps",
		CriteriaType: models.CriteriaQuizCount, CriteriaValue: 1,
		Rarity: models.RarityBronze, Points: 90, IsActive: true,
	}

	f.quizRepo.On("GetByID", ctx, uint(1)).Return(testQuiz(), nil)
	f.catalog.On("ListActive", ctx).Return([]*models.Badge{firstQuiz}, nil)
	f.userStore.On("LoadProgression", ctx, uint(5)).
		Return(progression.NewSnapshot(5), []uint{}, int64(0), nil)
	f.userStore.On("SaveProgression", ctx, mock.MatchedBy(func(s progression.Snapshot) bool {
		// 20 attempt points + 90 badge bonus, crossing the level threshold
		return s.TotalPoints == 110 && s.Level == 2
	}), []uint{1}, int64(0)).Return(nil)
	f.quizRepo.On("RecordCompletion", ctx, uint(1), 20).Return(nil)

	resp, err := f.service.Submit(ctx, correctSubmission(), 5)
	require.NoError(t, err)

	require.Len(t, resp.EarnedBadges, 1)
	assert.Equal(t, "First Steps", resp.EarnedBadges[0].Name)
	assert.Equal(t, 110, resp.TotalPoints)
	assert.Equal(t, 2, resp.Level)
	assert.True(t, resp.LevelledUp)

	assert.Len(t, f.publisher.EventsOfType(events.EventBadgeEarned), 1)
	assert.Len(t, f.publisher.EventsOfType(events.EventLevelUp), 1)
}

func TestSubmit_HeldBadgeNotReAwarded(t *testing.T) {
	f := newSubmitFixture(t)
	ctx := context.Background()

	firstQuiz := &models.Badge{
		ID: 1, Name: "First Steps",
		CriteriaType: models.CriteriaQuizCount, CriteriaValue: 1,
		Rarity: models.RarityBronze, Points: 10, IsActive: true,
	}
	snapshot := progression.NewSnapshot(5)
	snapshot.TotalPoints = 30
	snapshot.History = []models.QuizScore{{ID: 11, Score: 30, Percentage: 75}}

	f.quizRepo.On("GetByID", ctx, uint(1)).Return(testQuiz(), nil)
	f.catalog.On("ListActive", ctx).Return([]*models.Badge{firstQuiz}, nil)
	f.userStore.On("LoadProgression", ctx, uint(5)).
		Return(snapshot, []uint{1}, int64(3), nil)
	f.userStore.On("SaveProgression", ctx, mock.Anything, []uint{}, int64(3)).Return(nil)
	f.quizRepo.On("RecordCompletion", ctx, uint(1), 20).Return(nil)

	resp, err := f.service.Submit(ctx, correctSubmission(), 5)
	require.NoError(t, err)

	assert.Empty(t, resp.EarnedBadges)
	assert.Empty(t, f.publisher.EventsOfType(events.EventBadgeEarned))
}

func TestSubmit_QuizNotFound(t *testing.T) {
	f := newSubmitFixture(t)
	ctx := context.Background()

	f.quizRepo.On("GetByID", ctx, uint(1)).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.service.Submit(ctx, correctSubmission(), 5)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestSubmit_InactiveQuizRejected(t *testing.T) {
	f := newSubmitFixture(t)
	ctx := context.Background()

	quiz := testQuiz()
	quiz.IsActive = false
	f.quizRepo.On("GetByID", ctx, uint(1)).Return(quiz, nil)

	_, err := f.service.Submit(ctx, correctSubmission(), 5)
	assert.ErrorIs(t, err, ErrQuizInactive)
	assert.Empty(t, f.publisher.Events)
}

func TestSubmit_ValidationFailure(t *testing.T) {
	f := newSubmitFixture(t)

	req := &SubmitQuizRequest{QuizID: 1, TimeSpent: -5}
	_, err := f.service.Submit(context.Background(), req, 5)

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	f.quizRepo.AssertNotCalled(t, "GetByID")
}

func TestSubmit_RetriesOnRevisionConflict(t *testing.T) {
	f := newSubmitFixture(t)
	ctx := context.Background()

	f.quizRepo.On("GetByID", ctx, uint(1)).Return(testQuiz(), nil)
	f.catalog.On("ListActive", ctx).Return([]*models.Badge{}, nil)

	// First load sees revision 0; the save loses the race. The retry loads
	// the winner's state at revision 1 and succeeds.
	f.userStore.On("LoadProgression", ctx, uint(5)).
		Return(progression.NewSnapshot(5), []uint{}, int64(0), nil).Once()
	f.userStore.On("SaveProgression", ctx, mock.Anything, []uint{}, int64(0)).
		Return(repositories.ErrRevisionConflict).Once()

	fresh := progression.NewSnapshot(5)
	fresh.TotalPoints = 50
	fresh.History = []models.QuizScore{{ID: 9, Score: 50, Percentage: 100}}
	f.userStore.On("LoadProgression", ctx, uint(5)).
		Return(fresh, []uint{}, int64(1), nil).Once()
	f.userStore.On("SaveProgression", ctx, mock.MatchedBy(func(s progression.Snapshot) bool {
		// Re-applied on top of the fresh snapshot, not the stale one
		return s.TotalPoints == 70 && len(s.History) == 2
	}), []uint{}, int64(1)).Return(nil).Once()
	f.quizRepo.On("RecordCompletion", ctx, uint(1), 20).Return(nil)

	resp, err := f.service.Submit(ctx, correctSubmission(), 5)
	require.NoError(t, err)

	assert.Equal(t, 70, resp.TotalPoints)
	f.userStore.AssertExpectations(t)
}

func TestSubmit_ConflictRetriesExhausted(t *testing.T) {
	f := newSubmitFixture(t)
	ctx := context.Background()

	f.quizRepo.On("GetByID", ctx, uint(1)).Return(testQuiz(), nil)
	f.catalog.On("ListActive", ctx).Return([]*models.Badge{}, nil)
	f.userStore.On("LoadProgression", ctx, uint(5)).
		Return(progression.NewSnapshot(5), []uint{}, int64(0), nil)
	f.userStore.On("SaveProgression", ctx, mock.Anything, []uint{}, int64(0)).
		Return(repositories.ErrRevisionConflict)

	_, err := f.service.Submit(ctx, correctSubmission(), 5)
	assert.ErrorIs(t, err, ErrConcurrencyConflict)
	assert.True(t, IsServerError(err))

	f.userStore.AssertNumberOfCalls(t, "SaveProgression", 3)
	assert.Empty(t, f.publisher.Events)
}

func TestSubmit_UserNotFound(t *testing.T) {
	f := newSubmitFixture(t)
	ctx := context.Background()

	f.quizRepo.On("GetByID", ctx, uint(1)).Return(testQuiz(), nil)
	f.catalog.On("ListActive", ctx).Return([]*models.Badge{}, nil)
	f.userStore.On("LoadProgression", ctx, uint(5)).
		Return(progression.Snapshot{}, []uint{}, int64(0), gorm.ErrRecordNotFound)

	_, err := f.service.Submit(ctx, correctSubmission(), 5)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSubmit_StatsFailureDoesNotFailSubmission(t *testing.T) {
	f := newSubmitFixture(t)
	ctx := context.Background()

	f.quizRepo.On("GetByID", ctx, uint(1)).Return(testQuiz(), nil)
	f.catalog.On("ListActive", ctx).Return([]*models.Badge{}, nil)
	f.userStore.On("LoadProgression", ctx, uint(5)).
		Return(progression.NewSnapshot(5), []uint{}, int64(0), nil)
	f.userStore.On("SaveProgression", ctx, mock.Anything, []uint{}, int64(0)).Return(nil)
	f.quizRepo.On("RecordCompletion", ctx, uint(1), 20).Return(assert.AnError)

	resp, err := f.service.Submit(ctx, correctSubmission(), 5)
	require.NoError(t, err)
	assert.Equal(t, 20, resp.Score)
}
