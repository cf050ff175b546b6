package services

import (
	"context"
	"fmt"

	"github.com/pitchside/cricket-quiz-service/internal/models"
	"github.com/pitchside/cricket-quiz-service/internal/repositories"
	"github.com/pitchside/cricket-quiz-service/internal/utils"
)

type quizService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewQuizService(repo repositories.Repository, logger utils.Logger) QuizService {
	return &quizService{repo: repo, logger: logger}
}

// List returns active quizzes with answers stripped from the payload.
func (s *quizService) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	quizzes, total, err := s.repo.Quiz().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list quizzes: %w", err)
	}

	for _, quiz := range quizzes {
		stripAnswers(quiz)
	}

	return quizzes, total, nil
}

func (s *quizService) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	quiz, err := s.repo.Quiz().GetActiveByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// Distinguish a missing quiz from an inactive one.
			if _, inactiveErr := s.repo.Quiz().GetByID(ctx, id); inactiveErr == nil {
				return nil, ErrQuizInactive
			}
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	stripAnswers(quiz)
	return quiz, nil
}

func (s *quizService) Categories(ctx context.Context) (map[models.QuizCategory]int, error) {
	categories, err := s.repo.Quiz().Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

// Results returns the user's latest attempt for a quiz together with the
// per-quiz top-10 leaderboard. Explanations are included here, after the
// attempt.
func (s *quizService) Results(ctx context.Context, quizID, userID uint) (*QuizResultsResponse, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	userScore, err := s.repo.User().LatestScoreForQuiz(ctx, userID, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNoAttemptsFound
		}
		return nil, fmt.Errorf("failed to get user score: %w", err)
	}

	leaderboard, err := s.repo.Quiz().Leaderboard(ctx, quizID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz leaderboard: %w", err)
	}

	return &QuizResultsResponse{
		Quiz:        quiz,
		UserScore:   userScore,
		Leaderboard: leaderboard,
	}, nil
}

// stripAnswers removes correct answers and explanations before a quiz is
// handed to a client that has not completed it.
func stripAnswers(quiz *models.Quiz) {
	for i := range quiz.Questions {
		quiz.Questions[i].CorrectAnswer = ""
		quiz.Questions[i].Explanation = ""
	}
}
