package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pitchside/cricket-quiz-service/internal/models"
	"github.com/pitchside/cricket-quiz-service/internal/repositories"
	"github.com/pitchside/cricket-quiz-service/internal/services"
	"github.com/pitchside/cricket-quiz-service/internal/utils"
)

type QuizHandler struct {
	BaseHandler
	quizService       services.QuizService
	submissionService services.SubmissionService
}

func NewQuizHandler(
	quizService services.QuizService,
	submissionService services.SubmissionService,
	logger utils.Logger,
) *QuizHandler {
	return &QuizHandler{
		BaseHandler:       NewBaseHandler(logger),
		quizService:       quizService,
		submissionService: submissionService,
	}
}

// ListQuizzes returns active quizzes, filterable by category and difficulty.
// Correct answers never appear in the payload.
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	filters := h.parseQuizFilters(c)

	quizzes, total, err := h.quizService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Quizzes retrieved successfully", gin.H{
		"quizzes": quizzes,
		"total":   total,
		"limit":   filters.Limit,
		"offset":  filters.Offset,
	})
}

// GetQuiz returns a single playable quiz with answers stripped
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID := ParseUintParam(c, "id")
	if quizID == 0 {
		return
	}

	quiz, err := h.quizService.GetByID(c.Request.Context(), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Quiz retrieved successfully", quiz)
}

// GetCategories returns the active quiz count per category
func (h *QuizHandler) GetCategories(c *gin.Context) {
	categories, err := h.quizService.Categories(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Categories retrieved successfully", categories)
}

// SubmitQuiz scores an attempt and applies progression for the caller
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	quizID := ParseUintParam(c, "id")
	if quizID == 0 {
		return
	}

	var req services.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.QuizID = quizID

	resp, err := h.submissionService.Submit(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Quiz submitted successfully", resp)
}

// GetQuizResults returns the caller's latest attempt plus the per-quiz
// leaderboard, with correct answers and explanations included for review.
func (h *QuizHandler) GetQuizResults(c *gin.Context) {
	quizID := ParseUintParam(c, "id")
	if quizID == 0 {
		return
	}

	results, err := h.quizService.Results(c.Request.Context(), quizID, currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Quiz results retrieved successfully", results)
}

func (h *QuizHandler) parseQuizFilters(c *gin.Context) repositories.QuizFilters {
	filters := repositories.QuizFilters{
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
	}

	if raw := c.Query("category"); raw != "" {
		category := models.QuizCategory(raw)
		filters.Category = &category
	}
	if raw := c.Query("difficulty"); raw != "" {
		difficulty := models.DifficultyLevel(raw)
		filters.Difficulty = &difficulty
	}

	return filters
}

func (h *QuizHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var validationError *services.ValidationError
	if errors.As(err, &validationError) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationError,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrQuizNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Quiz not found",
		})
	case errors.Is(err, services.ErrQuizInactive):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Quiz is not available",
		})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "User not found",
		})
	case errors.Is(err, services.ErrNoAttemptsFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "No attempt found for this quiz",
		})
	case services.IsServerError(err):
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to process request", err)
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
