package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/pitchside/cricket-quiz-service/internal/services"
	"github.com/pitchside/cricket-quiz-service/internal/utils"
)

type HandlerManager struct {
	quizHandler   *QuizHandler
	playerHandler *PlayerHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		quizHandler:   NewQuizHandler(serviceManager.Quiz(), serviceManager.Submission(), logger),
		playerHandler: NewPlayerHandler(serviceManager.Player(), serviceManager.Export(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(UserIdentity())
	{
		// Quiz routes
		quizzes := v1.Group("/quizzes")
		{
			quizzes.GET("", hm.quizHandler.ListQuizzes)
			quizzes.GET("/categories", hm.quizHandler.GetCategories)
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.POST("/:id/submit", hm.quizHandler.SubmitQuiz)
			quizzes.GET("/:id/results", hm.quizHandler.GetQuizResults)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/profile", hm.playerHandler.GetProfile)
			users.GET("/badges", hm.playerHandler.GetBadges)
			users.GET("/quiz-history", hm.playerHandler.GetQuizHistory)
			users.GET("/quiz-history/export", hm.playerHandler.ExportQuizHistory)
			users.GET("/leaderboard", hm.playerHandler.GetLeaderboard)
			users.GET("/leaderboard/export", hm.playerHandler.ExportLeaderboard)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "cricket-quiz-service",
		})
	})
}
