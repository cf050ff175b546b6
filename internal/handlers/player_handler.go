package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pitchside/cricket-quiz-service/internal/repositories"
	"github.com/pitchside/cricket-quiz-service/internal/services"
	"github.com/pitchside/cricket-quiz-service/internal/utils"
)

type PlayerHandler struct {
	BaseHandler
	playerService services.PlayerService
	exportService services.ExportService
}

func NewPlayerHandler(
	playerService services.PlayerService,
	exportService services.ExportService,
	logger utils.Logger,
) *PlayerHandler {
	return &PlayerHandler{
		BaseHandler:   NewBaseHandler(logger),
		playerService: playerService,
		exportService: exportService,
	}
}

// GetProfile returns the caller's profile with aggregate attempt stats
func (h *PlayerHandler) GetProfile(c *gin.Context) {
	profile, err := h.playerService.Profile(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Profile retrieved successfully", profile)
}

// GetBadges returns every active badge with earned flag and progress
func (h *PlayerHandler) GetBadges(c *gin.Context) {
	badges, err := h.playerService.Badges(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Badges retrieved successfully", badges)
}

// GetQuizHistory returns the caller's attempt history, newest first
func (h *PlayerHandler) GetQuizHistory(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 20)
	offset := parseIntQuery(c, "offset", 0)

	scores, total, err := h.playerService.History(c.Request.Context(), currentUserID(c), limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Quiz history retrieved successfully", gin.H{
		"history": scores,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetLeaderboard returns top players by total points for a timeframe
func (h *PlayerHandler) GetLeaderboard(c *gin.Context) {
	filters := parseLeaderboardFilters(c)

	entries, err := h.playerService.Leaderboard(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Leaderboard retrieved successfully", gin.H{
		"timeframe":   filters.Timeframe,
		"leaderboard": entries,
	})
}

// ExportLeaderboard streams the leaderboard as an .xlsx download
func (h *PlayerHandler) ExportLeaderboard(c *gin.Context) {
	filters := parseLeaderboardFilters(c)

	data, err := h.exportService.ExportLeaderboard(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("leaderboard_%s_%s.xlsx", filters.Timeframe, time.Now().Format("2006-01-02"))
	writeWorkbook(c, filename, data)
}

// ExportQuizHistory streams the caller's attempt history as an .xlsx download
func (h *PlayerHandler) ExportQuizHistory(c *gin.Context) {
	data, err := h.exportService.ExportHistory(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("quiz_history_%s.xlsx", time.Now().Format("2006-01-02"))
	writeWorkbook(c, filename, data)
}

func writeWorkbook(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func parseLeaderboardFilters(c *gin.Context) repositories.LeaderboardFilters {
	filters := repositories.LeaderboardFilters{
		Timeframe: repositories.TimeframeAllTime,
		Limit:     parseIntQuery(c, "limit", 50),
	}

	switch repositories.LeaderboardTimeframe(c.Query("timeframe")) {
	case repositories.TimeframeWeekly:
		filters.Timeframe = repositories.TimeframeWeekly
	case repositories.TimeframeMonthly:
		filters.Timeframe = repositories.TimeframeMonthly
	}

	return filters
}

func (h *PlayerHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "User not found",
		})
	default:
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to process request", err)
	}
}
