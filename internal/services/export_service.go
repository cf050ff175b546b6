package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pitchside/cricket-quiz-service/internal/repositories"
	"github.com/pitchside/cricket-quiz-service/internal/utils"
	"github.com/xuri/excelize/v2"
)

type exportService struct {
	repo   repositories.Repository
	logger utils.Logger
}

func NewExportService(repo repositories.Repository, logger utils.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ExportLeaderboard renders the global leaderboard as an .xlsx workbook.
func (s *exportService) ExportLeaderboard(ctx context.Context, filters repositories.LeaderboardFilters) ([]byte, error) {
	s.logger.Info("Exporting leaderboard", "timeframe", filters.Timeframe)

	entries, err := s.repo.User().Leaderboard(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Leaderboard"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Rank", "Username", "Total Points", "Level", "Streak", "Quizzes"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, entry := range entries {
		values := []interface{}{entry.Rank, entry.Username, entry.TotalPoints, entry.Level, entry.Streak, entry.QuizCount}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportHistory renders a user's full attempt history as an .xlsx workbook,
// newest first.
func (s *exportService) ExportHistory(ctx context.Context, userID uint) ([]byte, error) {
	s.logger.Info("Exporting quiz history", "user_id", userID)

	scores, _, err := s.repo.User().History(ctx, userID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz history: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Quiz History"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Quiz ID", "Score", "Questions", "Correct", "Percentage", "Time Spent (s)", "Completed At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, score := range scores {
		values := []interface{}{
			score.QuizID,
			score.Score,
			score.TotalQuestions,
			score.CorrectAnswers,
			score.Percentage,
			score.TimeSpent,
			score.CompletedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
