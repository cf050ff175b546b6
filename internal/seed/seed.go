// Package seed loads a starter badge catalog and a handful of sample quizzes
// into an empty development database. Seeding is idempotent: it is skipped
// when any quiz already exists.
package seed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pitchside/cricket-quiz-service/internal/models"
	"github.com/pitchside/cricket-quiz-service/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type seedQuestion struct {
	prompt      string
	options     []string
	correct     string
	explanation string
	points      int
}

type seedQuiz struct {
	title       string
	description string
	category    models.QuizCategory
	difficulty  models.DifficultyLevel
	timeLimit   int
	questions   []seedQuestion
}

// Run inserts the starter catalog unless the database already holds quizzes.
func Run(ctx context.Context, db *gorm.DB, logger utils.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Quiz{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing data: %w", err)
	}
	if count > 0 {
		logger.Info("Seed skipped, quizzes already present", "count", count)
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, sq := range sampleQuizzes() {
			quiz, err := buildQuiz(sq)
			if err != nil {
				return err
			}
			if err := tx.Create(quiz).Error; err != nil {
				return fmt.Errorf("failed to seed quiz %q: %w", sq.title, err)
			}
		}

		badges := sampleBadges()
		for i := range badges {
			if err := tx.Create(&badges[i]).Error; err != nil {
				return fmt.Errorf("failed to seed badge %q: %w", badges[i].Name, err)
			}
		}

		logger.Info("Seed data loaded", "quizzes", len(sampleQuizzes()), "badges", len(badges))
		return nil
	})
}

func buildQuiz(sq seedQuiz) (*models.Quiz, error) {
	quiz := &models.Quiz{
		Title:       sq.title,
		Description: sq.description,
		Category:    sq.category,
		Difficulty:  sq.difficulty,
		TimeLimit:   sq.timeLimit,
		IsActive:    true,
	}

	for i, q := range sq.questions {
		options, err := json.Marshal(q.options)
		if err != nil {
			return nil, fmt.Errorf("failed to encode options for %q: %w", sq.title, err)
		}
		quiz.Questions = append(quiz.Questions, models.Question{
			Order:         i,
			Prompt:        q.prompt,
			Options:       datatypes.JSON(options),
			CorrectAnswer: q.correct,
			Explanation:   q.explanation,
			Points:        q.points,
		})
	}

	return quiz, nil
}

func sampleBadges() []models.Badge {
	return []models.Badge{
		{
			Name:          "First Steps",
			Description:   "Complete your first quiz",
			CriteriaType:  models.CriteriaQuizCount,
			CriteriaValue: 1,
			Icon:          "🏏",
			Rarity:        models.RarityBronze,
			Points:        10,
			IsActive:      true,
		},
		{
			Name:          "Quiz Master",
			Description:   "Complete 10 quizzes",
			CriteriaType:  models.CriteriaQuizCount,
			CriteriaValue: 10,
			Icon:          "📚",
			Rarity:        models.RaritySilver,
			Points:        50,
			IsActive:      true,
		},
		{
			Name:          "Century Maker",
			Description:   "Score 100 points in a single quiz",
			CriteriaType:  models.CriteriaQuizScore,
			CriteriaValue: 100,
			Icon:          "💯",
			Rarity:        models.RarityGold,
			Points:        100,
			IsActive:      true,
		},
		{
			Name:          "Perfect Game",
			Description:   "Score 100% in a quiz",
			CriteriaType:  models.CriteriaPerfectScore,
			CriteriaValue: 1,
			Icon:          "⭐",
			Rarity:        models.RarityGold,
			Points:        150,
			IsActive:      true,
		},
		{
			Name:          "Streak Champion",
			Description:   "Maintain a 7-day streak",
			CriteriaType:  models.CriteriaStreak,
			CriteriaValue: 7,
			Icon:          "🔥",
			Rarity:        models.RaritySilver,
			Points:        75,
			IsActive:      true,
		},
		{
			Name:          "Point Collector",
			Description:   "Accumulate 1000 total points",
			CriteriaType:  models.CriteriaTotalPoints,
			CriteriaValue: 1000,
			Icon:          "💎",
			Rarity:        models.RarityPlatinum,
			Points:        200,
			IsActive:      true,
		},
	}
}

func sampleQuizzes() []seedQuiz {
	return []seedQuiz{
		{
			title:       "Cricket Batting Fundamentals",
			description: "Test your knowledge of cricket batting techniques and rules",
			category:    models.CategoryBatting,
			difficulty:  models.DifficultyEasy,
			timeLimit:   10,
			questions: []seedQuestion{
				{
					prompt:      "What is the maximum number of runs a batsman can score off a single ball without any extras?",
					options:     []string{"4", "5", "6", "8"},
					correct:     "6",
					explanation: "A batsman can score a maximum of 6 runs off a single ball by hitting a six.",
					points:      10,
				},
				{
					prompt:      "Which shot is played to a ball pitched on the leg side?",
					options:     []string{"Cover drive", "Leg glance", "Cut shot", "Pull shot"},
					correct:     "Leg glance",
					explanation: "A leg glance is played to balls on the leg side, deflecting them behind square.",
					points:      10,
				},
				{
					prompt:      "What does LBW stand for in cricket?",
					options:     []string{"Leg Before Wicket", "Left Behind Wicket", "Late Bowling Warning", "Line Ball Wide"},
					correct:     "Leg Before Wicket",
					explanation: "LBW stands for Leg Before Wicket, a method of dismissal.",
					points:      10,
				},
				{
					prompt:      "How many ways can a batsman get out in cricket?",
					options:     []string{"8", "10", "11", "12"},
					correct:     "10",
					explanation: "There are 10 ways to get out: bowled, caught, LBW, run out, stumped, hit wicket, handled ball, obstructing field, hit ball twice, and timed out.",
					points:      15,
				},
				{
					prompt:      "What is a 'duck' in cricket?",
					options:     []string{"A type of shot", "Getting out for zero runs", "A fielding position", "A bowling style"},
					correct:     "Getting out for zero runs",
					explanation: "A 'duck' refers to a batsman getting out without scoring any runs.",
					points:      10,
				},
			},
		},
		{
			title:       "Cricket Bowling Mastery",
			description: "Challenge yourself with questions about cricket bowling techniques and strategies",
			category:    models.CategoryBowling,
			difficulty:  models.DifficultyMedium,
			timeLimit:   15,
			questions: []seedQuestion{
				{
					prompt:      "What is a 'yorker' in cricket bowling?",
					options:     []string{"A ball that bounces twice", "A ball pitched at the batsman's feet", "A ball that doesn't bounce", "A ball bowled over arm"},
					correct:     "A ball pitched at the batsman's feet",
					explanation: "A yorker is a ball pitched right at the batsman's feet, making it very difficult to score runs.",
					points:      15,
				},
				{
					prompt:      "How many balls are bowled in one over in cricket?",
					options:     []string{"4", "5", "6", "8"},
					correct:     "6",
					explanation: "An over consists of 6 balls bowled consecutively by the same bowler from one end.",
					points:      10,
				},
				{
					prompt:      "What is the maximum number of bouncers allowed per over in ODI cricket?",
					options:     []string{"1", "2", "3", "No limit"},
					correct:     "2",
					explanation: "In ODI cricket, a maximum of 2 bouncers per over are allowed.",
					points:      15,
				},
				{
					prompt:      "Which type of bowling involves making the ball swing in the air?",
					options:     []string{"Spin bowling", "Fast bowling", "Medium pace", "Swing bowling"},
					correct:     "Swing bowling",
					explanation: "Swing bowling involves making the ball move through the air due to seam position and atmospheric conditions.",
					points:      15,
				},
				{
					prompt:      "What is a 'maiden over'?",
					options:     []string{"An over with 6 wickets", "An over with no runs scored", "The first over of an innings", "An over bowled by a debutant"},
					correct:     "An over with no runs scored",
					explanation: "A maiden over is one in which no runs are scored off the bat.",
					points:      10,
				},
			},
		},
		{
			title:       "Cricket History & Legends",
			description: "Explore the rich history of cricket and its legendary players",
			category:    models.CategoryHistory,
			difficulty:  models.DifficultyHard,
			timeLimit:   20,
			questions: []seedQuestion{
				{
					prompt:      "Who scored the first double century in ODI cricket?",
					options:     []string{"Sachin Tendulkar", "Rohit Sharma", "Virender Sehwag", "Martin Guptill"},
					correct:     "Sachin Tendulkar",
					explanation: "Sachin Tendulkar scored the first double century (200*) in ODI cricket against South Africa in 2010.",
					points:      20,
				},
				{
					prompt:      "Which country won the first Cricket World Cup in 1975?",
					options:     []string{"Australia", "West Indies", "England", "India"},
					correct:     "West Indies",
					explanation: "The West Indies won the first Cricket World Cup held in England in 1975.",
					points:      15,
				},
				{
					prompt:      "Who holds the record for most runs in Test cricket?",
					options:     []string{"Sachin Tendulkar", "Ricky Ponting", "Jacques Kallis", "Rahul Dravid"},
					correct:     "Sachin Tendulkar",
					explanation: "Sachin Tendulkar holds the record for most runs in Test cricket with 15,921 runs.",
					points:      15,
				},
				{
					prompt:      "In which year was the first Test match played?",
					options:     []string{"1877", "1882", "1890", "1900"},
					correct:     "1877",
					explanation: "The first Test match was played between Australia and England at Melbourne in 1877.",
					points:      25,
				},
				{
					prompt:      "Who was known as 'The Don' in cricket?",
					options:     []string{"Don Bradman", "Don Tallon", "Allan Donald", "Don Wilson"},
					correct:     "Don Bradman",
					explanation: "Sir Don Bradman was known as 'The Don' and is considered the greatest batsman of all time.",
					points:      15,
				},
			},
		},
	}
}
