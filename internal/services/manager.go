package services

import (
	"time"

	"github.com/pitchside/cricket-quiz-service/internal/events"
	"github.com/pitchside/cricket-quiz-service/internal/repositories"
	"github.com/pitchside/cricket-quiz-service/internal/utils"
	"github.com/pitchside/cricket-quiz-service/internal/validator"
)

type serviceManager struct {
	submission SubmissionService
	quiz       QuizService
	player     PlayerService
	export     ExportService
}

// NewServiceManager wires every service against the shared repository,
// badge catalog and event publisher.
func NewServiceManager(
	repo repositories.Repository,
	catalog repositories.BadgeCatalog,
	publisher events.EventPublisher,
	logger utils.Logger,
	v *validator.Validator,
	streakLoc *time.Location,
) ServiceManager {
	return &serviceManager{
		submission: NewSubmissionService(repo, catalog, publisher, logger, v, streakLoc),
		quiz:       NewQuizService(repo, logger),
		player:     NewPlayerService(repo, catalog, logger),
		export:     NewExportService(repo, logger),
	}
}

func (m *serviceManager) Submission() SubmissionService { return m.submission }
func (m *serviceManager) Quiz() QuizService             { return m.quiz }
func (m *serviceManager) Player() PlayerService         { return m.player }
func (m *serviceManager) Export() ExportService         { return m.export }
