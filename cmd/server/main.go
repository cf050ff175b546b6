package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pitchside/cricket-quiz-service/internal/cache"
	"github.com/pitchside/cricket-quiz-service/internal/config"
	"github.com/pitchside/cricket-quiz-service/internal/events"
	"github.com/pitchside/cricket-quiz-service/internal/handlers"
	"github.com/pitchside/cricket-quiz-service/internal/models"
	"github.com/pitchside/cricket-quiz-service/internal/repositories"
	"github.com/pitchside/cricket-quiz-service/internal/repositories/postgres"
	"github.com/pitchside/cricket-quiz-service/internal/seed"
	"github.com/pitchside/cricket-quiz-service/internal/services"
	"github.com/pitchside/cricket-quiz-service/internal/utils"
	"github.com/pitchside/cricket-quiz-service/internal/validator"
	"github.com/pitchside/cricket-quiz-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var slogger *slog.Logger
	if cfg.Environment == "production" {
		slogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
		gin.SetMode(gin.ReleaseMode)
	} else {
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	logger := utils.NewSlogLogger(slogger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Failed to connect to database")
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&models.Quiz{},
		&models.Question{},
		&models.User{},
		&models.QuizScore{},
		&models.Badge{},
		&models.UserBadge{},
	); err != nil {
		logger.LogError(err, "Failed to run migrations")
		os.Exit(1)
	}

	if cfg.SeedData {
		if err := seed.Run(context.Background(), db, logger); err != nil {
			logger.LogError(err, "Failed to seed data")
			os.Exit(1)
		}
	}

	repo := postgres.NewRepository(db)
	defer repo.Close()

	var catalog repositories.BadgeCatalog = repo.Badge()
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.LogError(err, "Redis unavailable, badge catalog cache disabled")
	} else {
		defer redisClient.Close()
		catalog = cache.NewCachedBadgeCatalog(repo.Badge(), redisClient, logger)
	}

	var publisher events.EventPublisher
	publisher, err = events.NewKafkaEventPublisher(events.PublisherConfig{
		KafkaBrokers: cfg.KafkaBrokers,
		TopicName:    cfg.EventTopic,
		Logger:       slogger,
	})
	if err != nil {
		logger.LogError(err, "Kafka unavailable, events disabled")
		publisher = events.NewNoopEventPublisher()
	}
	defer publisher.Close()

	serviceManager := services.NewServiceManager(
		repo,
		catalog,
		publisher,
		logger,
		validator.New(),
		cfg.StreakLocation(),
	)

	router := gin.Default()
	handlerManager := handlers.NewHandlerManager(serviceManager, logger)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "Server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.LogError(err, "Forced shutdown")
	}
}
