package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/prp-platform/prp-api/internal/config"
	"github.com/prp-platform/prp-api/internal/database"
	"github.com/prp-platform/prp-api/internal/handler"
	"github.com/prp-platform/prp-api/internal/middleware"
	"github.com/prp-platform/prp-api/internal/models"
	"github.com/prp-platform/prp-api/internal/repository"
	"github.com/prp-platform/prp-api/internal/router"
	"github.com/prp-platform/prp-api/internal/service"
	cloud "github.com/prp-platform/prp-api/pkg/cloudinary"
	"github.com/prp-platform/prp-api/pkg/gitclient"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.ProfileAccessGrant{},
		&models.Group{},
		&models.Project{},
		&models.Task{},
		&models.Repository{},
		&models.Evaluation{},
		&models.EvaluationCriterion{},
		&models.Feedback{},
		&models.FeedbackResponse{},
		&models.Review{},
		&models.Announcement{},
		&models.Notification{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	gitClient, err := gitclient.New(gitclient.Config{
		BaseURL: cfg.GitDaemonURL,
		Token:   cfg.GitDaemonToken,
		Timeout: cfg.GitDaemonTimeout,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create git daemon client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	repoRepo := repository.NewRepoRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, redisClient, cfg.EventChannelBase, natsConn, validate, logger)
	activityService := service.NewActivityService(activityRepo, logger)
	profileService := service.NewProfileService(userRepo, uploader, validate, cfg.ProfilePhotoMaxMB, logger)
	projectService := service.NewProjectService(projectRepo, activityService, logger)
	taskService := service.NewTaskService(taskRepo, logger)
	repoBrowserService := service.NewRepoBrowserService(repoRepo, gitClient, logger)
	evaluationService := service.NewEvaluationService(evaluationRepo, notificationService, validate, logger)
	feedbackService := service.NewFeedbackService(feedbackRepo, notificationService, validate, logger)
	reviewService := service.NewReviewService(reviewRepo, redisClient, cfg.RatingStatsCacheTTL, validate, logger)
	announcementService := service.NewAnnouncementService(announcementRepo, redisClient, cfg.AnnouncementCacheTTL, validate, logger)
	dashboardService := service.NewDashboardService(projectRepo, taskRepo, evaluationRepo, feedbackRepo, logger)
	searchService := service.NewSearchService(userRepo, projectRepo, repoRepo, logger)

	userHandler := handler.NewUserHandler(profileService, projectService, taskService, reviewService, activityService, notificationService, logger)
	projectHandler := handler.NewProjectHandler(projectService, taskService, feedbackService, logger)
	repoHandler := handler.NewRepoHandler(repoBrowserService, logger)
	studentHandler := handler.NewStudentHandler(dashboardService, logger)
	advisorHandler := handler.NewAdvisorHandler(dashboardService, projectService, logger)
	evaluatorHandler := handler.NewEvaluatorHandler(dashboardService, evaluationService, logger)
	announcementHandler := handler.NewAnnouncementHandler(announcementService, logger)
	searchHandler := handler.NewSearchHandler(searchService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		UserHandler:         userHandler,
		ProjectHandler:      projectHandler,
		RepoHandler:         repoHandler,
		StudentHandler:      studentHandler,
		AdvisorHandler:      advisorHandler,
		EvaluatorHandler:    evaluatorHandler,
		AnnouncementHandler: announcementHandler,
		SearchHandler:       searchHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	runCtx, stopConsumers := context.WithCancel(context.Background())
	defer stopConsumers()
	notificationService.Start(runCtx)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
