package main

import (
	"github.com/taskhub-dev/taskhub/internal/config"
	"github.com/taskhub-dev/taskhub/internal/handlers"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/services"
	"github.com/taskhub-dev/taskhub/internal/utils"
	"github.com/taskhub-dev/taskhub/pkg/logger"
	"gorm.io/gorm"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg       *config.Config
	db        *gorm.DB
	queue     services.DispatchQueue
	worker    *services.Worker
	scheduler *services.RetentionScheduler

	auditService *services.AuditLogService

	authHandler         *handlers.AuthHandler
	userHandler         *handlers.UserHandler
	projectHandler      *handlers.ProjectHandler
	taskHandler         *handlers.TaskHandler
	commentHandler      *handlers.CommentHandler
	notificationHandler *handlers.NotificationHandler
	dashboardHandler    *handlers.DashboardHandler
	auditLogHandler     *handlers.AuditLogHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)
	if cfg.UsingInsecureSecret() {
		logger.Warn().Msg("JWT_SECRET is not set, using the built-in development secret")
	}

	db, err := models.Open(&cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	emailService := services.NewEmailService(&cfg.SMTP)
	queue := services.InitDispatchQueue(cfg, emailService)
	notificationService := services.NewNotificationService(db)
	dispatcher := services.NewDispatcher(notificationService, queue, emailService)

	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.NewWorker(&cfg.Redis, emailService)
		if err := worker.Start(); err != nil {
			logger.Warn().Err(err).Msg("Failed to start async email worker")
			worker = nil
		}
	}

	authService := services.NewAuthService(db, &cfg.JWT)
	if err := authService.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	membershipService := services.NewMembershipService(db, dispatcher)
	projectService := services.NewProjectService(db, membershipService)
	taskService := services.NewTaskService(db, dispatcher)
	commentService := services.NewCommentService(db, dispatcher)
	userService := services.NewUserService(db)
	dashboardService := services.NewDashboardService(db)
	auditService := services.NewAuditLogService(db)

	scheduler := services.NewRetentionScheduler(db, cfg.Log.RetentionDays)
	if err := scheduler.Start(); err != nil {
		logger.Warn().Err(err).Msg("Failed to start retention scheduler")
		scheduler = nil
	}

	return &appServices{
		cfg:       cfg,
		db:        db,
		queue:     queue,
		worker:    worker,
		scheduler: scheduler,

		auditService: auditService,

		authHandler:         handlers.NewAuthHandler(authService, userService),
		userHandler:         handlers.NewUserHandler(userService),
		projectHandler:      handlers.NewProjectHandler(projectService, membershipService),
		taskHandler:         handlers.NewTaskHandler(taskService, membershipService),
		commentHandler:      handlers.NewCommentHandler(commentService, membershipService),
		notificationHandler: handlers.NewNotificationHandler(notificationService),
		dashboardHandler:    handlers.NewDashboardHandler(dashboardService),
		auditLogHandler:     handlers.NewAuditLogHandler(auditService, cfg.Log.RetentionDays),
	}
}

// shutdown gracefully stops all background services.
func (s *appServices) shutdown() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.queue != nil {
		s.queue.Close()
	}
	logger.Info().Msg("Background services stopped")
}
