package main

import (
	"github.com/gin-gonic/gin"
	"github.com/taskhub-dev/taskhub/internal/middleware"
	"github.com/taskhub-dev/taskhub/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(svc.cfg.CORS.AllowedOrigin))

	// Rate limiter for the public auth routes
	authLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "taskhub"})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.Audit(svc.auditService))
		{
			// Profile
			protected.GET("/profile", svc.authHandler.Profile)
			protected.PUT("/profile", svc.authHandler.UpdateProfile)
			protected.GET("/users/:id/role", svc.userHandler.GetRole)

			// Projects
			protected.GET("/projects", svc.projectHandler.List)
			protected.POST("/projects", svc.projectHandler.Create)
			protected.GET("/projects/:id", svc.projectHandler.GetByID)
			protected.PUT("/projects/:id", svc.projectHandler.Update)
			protected.DELETE("/projects/:id", svc.projectHandler.Delete)

			// Members
			protected.GET("/projects/:id/members", svc.projectHandler.ListMembers)
			protected.POST("/projects/:id/members", svc.projectHandler.AddMember)
			protected.DELETE("/projects/:id/members/:userId", svc.projectHandler.RemoveMember)

			// Tasks
			protected.GET("/projects/:id/tasks", svc.taskHandler.List)
			protected.POST("/projects/:id/tasks", svc.taskHandler.Create)
			protected.PUT("/tasks/:id", svc.taskHandler.Update)
			protected.DELETE("/tasks/:id", svc.taskHandler.Delete)

			// Comments
			protected.GET("/tasks/:id/comments", svc.commentHandler.List)
			protected.POST("/tasks/:id/comments", svc.commentHandler.Add)
			protected.DELETE("/comments/:id", svc.commentHandler.Delete)

			// Notifications
			protected.GET("/notifications", svc.notificationHandler.List)
			protected.PUT("/notifications/read-all", svc.notificationHandler.MarkAllRead)
			protected.PUT("/notifications/:id/read", svc.notificationHandler.MarkRead)
			protected.DELETE("/notifications/:id", svc.notificationHandler.Delete)

			// Dashboard
			protected.GET("/dashboard/stats", svc.dashboardHandler.Stats)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.Audit(svc.auditService))
		{
			admin.GET("/users", svc.userHandler.List)
			admin.DELETE("/users/:id", svc.userHandler.Delete)

			admin.GET("/audit-logs", svc.auditLogHandler.List)
			admin.POST("/audit-logs/cleanup", svc.auditLogHandler.Cleanup)
		}
	}
}
