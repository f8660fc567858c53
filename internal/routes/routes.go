package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"medminder/internal/app"
	"medminder/internal/auth"
	"medminder/internal/config"
	"medminder/internal/handlers"
	"medminder/internal/metrics"
	"medminder/internal/middleware"
	"medminder/internal/utils"
	"medminder/internal/view"
)

// Deps are the components the routes are served from.
type Deps struct {
	Cfg        *config.Config
	Sessions   *auth.Session
	Workspaces *app.Manager
	Renderer   *view.Renderer
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, d Deps) {
	if err := utils.RegisterValidations(); err != nil {
		d.Logger.Error("Failed to register validations", zap.Error(err))
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(d.Sessions, d.Workspaces, d.Renderer, d.Cfg, d.Logger)
	pageHandler := handlers.NewPageHandler(d.Renderer, d.Logger)
	medicationHandler := handlers.NewMedicationHandler()
	appointmentHandler := handlers.NewAppointmentHandler()
	familyHandler := handlers.NewFamilyHandler()
	recordHandler := handlers.NewRecordHandler(d.Logger)

	// Public routes (no authentication required)
	router.GET("/login", authHandler.LoginPage)
	authRoutes := router.Group("/auth")
	authRoutes.Use(middleware.RateLimit(d.Cfg.Auth.RateLimitPerMinute))
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// Authenticated routes
	private := router.Group("")
	private.Use(middleware.AuthMiddleware(d.Cfg.Auth.JWTSecret, d.Sessions, d.Workspaces, d.Logger))
	{
		private.GET("/", pageHandler.Index)
		private.POST("/auth/logout", authHandler.Logout)
		private.POST("/enter", pageHandler.Enter)
		private.POST("/view/:view", pageHandler.Navigate)
		private.POST("/language", pageHandler.SetLanguage)
		private.POST("/edit/cancel", pageHandler.CancelEdit)
		private.GET("/api/state", pageHandler.State)

		medicationRoutes := private.Group("/medications")
		{
			medicationRoutes.POST("", medicationHandler.Create)
			medicationRoutes.POST("/:id", medicationHandler.Update)
			medicationRoutes.POST("/:id/edit", medicationHandler.Edit)
			medicationRoutes.POST("/:id/toggle", medicationHandler.Toggle)
			medicationRoutes.POST("/:id/delete", medicationHandler.Delete)
		}
		private.GET("/api/medications", medicationHandler.List)

		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", appointmentHandler.Create)
			appointmentRoutes.POST("/:id", appointmentHandler.Update)
			appointmentRoutes.POST("/:id/edit", appointmentHandler.Edit)
			appointmentRoutes.POST("/:id/toggle", appointmentHandler.Toggle)
			appointmentRoutes.POST("/:id/delete", appointmentHandler.Delete)
		}
		private.GET("/api/appointments", appointmentHandler.List)

		familyRoutes := private.Group("/family")
		{
			familyRoutes.POST("", familyHandler.Create)
			familyRoutes.POST("/:id", familyHandler.Update)
			familyRoutes.POST("/:id/edit", familyHandler.Edit)
			familyRoutes.POST("/:id/delete", familyHandler.Delete)
			familyRoutes.POST("/:id/details", pageHandler.ShowMemberDetails)
		}
		private.GET("/api/family", familyHandler.List)

		recordRoutes := private.Group("/records")
		{
			recordRoutes.POST("", recordHandler.Create)
			recordRoutes.GET("/:id/file", recordHandler.Download)
			recordRoutes.POST("/:id/delete", recordHandler.Delete)
		}
		private.GET("/api/records", recordHandler.List)

		private.POST("/notifications/permission", pageHandler.RequestNotifications)
		private.GET("/api/notifications", pageHandler.Notifications)
	}

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
}
