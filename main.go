package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"medminder/internal/app"
	"medminder/internal/auth"
	"medminder/internal/config"
	"medminder/internal/metrics"
	"medminder/internal/notify"
	"medminder/internal/routes"
	"medminder/internal/service"
	"medminder/internal/store"
	"medminder/internal/view"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	// Load environment variables; the .env file is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	// Initialize configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	backend, err := openBackend(cfg)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer backend.Close()

	renderer, err := view.NewRenderer()
	if err != nil {
		logger.Fatal("Failed to parse templates", zap.Error(err))
	}

	m := metrics.New()
	states := store.NewStateStore(backend)
	sessions := auth.NewSession(states, auth.Options{
		Latency: cfg.Auth.Latency,
		Logger:  logger.Named("auth"),
		Metrics: m,
	})
	workspaces := app.NewManager(states, app.Options{
		Service: service.Options{
			Latency:      cfg.Service.Latency,
			MaxFileBytes: cfg.Uploads.MaxFileBytes,
		},
		Notify: notify.Config{
			CheckInterval:    cfg.Notifications.CheckInterval,
			MedicationWindow: cfg.Notifications.MedicationWindow,
			OverdueWindow:    cfg.Notifications.OverdueWindow,
			RefireWindow:     cfg.Notifications.RefireWindow,
			AppointmentLead:  cfg.Notifications.AppointmentLead,
		},
		Logger:  logger.Named("app"),
		Metrics: m,
	})
	defer workspaces.Close()

	// Resume the session of the user who was logged in at shutdown
	if current, ok, err := sessions.Current(context.Background()); err != nil {
		logger.Warn("Failed to read current user", zap.Error(err))
	} else if ok {
		if _, err := workspaces.Activate(context.Background(), current.ID); err != nil {
			logger.Warn("Failed to resume workspace", zap.String("user_id", current.ID), zap.Error(err))
		}
	}

	// Initialize Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger.Named("http")))
	router.MaxMultipartMemory = cfg.Uploads.MaxFileBytes + (1 << 20)

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, routes.Deps{
		Cfg:        cfg,
		Sessions:   sessions,
		Workspaces: workspaces,
		Renderer:   renderer,
		Metrics:    m,
		Logger:     logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.Storage.Backend),
	)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func openBackend(cfg *config.Config) (store.Backend, error) {
	switch cfg.Storage.Backend {
	case "badger":
		return store.OpenBadger(cfg.Storage.BadgerPath)
	default:
		return store.OpenSQL(cfg.Database)
	}
}

// requestLogger logs one structured line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
