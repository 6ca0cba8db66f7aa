package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chinookvaluation/dashboard/api/internal/clickup"
	"github.com/chinookvaluation/dashboard/api/internal/config"
	"github.com/chinookvaluation/dashboard/api/internal/database"
	"github.com/chinookvaluation/dashboard/api/internal/docuseal"
	"github.com/chinookvaluation/dashboard/api/internal/email"
	"github.com/chinookvaluation/dashboard/api/internal/handlers"
	"github.com/chinookvaluation/dashboard/api/internal/jobsync"
	"github.com/chinookvaluation/dashboard/api/internal/logger"
	"github.com/chinookvaluation/dashboard/api/internal/middleware"
	"github.com/chinookvaluation/dashboard/api/internal/repository"
	"github.com/chinookvaluation/dashboard/api/internal/services"
	"github.com/chinookvaluation/dashboard/api/internal/valcre"
	"github.com/gin-gonic/gin"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting dashboard API", map[string]interface{}{
		"version":     "0.1.0",
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"valcre_env":  cfg.Valcre.Environment,
	})

	// Create database connection pool
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Initialize repositories
	jobRepo := repository.NewJobRepository(db)
	detailRepo := repository.NewDetailRepository(db)
	fileRepo := repository.NewJobFileRepository(db)
	profileRepo := repository.NewClientProfileRepository(db)

	// Initialize external integration clients
	valcreClient := valcre.New(cfg.Valcre, log)
	orchestrator := jobsync.New(valcreClient, log)
	taskClient := clickup.New(cfg.ClickUp, log)
	signClient := docuseal.New(cfg.DocuSeal, log)
	emailSender := email.New(cfg.Email, log)

	// Initialize service and handlers
	jobService := services.NewJobService(
		jobRepo, detailRepo, fileRepo, profileRepo,
		orchestrator, taskClient, signClient, emailSender,
		log,
	)
	jobHandler := handlers.NewJobHandler(jobService)

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	{
		jobs := v1.Group("/jobs")
		{
			jobs.POST("", jobHandler.Submit)
			jobs.GET("", jobHandler.List)
			jobs.GET("/:id", jobHandler.Get)
			jobs.PATCH("/:id", jobHandler.Update)
			jobs.DELETE("/:id", jobHandler.Delete)
			jobs.PUT("/:id/loe", jobHandler.UpsertLOE)
			jobs.PUT("/:id/property-info", jobHandler.UpsertPropertyInfo)
			jobs.POST("/:id/sync", jobHandler.Sync)
			jobs.POST("/:id/send-loe", jobHandler.SendLOE)
			jobs.POST("/:id/status", jobHandler.UpdateStatus)
		}
		v1.GET("/clients/:email/profile", jobHandler.ClientProfile)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
