package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/safetylink/pv-backend/internal/audit"
	"github.com/safetylink/pv-backend/internal/config"
	"github.com/safetylink/pv-backend/internal/handler"
	"github.com/safetylink/pv-backend/internal/middleware"
	"github.com/safetylink/pv-backend/internal/pdf"
	"github.com/safetylink/pv-backend/internal/repository"
	"github.com/safetylink/pv-backend/internal/service"
	"github.com/safetylink/pv-backend/internal/storage"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize Zap logger
	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize database connection pool with pgx
	pool, err := pgxpool.New(context.Background(), cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Test database connection
	if err := pool.Ping(context.Background()); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Successfully connected to database")

	// Initialize report blob storage; without Azure credentials the
	// archive runs in memory
	var blobStore storage.BlobStore
	if cfg.HasStorageCredentials() {
		if cfg.Storage.ConnectionString != "" {
			blobStore, err = storage.NewBlobClientFromConnectionString(
				cfg.Storage.ConnectionString,
				cfg.Storage.ReportContainer,
				logger,
			)
		} else {
			blobStore, err = storage.NewBlobClient(
				cfg.Storage.AccountName,
				cfg.Storage.AccountKey,
				cfg.Storage.ReportContainer,
				logger,
			)
		}
		if err != nil {
			logger.Fatal("Failed to initialize blob storage client", zap.Error(err))
		}
	} else {
		logger.Warn("No storage credentials configured, using in-memory report archive")
		blobStore = storage.NewMockBlobClient(logger)
	}

	// Initialize repositories
	caseRepo := repository.NewCaseRepository(pool, logger)
	followUpRepo := repository.NewFollowUpRepository(pool, logger)
	reportRepo := repository.NewReportRepository(pool, logger)
	auditTrail := audit.NewTrail(pool, logger)

	// Initialize services
	intakeService := service.NewIntakeService(caseRepo, auditTrail, logger)
	followUpService := service.NewFollowUpService(followUpRepo, caseRepo, auditTrail, logger)
	clinicalService := service.NewClinicalService(followUpRepo, caseRepo, auditTrail, logger)
	dashboardService := service.NewDashboardService(caseRepo, logger)

	// Initialize PDF generator and report service
	pdfGenerator := pdf.NewPDFGenerator(logger)
	reportService := service.NewReportService(
		caseRepo,
		followUpRepo,
		auditTrail,
		reportRepo,
		blobStore,
		pdfGenerator,
		logger,
	)

	// Initialize handlers
	intakeHandler := handler.NewIntakeHandler(intakeService, logger)
	followUpHandler := handler.NewFollowUpHandler(followUpService, logger)
	clinicalHandler := handler.NewClinicalHandler(clinicalService, logger)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	healthHandler := handler.NewHealthHandler(pool, logger)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	r := gin.New()

	// Add recovery middleware (must be first)
	r.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Configure appropriately for production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add request ID middleware
	r.Use(middleware.RequestIDMiddleware())

	// Add request logging middleware
	r.Use(middleware.RequestLoggingMiddleware(logger))

	// Add error logging middleware
	r.Use(middleware.ErrorLoggingMiddleware(logger))

	// Register routes
	r.GET("/health", healthHandler.GetHealth)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/cases", intakeHandler.CreateCase)
		v1.GET("/cases", dashboardHandler.ListCases)
		v1.GET("/cases/:id", intakeHandler.GetCase)
		v1.GET("/cases/:id/audit", intakeHandler.GetAuditTrail)
		v1.POST("/cases/:id/followup", followUpHandler.StartFollowUp)
		v1.POST("/cases/:id/review", clinicalHandler.SubmitReview)
		v1.POST("/cases/:id/report", reportHandler.GenerateReport)
		v1.GET("/followups/:token", followUpHandler.OpenFollowUp)
		v1.POST("/followups/:token/responses", followUpHandler.SubmitResponses)
		v1.GET("/dashboard/summary", dashboardHandler.GetSummary)
		v1.GET("/reports/:id", reportHandler.DownloadReport)
	}

	// Periodically expire cases whose follow-up never completed
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if _, err := followUpService.ExpireOverdue(sweepCtx); err != nil {
					logger.Error("Follow-up expiry sweep failed", zap.Error(err))
				}
			}
		}
	}()

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
