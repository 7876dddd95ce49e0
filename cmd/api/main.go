package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mowgliph/pacta-api/docs"
	"github.com/mowgliph/pacta-api/internal/auth"
	"github.com/mowgliph/pacta-api/internal/config"
	"github.com/mowgliph/pacta-api/internal/database"
	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/http/handler"
	"github.com/mowgliph/pacta-api/internal/http/middleware"
	"github.com/mowgliph/pacta-api/internal/http/router"
	"github.com/mowgliph/pacta-api/internal/jobs"
	"github.com/mowgliph/pacta-api/internal/logger"
	"github.com/mowgliph/pacta-api/internal/repository"
	"github.com/mowgliph/pacta-api/internal/service"
	"github.com/mowgliph/pacta-api/internal/storage"
	"go.uber.org/zap"
)

// @title Pacta API
// @version 1.0
// @description Contract lifecycle management API covering contracts, supplements, parties, documents and expiration alerts
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token
// @Security BearerAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.App.Port)

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.App.Environment == "development" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to run auto migrations: %w", err)
		}
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	signerRepo := repository.NewSignerRepository(db)
	contractRepo := repository.NewContractRepository(db)
	supplementRepo := repository.NewSupplementRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	settingsSeed := domain.SeedNotificationSettings(cfg.Notifications.DefaultEnabled, cfg.Notifications.DefaultThresholds)
	settingsRepo := repository.NewNotificationSettingsRepository(db, settingsSeed)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	permissionService := service.NewPermissionService(log)
	auditLogService := service.NewAuditLogService(auditLogRepo, permissionService, log)
	tokenManager := auth.NewTokenManager(&cfg.Auth)
	authService := service.NewAuthService(userRepo, tokenManager, auditLogService, log)
	userService := service.NewUserService(userRepo, permissionService, log)
	clientService := service.NewClientService(clientRepo, permissionService, log)
	supplierService := service.NewSupplierService(supplierRepo, permissionService, log)
	signerService := service.NewSignerService(signerRepo, clientRepo, supplierRepo, permissionService, log)
	contractService := service.NewContractService(contractRepo, clientRepo, supplierRepo, permissionService, auditLogService, log)
	supplementService := service.NewSupplementService(supplementRepo, contractRepo, permissionService, auditLogService, log)
	documentService := service.NewDocumentService(documentRepo, contractRepo, fileStorage, permissionService, auditLogService, cfg.Storage.MaxUploadSizeMB, log)
	notificationService := service.NewNotificationService(notificationRepo, settingsRepo, contractRepo, permissionService, log)
	reportService := service.NewReportService(contractRepo, supplementRepo, permissionService, auditLogService, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, permissionService, log)
	userHandler := handler.NewUserHandler(userService, log)
	clientHandler := handler.NewClientHandler(clientService, signerService, log)
	supplierHandler := handler.NewSupplierHandler(supplierService, signerService, log)
	signerHandler := handler.NewSignerHandler(signerService, log)
	contractHandler := handler.NewContractHandler(contractService, supplementService, auditLogService, log)
	supplementHandler := handler.NewSupplementHandler(supplementService, log)
	documentHandler := handler.NewDocumentHandler(documentService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)
	reportHandler := handler.NewReportHandler(reportService, log)
	auditHandler := handler.NewAuditHandler(auditLogService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		userHandler,
		clientHandler,
		supplierHandler,
		signerHandler,
		contractHandler,
		supplementHandler,
		documentHandler,
		notificationHandler,
		reportHandler,
		auditHandler,
	)

	// Start scheduler for the expiration alert scan
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)
		if err := jobs.RegisterExpirationJob(
			scheduler,
			notificationService,
			log,
			cfg.Jobs.ExpirationScanSchedule,
			jobs.DefaultScanTimeout,
			cfg.Jobs.RunScanOnStartup,
		); err != nil {
			log.Error("Failed to register expiration scan job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started",
				zap.String("cron_expr", cfg.Jobs.ExpirationScanSchedule),
				zap.Bool("run_on_startup", cfg.Jobs.RunScanOnStartup),
			)
		}
	} else {
		log.Info("Background jobs disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
