package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mowgliph/pacta-api/internal/auth"
	"github.com/mowgliph/pacta-api/internal/config"
	"github.com/mowgliph/pacta-api/internal/database"
	"github.com/mowgliph/pacta-api/internal/http/handler"
	"github.com/mowgliph/pacta-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/mowgliph/pacta-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                 *config.Config
	logger              *zap.Logger
	db                  *gorm.DB
	authMiddleware      *auth.Middleware
	rateLimiter         *middleware.RateLimiter
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	clientHandler       *handler.ClientHandler
	supplierHandler     *handler.SupplierHandler
	signerHandler       *handler.SignerHandler
	contractHandler     *handler.ContractHandler
	supplementHandler   *handler.SupplementHandler
	documentHandler     *handler.DocumentHandler
	notificationHandler *handler.NotificationHandler
	reportHandler       *handler.ReportHandler
	auditHandler        *handler.AuditHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	clientHandler *handler.ClientHandler,
	supplierHandler *handler.SupplierHandler,
	signerHandler *handler.SignerHandler,
	contractHandler *handler.ContractHandler,
	supplementHandler *handler.SupplementHandler,
	documentHandler *handler.DocumentHandler,
	notificationHandler *handler.NotificationHandler,
	reportHandler *handler.ReportHandler,
	auditHandler *handler.AuditHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		db:                  db,
		authMiddleware:      authMiddleware,
		rateLimiter:         rateLimiter,
		authHandler:         authHandler,
		userHandler:         userHandler,
		clientHandler:       clientHandler,
		supplierHandler:     supplierHandler,
		signerHandler:       signerHandler,
		contractHandler:     contractHandler,
		supplementHandler:   supplementHandler,
		documentHandler:     documentHandler,
		notificationHandler: notificationHandler,
		reportHandler:       reportHandler,
		auditHandler:        auditHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(r.Context(), rt.db)
		if err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(r.Context(), rt.db); err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		status := "healthy"
		if !allHealthy {
			status = "unhealthy"
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/login", rt.authHandler.Login)
		r.Post("/auth/register", rt.authHandler.Register)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)

			// Users
			r.Route("/users", func(r chi.Router) {
				r.Get("/", rt.userHandler.List)
				r.Post("/", rt.userHandler.Create)
				r.Put("/me/password", rt.userHandler.ChangePassword)
				r.Get("/{id}", rt.userHandler.GetByID)
				r.Put("/{id}", rt.userHandler.Update)
				r.Delete("/{id}", rt.userHandler.Delete)
			})

			// Clients
			r.Route("/clients", func(r chi.Router) {
				r.Get("/", rt.clientHandler.List)
				r.Post("/", rt.clientHandler.Create)
				r.Get("/{id}", rt.clientHandler.GetByID)
				r.Put("/{id}", rt.clientHandler.Update)
				r.Delete("/{id}", rt.clientHandler.Delete)
				r.Get("/{id}/signers", rt.clientHandler.ListSigners)
			})

			// Suppliers
			r.Route("/suppliers", func(r chi.Router) {
				r.Get("/", rt.supplierHandler.List)
				r.Post("/", rt.supplierHandler.Create)
				r.Get("/{id}", rt.supplierHandler.GetByID)
				r.Put("/{id}", rt.supplierHandler.Update)
				r.Delete("/{id}", rt.supplierHandler.Delete)
				r.Get("/{id}/signers", rt.supplierHandler.ListSigners)
			})

			// Authorized signers
			r.Route("/signers", func(r chi.Router) {
				r.Post("/", rt.signerHandler.Create)
				r.Get("/{id}", rt.signerHandler.GetByID)
				r.Put("/{id}", rt.signerHandler.Update)
				r.Delete("/{id}", rt.signerHandler.Delete)
			})

			// Contracts
			r.Route("/contracts", func(r chi.Router) {
				r.Get("/", rt.contractHandler.List)
				r.Post("/", rt.contractHandler.Create)
				r.Get("/{id}", rt.contractHandler.GetByID)
				r.Put("/{id}", rt.contractHandler.Update)
				r.Delete("/{id}", rt.contractHandler.Delete)
				r.Get("/{id}/supplements", rt.contractHandler.ListSupplements)
				r.Post("/{id}/supplements", rt.contractHandler.CreateSupplement)
				r.Get("/{id}/documents", rt.documentHandler.ListByContract)
				r.Post("/{id}/documents", rt.documentHandler.Upload)
				r.Get("/{id}/notifications", rt.notificationHandler.ListByContract)
				r.Get("/{id}/audit-logs", rt.contractHandler.ListAuditLogs)
			})

			// Supplements
			r.Route("/supplements", func(r chi.Router) {
				r.Get("/{id}", rt.supplementHandler.GetByID)
				r.Put("/{id}", rt.supplementHandler.Update)
				r.Delete("/{id}", rt.supplementHandler.Delete)
			})

			// Documents
			r.Route("/documents", func(r chi.Router) {
				r.Get("/{id}/download", rt.documentHandler.Download)
				r.Delete("/{id}", rt.documentHandler.Delete)
			})

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.List)
				r.Get("/unread-count", rt.notificationHandler.UnreadCount)
				r.Get("/settings", rt.notificationHandler.GetSettings)
				r.Put("/settings", rt.notificationHandler.UpdateSettings)
				r.Post("/{id}/read", rt.notificationHandler.MarkAsRead)
				r.Post("/{id}/acknowledge", rt.notificationHandler.MarkAsAcknowledged)
			})

			// Reports
			r.Route("/reports", func(r chi.Router) {
				r.Get("/status", rt.reportHandler.StatusDistribution)
				r.Get("/parties", rt.reportHandler.PartyReport)
				r.Get("/expirations", rt.reportHandler.ExpirationReport)
				r.Get("/financial", rt.reportHandler.FinancialReport)
				r.Get("/supplements", rt.reportHandler.SupplementReport)
				r.Get("/modifications", rt.reportHandler.ModificationReport)
			})

			// Audit logs
			r.Route("/audit-logs", func(r chi.Router) {
				r.Get("/", rt.auditHandler.List)
				r.Get("/stats", rt.auditHandler.GetStats)
			})
		})
	})

	return r
}
