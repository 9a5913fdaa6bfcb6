package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pipetrack/pipetrack-backend/internal/factory/handler"
	"github.com/pipetrack/pipetrack-backend/internal/factory/repository"
	"github.com/pipetrack/pipetrack-backend/internal/factory/service"
	"github.com/pipetrack/pipetrack-backend/pkg/config"
	"github.com/pipetrack/pipetrack-backend/pkg/database"
	"github.com/pipetrack/pipetrack-backend/pkg/httputil"
	"github.com/pipetrack/pipetrack-backend/pkg/logger"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("factory-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("factory-service", cfg.Server.Environment)
	log.Info().Msg("starting Factory Service")

	// Open database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	// Run migrations
	if err := repository.Migrate(context.Background(), db, log); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Initialize repositories
	labelRepo := repository.NewLabelRepository(db)
	shipmentRepo := repository.NewShipmentRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Initialize services
	printer := service.NewLogPrinter(log)
	labelService := service.NewLabelService(labelRepo, printer, log)
	reportService := service.NewReportService(reportRepo, db, log)

	// Initialize handlers
	labelHandler := handler.NewLabelHandler(labelService, log)
	shipmentHandler := handler.NewShipmentHandler(shipmentRepo, log)
	reportHandler := handler.NewReportHandler(reportService, log)
	exportHandler := handler.NewExportHandler(reportService, log)
	adminHandler := handler.NewAdminHandler(labelService, reportService, cfg.Retention.MaxAgeDays, log)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS - the UI runs on the factory LAN, typically a dev server or a
	// kiosk on the same host
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "factory-service",
			"database": db.Health(r.Context()),
		})
	})

	adminOnly := httputil.AdminAuth(cfg.Admin.Password)

	// API routes. The shop-floor flows (label creation, printing, scanning,
	// shipment creation) are open on the factory LAN; reporting, exports,
	// shipment history/reversal and maintenance require the admin password.
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/labels", func(r chi.Router) {
			r.Post("/", labelHandler.Create)
			r.Get("/{id}", labelHandler.Get)
			r.Post("/{id}/print", labelHandler.Print)
		})

		r.Post("/dispatch", labelHandler.Dispatch)

		r.Route("/shipments", func(r chi.Router) {
			r.Post("/", shipmentHandler.Create)
			r.Get("/{id}", shipmentHandler.Get)
			r.With(adminOnly).Get("/", shipmentHandler.List)
			r.With(adminOnly).Delete("/{id}", shipmentHandler.Delete)
		})

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/inventory", reportHandler.Inventory)
			r.Get("/stats", reportHandler.Stats)
			r.Get("/export", exportHandler.Export)
			r.Get("/backup", adminHandler.Backup)
			r.Post("/cleanup", adminHandler.Cleanup)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
