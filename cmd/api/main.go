package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"asset-inventory-api/internal/audit"
	"asset-inventory-api/internal/config"
	"asset-inventory-api/internal/database"
	"asset-inventory-api/internal/handler"
	"asset-inventory-api/internal/intake"
	"asset-inventory-api/internal/notification"
	"asset-inventory-api/internal/repository"
	"asset-inventory-api/internal/router"
	"asset-inventory-api/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	logger := log.Default()

	// Repositories
	assetRepo := repository.NewAssetRepository(db)
	lookupRepo := repository.NewLookupRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	ticketRepo := repository.NewTicketRepository(db)

	// Technician alert webhook; disabled when no URL is configured
	var notifier notification.Notifier
	if cfg.AlertWebhook.URL != "" {
		notifier = notification.NewNotifierWithConfig(notification.Config{
			URL:            cfg.AlertWebhook.URL,
			Timeout:        cfg.AlertWebhook.Timeout,
			RetryAttempts:  cfg.AlertWebhook.RetryAttempts,
			RetryDelay:     cfg.AlertWebhook.RetryDelay,
			MaxPayloadSize: cfg.AlertWebhook.MaxPayloadSize,
		})
	} else {
		logger.Println("No alert webhook configured, ticket alerts disabled")
		notifier = notification.NewNoopNotifier()
	}

	// Services
	recorder := audit.NewRecorder(auditRepo, lookupRepo, logger)
	assetSvc := service.NewAssetService(assetRepo, lookupRepo, auditRepo, recorder, logger)
	ticketSvc := service.NewTicketService(ticketRepo, assetRepo, lookupRepo, recorder, notifier, logger)
	lookupSvc := service.NewLookupService(lookupRepo, logger)

	// Handlers
	handlers := router.Handlers{
		Assets:  handler.NewAssetHandler(assetSvc, cfg.PublicBaseURL, logger),
		Tickets: handler.NewTicketHandler(ticketSvc, logger),
		Lookups: handler.NewLookupHandler(lookupSvc, logger),
		Intake:  handler.NewIntakeHandler(intake.DefaultTemplate(), logger),
	}

	r := router.NewRouter(handlers, cfg, logger)

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Port),
		Handler:        r,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %d", cfg.Port)
		log.Printf("Security: Rate limit=%d RPS, Burst=%d, CORS=%v, Timeout=%v",
			cfg.Security.RateLimitRPS,
			cfg.Security.RateLimitBurst,
			cfg.Security.EnableCORS,
			cfg.Security.RequestTimeout,
		)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-done
	log.Println("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Security.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	} else {
		log.Println("Server exited gracefully")
	}
}
