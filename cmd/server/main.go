package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eshop/backoffice/docs"
	"github.com/eshop/backoffice/internal/audit"
	"github.com/eshop/backoffice/internal/config"
	"github.com/eshop/backoffice/internal/database"
	"github.com/eshop/backoffice/internal/handlers"
	"github.com/eshop/backoffice/internal/services"
	"github.com/eshop/backoffice/internal/store"
	"github.com/eshop/backoffice/internal/store/memory"
	"github.com/eshop/backoffice/internal/store/postgres"
)

// @title E-Shop Back Office API
// @version 1.0
// @description Inventory, orders and wallet ledger for the back office
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg := config.Load(".env")

	// Initialize Swagger docs
	docs.SwaggerInfo.Host = "localhost:" + cfg.Server.Port
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	ctx := context.Background()

	var recordStore store.Store
	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Println("[STORE] Using in-memory store")
		recordStore = memory.New()
	case config.DriverPostgres:
		db, err := database.InitDB(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
		recordStore = postgres.New(db)
	default:
		log.Fatalf("Unknown store driver %q", cfg.Store.Driver)
	}

	redisClient := database.InitRedis(ctx, cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	auditLogger := audit.NewLogger(log.Default())

	authService, err := services.NewAuthService(cfg.Auth, cfg.Argon2, services.NewTokenBlacklist(redisClient))
	if err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}

	router := handlers.NewRouter(handlers.Dependencies{
		Config:    cfg,
		Auth:      authService,
		Inventory: services.NewInventoryService(recordStore),
		Orders:    services.NewOrderService(recordStore, auditLogger),
		Ledger:    services.NewLedgerService(recordStore, auditLogger),
		Overview:  services.NewOverviewService(recordStore),
		Redis:     redisClient,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		return
	}

	log.Println("Server stopped")
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.Server.ShutdownTimeout > 0 {
		return cfg.Server.ShutdownTimeout
	}
	return 30 * time.Second
}
