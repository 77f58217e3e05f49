package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/config"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/database"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/handlers"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/lookup"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/lookup/autoapi"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/lookup/boostr"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/services/workshop"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/store"
	"github.com/Brayan-castro-2/Repair-cars-sub000/internal/ws"
)

func newLogger(env string) (*zap.SugaredLogger, error) {
	var base *zap.Logger
	var err error
	if env == "production" {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return base.Sugar(), nil
}

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 2. Pick the persistence backend. The choice is made once here and
	// never revisited while the process runs.
	mode := store.ResolveMode(cfg.StorageMode)
	log.Printf("🗄️  Storage mode: [%s]", mode)

	var st store.Store
	var db *database.DB

	switch mode {
	case store.ModeRemote:
		db, err = database.Connect(cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		// db.Close() is called manually in the shutdown handler below

		log.Println("🚀 Synchronizing database schema...")
		gs := store.NewGormStore(db.DB, logger)
		if err := gs.Migrate(); err != nil {
			log.Printf("⚠️ Migration warning: %v\n", err)
		} else {
			log.Println("✅ Schema synchronized successfully")
		}
		st = gs
	default:
		ms, err := store.NewMemoryStore(cfg.SnapshotPath, logger)
		if err != nil {
			log.Fatalf("Failed to initialize local store: %v", err)
		}
		st = ms
	}

	// 3. Build the plate resolution chain. Registration order is cost
	// order: Boostr first, AutoAPI as fallback.
	registry := lookup.NewRegistry()
	if err := registry.Register(
		boostr.NewSource(boostr.Config{
			BaseURL: cfg.Lookup.Boostr.BaseURL,
			APIKey:  cfg.Lookup.Boostr.APIKey,
		}),
		cfg.Lookup.Boostr.DailyLimit,
		cfg.Lookup.Boostr.Timeout,
		cfg.Lookup.Boostr.Active,
	); err != nil {
		log.Fatalf("Failed to register boostr source: %v", err)
	}
	if err := registry.Register(
		autoapi.NewSource(autoapi.Config{
			BaseURL: cfg.Lookup.AutoAPI.BaseURL,
			APIKey:  cfg.Lookup.AutoAPI.APIKey,
		}),
		cfg.Lookup.AutoAPI.DailyLimit,
		cfg.Lookup.AutoAPI.Timeout,
		cfg.Lookup.AutoAPI.Active,
	); err != nil {
		log.Fatalf("Failed to register autoapi source: %v", err)
	}

	quotas := lookup.NewQuotaTracker(st)
	engine := lookup.NewEngine(registry, quotas, logger)
	log.Println("✅ Lookup: source chain registered (boostr, autoapi)")

	// 4. Workshop board event hub
	hub := ws.NewHub()
	go hub.Run()

	// 5. Domain service and HTTP router
	svc := workshop.NewService(st, engine, hub, logger)
	router := handlers.NewRouter(cfg, st, svc, engine, hub)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s [storage: %s]\n", cfg.Port, mode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if db != nil {
		log.Println("🛑 Closing database connection...")
		if err := db.Close(); err != nil {
			log.Printf("Database close error: %v", err)
		}
	}

	log.Println("✅ Shutdown complete")
}
