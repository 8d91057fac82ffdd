package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/playmatatu/tablesim/internal/api"
	"github.com/playmatatu/tablesim/internal/config"
	"github.com/playmatatu/tablesim/internal/database"
	"github.com/playmatatu/tablesim/internal/migrations"
	"github.com/playmatatu/tablesim/internal/redis"
	"github.com/playmatatu/tablesim/internal/service"
	"github.com/playmatatu/tablesim/internal/store"
	"github.com/playmatatu/tablesim/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := service.Options{
		Limits:      cfg.Limits(),
		PersistRuns: cfg.PersistRuns,
	}

	// Run history: Postgres when configured, memory otherwise
	if cfg.DatabaseURL != "" {
		if cfg.MigrateOnStart {
			log.Println("[MIGRATE] Running DB migrations on startup...")
			if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}

		db, err := database.Connect(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		opts.Runs = store.NewPGRunStore(db)
	} else {
		log.Println("[DB] DATABASE_URL not set; keeping runs in memory")
		opts.Runs = store.NewMemoryRunStore()
	}

	hub := ws.NewHub()
	go hub.Run()
	defer hub.Stop()

	// Trajectory cache and run events need Redis
	if cfg.RedisURL != "" {
		rdb, err := redis.Connect(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()

		cache := store.NewRedisCache(rdb, time.Duration(cfg.CacheTTLSeconds)*time.Second)
		opts.Cache = cache
		opts.Events = cache
		ws.StartEventSubscriber(ctx, rdb, hub)
	} else {
		log.Println("[CACHE] REDIS_URL not set; cache and run events disabled")
	}

	sim := service.NewSimulator(opts)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	api.SetupRoutes(router, sim, hub, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting tablesim server on port %s (table %gx%g)", port, cfg.Table().Width, cfg.Table().Height)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
