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
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/playmatatu/spinball/internal/admin"
	"github.com/playmatatu/spinball/internal/api"
	"github.com/playmatatu/spinball/internal/config"
	"github.com/playmatatu/spinball/internal/database"
	"github.com/playmatatu/spinball/internal/game"
	"github.com/playmatatu/spinball/internal/migrations"
	"github.com/playmatatu/spinball/internal/profiles"
	"github.com/playmatatu/spinball/internal/redis"
	"github.com/playmatatu/spinball/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres holds settings profiles and admin data only; matches run
	// without it.
	var db *sqlx.DB
	if cfg.DatabaseURL != "" {
		conn, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect to database, admin and profiles disabled: %v", err)
		} else {
			db = conn
			defer db.Close()

			if cfg.MigrateOnStart {
				log.Println("↗ Running DB migrations on startup...")
				if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
					log.Fatalf("Failed to run migrations: %v", err)
				}
			}
		}
	}

	// Initialize Redis
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
	} else {
		log.Println("[REDIS] REDIS_URL empty; running single-node without snapshot cache")
	}

	// Initialize Match Manager with Redis and config
	matches := game.NewMatchManager(rdb, cfg)

	hub := ws.NewHub(matches, cfg)
	matches.SetBroadcaster(hub)
	go hub.Run(ctx)

	// Goal and match-end events arrive over redis when it is configured
	ws.StartMatchEventSubscriber(ctx, rdb, hub)

	// Drive every live match from one goroutine
	runner := game.NewRunner(matches, hub)
	go runner.Run(ctx)

	// Remove matches nobody has touched for MATCH_IDLE_MINUTES
	game.StartStaleMatchWorker(ctx, matches, cfg)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	deps := api.Deps{
		Config:  cfg,
		Matches: matches,
		Hub:     hub,
	}
	if db != nil {
		deps.DB = db
		deps.Profiles = profiles.NewSQLStore(db)
		deps.Admins = admin.NewService(db)
	}
	api.SetupRoutes(router, deps)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting spinball server on port %s (tick rate %.0f Hz)", port, cfg.TickRate)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	// Hijacked websocket connections are closed by the hub, not by Shutdown.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
