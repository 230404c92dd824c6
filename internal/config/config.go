package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Simulation
	TickRate               float64
	RandomSeed             int64
	ReplicationEveryTicks  int
	SnapshotSaveEveryTicks int
	SnapshotTTLSeconds     int

	// Match defaults
	DefaultTeam1Name     string
	DefaultTeam2Name     string
	DefaultRotationSpeed float64
	DefaultMatchDuration float64
	MaxMatches           int

	// Stale match reaping
	MatchIdleMinutes       int
	IdleWorkerPollInterval int // seconds

	// Security
	JWTSecret         string
	ControlTokenHours int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/spinball?sslmode=disable"),
		MigrateOnStart: getEnv("MIGRATE_ON_START", "false") == "true",

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Simulation
		TickRate:               getEnvFloat("TICK_RATE", 60),
		RandomSeed:             int64(getEnvInt("RANDOM_SEED", 0)),
		ReplicationEveryTicks:  getEnvInt("REPLICATION_EVERY_TICKS", 1),
		SnapshotSaveEveryTicks: getEnvInt("SNAPSHOT_SAVE_EVERY_TICKS", 30),
		SnapshotTTLSeconds:     getEnvInt("SNAPSHOT_TTL_SECONDS", 3600),

		// Match defaults
		DefaultTeam1Name:     getEnv("DEFAULT_TEAM1_NAME", "Team A"),
		DefaultTeam2Name:     getEnv("DEFAULT_TEAM2_NAME", "Team B"),
		DefaultRotationSpeed: getEnvFloat("DEFAULT_ROTATION_SPEED", 0.5),
		DefaultMatchDuration: getEnvFloat("DEFAULT_MATCH_DURATION_SECONDS", 30),
		MaxMatches:           getEnvInt("MAX_MATCHES", 100),

		// Stale match reaping
		MatchIdleMinutes:       getEnvInt("MATCH_IDLE_MINUTES", 30),
		IdleWorkerPollInterval: getEnvInt("IDLE_WORKER_POLL_INTERVAL", 30),

		// Security
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		ControlTokenHours: getEnvInt("CONTROL_TOKEN_HOURS", 24),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
