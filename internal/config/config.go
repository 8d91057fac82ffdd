package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/playmatatu/tablesim/internal/input"
	"github.com/playmatatu/tablesim/internal/physics"
)

type Config struct {
	// Environment
	Environment string

	// Database; empty keeps runs in memory
	DatabaseURL    string
	MigrateOnStart bool
	MaxOpenConns   int
	MaxIdleConns   int

	// Redis; empty disables the cache and run events
	RedisURL        string
	CacheTTLSeconds int

	// Server
	Port        string
	FrontendURL string

	// Simulation
	TableWidth       float64
	TableHeight      float64
	DefaultTotalTime float64
	DefaultTimeStep  float64
	MaxSamples       int
	PersistRuns      bool
	StreamBatchSize  int

	// Security
	JWTSecret string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),
		MaxOpenConns:   getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:   getEnvInt("DB_MAX_IDLE_CONNS", 5),

		// Redis
		RedisURL:        getEnv("REDIS_URL", ""),
		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 3600),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Simulation
		TableWidth:       getEnvFloat("TABLE_WIDTH", physics.DefaultWidth),
		TableHeight:      getEnvFloat("TABLE_HEIGHT", physics.DefaultHeight),
		DefaultTotalTime: getEnvFloat("DEFAULT_TOTAL_TIME", physics.DefaultTotalTime),
		DefaultTimeStep:  getEnvFloat("DEFAULT_TIME_STEP", physics.DefaultTimeStep),
		MaxSamples:       getEnvInt("MAX_SAMPLES", 100000),
		PersistRuns:      getEnvBool("PERSIST_RUNS", true),
		StreamBatchSize:  getEnvInt("STREAM_BATCH_SIZE", 100),

		// Security
		JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),
	}
}

// Table returns the configured table, falling back to the default one when
// the environment holds non-positive sides.
func (c *Config) Table() physics.Table {
	t, err := physics.NewTable(c.TableWidth, c.TableHeight)
	if err != nil {
		return physics.DefaultTable
	}
	return t
}

// Limits returns the request defaults and bounds for the simulate endpoints.
func (c *Config) Limits() input.Limits {
	lim := input.DefaultLimits()
	lim.Table = c.Table()
	if c.DefaultTotalTime >= 0 {
		lim.TotalTime = c.DefaultTotalTime
	}
	if c.DefaultTimeStep > 0 {
		lim.TimeStep = c.DefaultTimeStep
	}
	lim.MaxSamples = c.MaxSamples
	return lim
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
		if v, err := input.ParseNumber(key, value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
