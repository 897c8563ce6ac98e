package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Port           string
	FrontendOrigin string
}

type PostgresConfig struct {
	DSN string
}

type RedisConfig struct {
	Address  string
	Password string
}

type DashboardConfig struct {
	CacheTTL time.Duration
}

type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Dashboard DashboardConfig
}

// New reads configuration from the environment. The database connection string
// has no safe default: without it the process cannot do anything useful, so
// startup aborts.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found or could not be loaded")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:5173"),
		},
		Postgres: PostgresConfig{
			DSN: dsn,
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Dashboard: DashboardConfig{
			CacheTTL: time.Second * 30,
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
