package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/yukikurage/goal-tracker-api/internal/constants"
)

type Config struct {
	HTTPAddr        string
	GinMode         string
	DBDriver        string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	RedisHost       string
	RedisPort       string
	RedisPassword   string
	SessionSecret   string
	OpenAIAPIKey    string
	TelegramToken   string
	BotPollTimeout  time.Duration
	BotStateBackend string
	BotStateTTL     time.Duration
	LogLevel        string
	LogEncoding     string
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		DBDriver:        getEnv("DB_DRIVER", "mysql"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBUser:          getEnv("DB_USER", "todolist"),
		DBPassword:      getEnv("DB_PASSWORD", "todolist"),
		DBName:          getEnv("DB_NAME", "todolist"),
		RedisHost:       getEnv("REDIS_HOST", "localhost"),
		RedisPort:       getEnv("REDIS_PORT", "6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		SessionSecret:   getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		TelegramToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		BotPollTimeout:  getDuration("BOT_POLL_TIMEOUT", constants.DefaultBotPollTimeout),
		BotStateBackend: getEnv("BOT_STATE_BACKEND", "redis"),
		BotStateTTL:     getDuration("BOT_STATE_TTL", constants.DefaultBotStateTTL),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogEncoding:     getEnv("LOG_ENCODING", "json"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}

	defaultPort := "3306"
	if cfg.DBDriver == "postgres" {
		defaultPort = "5432"
	}
	cfg.DBPort = getEnv("DB_PORT", defaultPort)

	return cfg
}

// RedisAddr returns host:port of the Redis server shared by sessions and bot state.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getDuration accepts Go duration strings ("90s") or a plain number of seconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
