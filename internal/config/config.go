package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит конфигурацию сервера
type Config struct {
	Port              int
	MaxPrincipal      float64
	MaxMonths         int
	MaxRate           float64
	MaxExtraPayments  int
	MaxCandidateRates int
	OTELEndpoint      string
	OTELServiceName   string
	LogLevel          string
	ShutdownTimeout   time.Duration
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnvInt("PORT", 8000),
		MaxPrincipal:      getEnvFloat("MAX_PRINCIPAL", 1e9),
		MaxMonths:         getEnvInt("MAX_MONTHS", 600),
		MaxRate:           getEnvFloat("MAX_RATE", 200),
		MaxExtraPayments:  getEnvInt("MAX_EXTRA_PAYMENTS", 600),
		MaxCandidateRates: getEnvInt("MAX_CANDIDATE_RATES", 50),
		OTELEndpoint:      getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName:   getEnvString("OTEL_SERVICE_NAME", "mcp-loan-planner"),
		LogLevel:          getEnvString("LOG_LEVEL", "INFO"),
		ShutdownTimeout:   time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 15)) * time.Second,
	}

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// SlogLevel переводит LOG_LEVEL в уровень slog; неизвестное значение — INFO
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Addr адрес HTTP сервера
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}
