package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port          string
	Environment   string
	ReadTimeout   int
	WriteTimeout  int
	DBPath        string
	RedisAddr     string
	RouteCacheTTL time.Duration
	LogLevel      string
	TunablesPath  string
	CORSOrigins   []string
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "3000"),
		Environment:   getEnv("ENV", "development"),
		ReadTimeout:   getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout:  getEnvAsInt("WRITE_TIMEOUT", 10),
		DBPath:        getEnv("WAYFINDING_DB_PATH", "wayfinding.db"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RouteCacheTTL: time.Duration(getEnvAsInt("ROUTE_CACHE_TTL", 300)) * time.Second,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		TunablesPath:  getEnv("WAYFINDING_CONFIG", ""),
		CORSOrigins:   getEnvAsList("CORS_ORIGINS", "*"),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// getEnvAsList режет значение по запятым, пустые элементы отбрасываются.
func getEnvAsList(key, defaultVal string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultVal), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
