package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenAddr   string
	DBPath       string
	UploadPath   string
	ClientOrigin string
	JWTSecret    string
	TokenTTL     time.Duration
	LogLevel     string
	LogFile      string
}

func Load() *Config {
	return &Config{
		ListenAddr:   getEnv("LISTEN_ADDR", ":5000"),
		DBPath:       getEnv("DB_PATH", "/data/keepsake.db"),
		UploadPath:   getEnv("UPLOAD_PATH", "/data/uploads"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:3000"),
		JWTSecret:    getEnv("JWT_SECRET", "secret-key"),
		TokenTTL:     getEnvHours("TOKEN_TTL_HOURS", 24),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvHours(key string, defaultHours int) time.Duration {
	if val, exists := os.LookupEnv(key); exists {
		if h, err := strconv.Atoi(val); err == nil && h > 0 {
			return time.Duration(h) * time.Hour
		}
	}
	return time.Duration(defaultHours) * time.Hour
}
