package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	APIBaseURL     string
	RequestTimeout time.Duration
	StateDir       string
	RedisURL       string
	RedisAddr      string
	RedisPassword  string
	CallbackAddr   string
	OriginURL      string
}

var AppConfig *Config

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "30s"))
	if err != nil || timeout <= 0 {
		timeout = 30 * time.Second
	}

	AppConfig = &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8082/api/v1"),
		RequestTimeout: timeout,
		StateDir:       getEnv("STATE_DIR", defaultStateDir()),
		RedisURL:       os.Getenv("REDIS_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		CallbackAddr:   getEnv("CALLBACK_ADDR", "127.0.0.1:8832"),
		OriginURL:      os.Getenv("ORIGIN_URL"),
	}
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "food-delivery-client")
	}
	return "./.food-delivery-client"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
