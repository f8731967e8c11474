package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Gateway auth: the chat transport signs its tokens with this secret.
	GatewaySecret string

	// Notifications
	TelegramBotToken string

	// Reminder sweep
	SweepInterval time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Get values from environment variables with defaults
	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "finassist"),
		DBPassword: getEnv("DB_PASSWORD", "finassist"),
		DBName:     getEnv("DB_NAME", "finassist"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		GatewaySecret:    getEnv("GATEWAY_SECRET", "fallback-secret-key-for-dev-only"),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
	}

	// Parse reminder sweep interval
	sweepStr := getEnv("SWEEP_INTERVAL", "60s")
	sweepDur, err := time.ParseDuration(sweepStr)
	if err != nil {
		log.Printf("Warning: invalid SWEEP_INTERVAL value '%s', falling back to 60s\n", sweepStr)
		sweepDur = 60 * time.Second
	}
	config.SweepInterval = sweepDur

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
