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

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Pipeline (price ingest / snapshot triggers)
	PipelineAPIKey string

	// Spot price feed
	PriceFeedURL         string
	PriceRefreshInterval time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "mithqal"),
		DBPassword: getEnv("DB_PASSWORD", "mithqal"),
		DBName:     getEnv("DB_NAME", "mithqal"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		// Pipeline
		PipelineAPIKey: getEnv("PIPELINE_API_KEY", ""),

		// Price feed
		PriceFeedURL: getEnv("PRICE_FEED_URL", "https://api.gold-api.com"),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	// Parse price refresh interval; zero disables the background refresher.
	refreshStr := getEnv("PRICE_REFRESH_INTERVAL", "15m")
	refreshDur, err := time.ParseDuration(refreshStr)
	if err != nil {
		log.Printf("Warning: invalid PRICE_REFRESH_INTERVAL value '%s', falling back to 15m\n", refreshStr)
		refreshDur = 15 * time.Minute
	}
	config.PriceRefreshInterval = refreshDur

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
