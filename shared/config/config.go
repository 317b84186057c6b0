package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret      string
	JWTExpireHours string

	// Server
	ServerPort  string
	FrontendURL string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       string

	// Gemini (text generation)
	GeminiAPIURL  string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout string

	// Demo user (seeder)
	DemoUserEmail    string
	DemoUserPassword string

	// Rate Limiting - general API
	RateLimitMaxRequests          string
	RateLimitTimeWindowSeconds    string
	RateLimitBlockDurationMinutes string

	// Rate Limiting - AI-backed generation endpoint
	GenerateRateLimitMaxRequests  string
	GenerateRateLimitWindowSecs   string
	GenerateRateLimitBlockMinutes string
}

var cfg *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("✅ Environment loaded from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg = &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "complyready"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-change-this"),
		JWTExpireHours: getEnv("JWT_EXPIRE_HOURS", "24"),

		// Server
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		// Gemini
		GeminiAPIURL:  getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		GeminiTimeout: getEnv("GEMINI_TIMEOUT_SECONDS", "60"),

		// Demo user
		DemoUserEmail:    getEnv("DEMO_USER_EMAIL", "demo@complyready.com"),
		DemoUserPassword: getEnv("DEMO_USER_PASSWORD", "demo123"),

		// Rate Limiting - general
		RateLimitMaxRequests:          getEnv("RATE_LIMIT_MAX_REQUESTS", "100"),
		RateLimitTimeWindowSeconds:    getEnv("RATE_LIMIT_TIME_WINDOW_SECONDS", "60"),
		RateLimitBlockDurationMinutes: getEnv("RATE_LIMIT_BLOCK_DURATION_MINUTES", "15"),

		// Rate Limiting - generation endpoint
		GenerateRateLimitMaxRequests:  getEnv("GENERATE_RATE_LIMIT_MAX_REQUESTS", "5"),
		GenerateRateLimitWindowSecs:   getEnv("GENERATE_RATE_LIMIT_WINDOW_SECONDS", "300"),
		GenerateRateLimitBlockMinutes: getEnv("GENERATE_RATE_LIMIT_BLOCK_MINUTES", "15"),
	}

	log.Println("✅ Configuration loaded successfully")
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	if cfg == nil {
		LoadConfig()
	}
	return cfg
}

// GetRateLimitMaxRequests returns the rate limit max requests as integer
func (c *Config) GetRateLimitMaxRequests() int {
	return asInt(c.RateLimitMaxRequests, 100)
}

// GetRateLimitTimeWindowSeconds returns the rate limit time window as integer
func (c *Config) GetRateLimitTimeWindowSeconds() int {
	return asInt(c.RateLimitTimeWindowSeconds, 60)
}

// GetRateLimitBlockDurationMinutes returns the rate limit block duration as integer
func (c *Config) GetRateLimitBlockDurationMinutes() int {
	return asInt(c.RateLimitBlockDurationMinutes, 15)
}

// GetGenerateRateLimitMaxRequests returns the generation rate limit max requests as integer
func (c *Config) GetGenerateRateLimitMaxRequests() int {
	return asInt(c.GenerateRateLimitMaxRequests, 5)
}

// GetGenerateRateLimitWindowSeconds returns the generation rate limit window as integer
func (c *Config) GetGenerateRateLimitWindowSeconds() int {
	return asInt(c.GenerateRateLimitWindowSecs, 300)
}

// GetGenerateRateLimitBlockMinutes returns the generation rate limit block duration as integer
func (c *Config) GetGenerateRateLimitBlockMinutes() int {
	return asInt(c.GenerateRateLimitBlockMinutes, 15)
}

// GetGeminiTimeoutSeconds returns the Gemini request timeout as integer
func (c *Config) GetGeminiTimeoutSeconds() int {
	return asInt(c.GeminiTimeout, 60)
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func asInt(value string, defaultValue int) int {
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}
