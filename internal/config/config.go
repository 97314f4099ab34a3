package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	GeminiAPIKey string
	GeminiModel  string
	DatabaseURL  string
	HTTPPort     string
	LogLevel     string
	NonceSecret  string
	NonceTTL     time.Duration
	ToolsFile    string

	PublicRateLimit      int
	BuilderRateLimit     int
	RateLimitWindow      time.Duration
	LLMRequestsPerMinute int
}

// Load reads configuration from the environment, after loading a .env file when one exists.
// The second return value reports whether a .env file was found.
func Load() (*Config, bool) {
	envLoaded := godotenv.Load() == nil

	cfg := &Config{
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		DatabaseURL:  getEnv("DATABASE_URL", "mediakit_ai.db"),
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		NonceSecret:  getEnv("NONCE_SECRET", ""),
		NonceTTL:     time.Duration(getEnvAsInt("NONCE_TTL_HOURS", 24)) * time.Hour,
		ToolsFile:    getEnv("TOOLS_FILE", ""),

		PublicRateLimit:      getEnvAsInt("RATE_LIMIT_PUBLIC", 3),
		BuilderRateLimit:     getEnvAsInt("RATE_LIMIT_BUILDER", 10),
		RateLimitWindow:      time.Duration(getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 3600)) * time.Second,
		LLMRequestsPerMinute: getEnvAsInt("LLM_REQUESTS_PER_MINUTE", 60),
	}
	return cfg, envLoaded
}

// ValidateServer checks the settings the generation backend cannot run without.
func (c *Config) ValidateServer() error {
	var errs []error
	if c.GeminiAPIKey == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY environment variable is required"))
	}
	if c.NonceSecret == "" {
		errs = append(errs, errors.New("NONCE_SECRET environment variable is required"))
	}
	if c.PublicRateLimit <= 0 || c.BuilderRateLimit <= 0 {
		errs = append(errs, errors.New("rate limits must be positive"))
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW_SECONDS must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
