package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	TokenTTL    time.Duration
	Environment string

	// AI generation
	AIProvider        string
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string
	GenerationTimeout time.Duration

	// Outbound email
	SendGridAPIKey    string
	SendGridFromEmail string
	SiteURL           string

	// HTTP
	CORSAllowedOrigins []string
	RateLimitGlobal    int
	RateLimitAuth      int
	RateLimitWindow    time.Duration

	RevealAnswersBeforeSubmit bool

	Events EventConfig
}

const devJWTSecret = "dev-only-secret-change-me"

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", devJWTSecret),
		TokenTTL:    getEnvDuration("TOKEN_TTL", 7*24*time.Hour),
		Environment: getEnv("ENVIRONMENT", "development"),

		AIProvider:        getEnv("AI_PROVIDER", "openai"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		GenerationTimeout: getEnvDuration("GENERATION_TIMEOUT", 30*time.Second),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "noreply@mystudyswaps.com"),
		SiteURL:           strings.TrimRight(getEnv("SITE_URL", "http://localhost:5173"), "/"),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		RateLimitGlobal:    getEnvInt("RATE_LIMIT_GLOBAL", 100),
		RateLimitAuth:      getEnvInt("RATE_LIMIT_AUTH", 5),
		RateLimitWindow:    getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),

		RevealAnswersBeforeSubmit: getEnvBool("REVEAL_ANSWERS_BEFORE_SUBMIT", true),

		Events: LoadEventConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on settings the server cannot start without.
func (c *Config) Validate() error {
	var problems []string

	if c.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required")
	}
	if c.IsProduction() && c.JWTSecret == devJWTSecret {
		problems = append(problems, "JWT_SECRET must be set in production")
	}
	switch c.AIProvider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			problems = append(problems, "OPENAI_API_KEY is required when AI_PROVIDER=openai")
		}
	case "mock":
	default:
		problems = append(problems, fmt.Sprintf("unknown AI_PROVIDER %q", c.AIProvider))
	}
	if c.GenerationTimeout <= 0 {
		problems = append(problems, "GENERATION_TIMEOUT must be positive")
	}
	if c.TokenTTL <= 0 {
		problems = append(problems, "TOKEN_TTL must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
