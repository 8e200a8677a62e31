package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Enabled reports whether enough SMTP settings exist to deliver real mail.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.Password != ""
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	ProPriceID    string
	TeamPriceID   string
}

type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
	RedisURL    string
}

type LogConfig struct {
	Level  string
	Format string
}

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	AppURL      string
	CronSecret  string

	Stripe    StripeConfig
	SMTP      SMTPConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// Load reads configuration from the environment. A .env file is loaded if
// present but not required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	smtpPort, err := envOrDefaultInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	rateMax, err := envOrDefaultInt("RATE_LIMIT_MAX", 30)
	if err != nil {
		return nil, err
	}
	rateWindow, err := envOrDefaultDuration("RATE_LIMIT_WINDOW", time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        getEnvWithDefault("PORT", "8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("POSTGRES_URL")),
		JWTSecret:   strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AppURL:      strings.TrimRight(getEnvWithDefault("APP_URL", "http://localhost:3000"), "/"),
		CronSecret:  strings.TrimSpace(os.Getenv("CRON_SECRET")),
		Stripe: StripeConfig{
			SecretKey:     strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY")),
			WebhookSecret: strings.TrimSpace(os.Getenv("STRIPE_WEBHOOK_SECRET")),
			ProPriceID:    strings.TrimSpace(os.Getenv("STRIPE_PRO_PRICE_ID")),
			TeamPriceID:   strings.TrimSpace(os.Getenv("STRIPE_TEAM_PRICE_ID")),
		},
		SMTP: SMTPConfig{
			Host:     strings.TrimSpace(os.Getenv("SMTP_HOST")),
			Port:     smtpPort,
			Username: strings.TrimSpace(os.Getenv("SMTP_USERNAME")),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnvWithDefault("EMAIL_FROM", "noreply@coivault.com"),
			FromName: getEnvWithDefault("EMAIL_FROM_NAME", "COI Vault"),
		},
		RateLimit: RateLimitConfig{
			MaxRequests: rateMax,
			Window:      rateWindow,
			RedisURL:    strings.TrimSpace(os.Getenv("REDIS_URL")),
		},
		Log: LogConfig{
			Level:  getEnvWithDefault("LOG_LEVEL", "info"),
			Format: getEnvWithDefault("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("POSTGRES_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.RateLimit.MaxRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}
	return nil
}

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func envOrDefaultInt(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}

func envOrDefaultDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return v, nil
}
