package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the resolved server configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	API      APIConfig
	Stripe   StripeConfig
	Auth     AuthConfig
	Card     CardConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port        string
	AllowOrigin string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// APIConfig points at the payments REST API used for vault and order calls.
type APIConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	// OrderProcessor selects the confirm-order backend: "rest" or "stripe".
	OrderProcessor string
	// StrictVaultApproval makes the legacy vault update require status APPROVED.
	StrictVaultApproval bool
}

type StripeConfig struct {
	SecretKey string
}

type AuthConfig struct {
	JWTSecret string
	// WebhookSecret signs calls to merchant callback URLs.
	WebhookSecret string
}

type CardConfig struct {
	SessionTTL     time.Duration
	FingerprintKey string
}

type LogConfig struct {
	Level  string
	Format string
}

// Development fallbacks. Validate rejects them in production.
const (
	defaultJWTSecret     = "cardfields"
	defaultWebhookSecret = "cardfields-webhooks"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// Load reads the environment into a Config, applying defaults.
func Load() *Config {
	LoadEnv()

	return &Config{
		Server: ServerConfig{
			Port:        GetEnv("PORT", "3000"),
			AllowOrigin: GetEnv("CORS_ALLOW_ORIGIN", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "cardfields"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
		},
		API: APIConfig{
			BaseURL:             GetEnv("API_BASE_URL", "https://api-m.sandbox.paypal.com"),
			ClientID:            GetEnv("API_CLIENT_ID", ""),
			ClientSecret:        GetEnv("API_CLIENT_SECRET", ""),
			Timeout:             GetDurationEnv("API_TIMEOUT", 30*time.Second),
			OrderProcessor:      GetEnv("ORDER_PROCESSOR", "rest"),
			StrictVaultApproval: GetBoolEnv("VAULT_STRICT_APPROVAL", false),
		},
		Stripe: StripeConfig{
			SecretKey: GetEnv("STRIPE_SECRET_KEY", ""),
		},
		Auth: AuthConfig{
			JWTSecret:     GetEnv("JWT_SECRET", defaultJWTSecret),
			WebhookSecret: GetEnv("WEBHOOK_SECRET", defaultWebhookSecret),
		},
		Card: CardConfig{
			SessionTTL:     GetDurationEnv("SESSION_TTL", 30*time.Minute),
			FingerprintKey: GetEnv("CARD_FINGERPRINT_KEY", ""),
		},
		Log: LogConfig{
			Level:  GetEnv("LOG_LEVEL", "info"),
			Format: GetEnv("LOG_FORMAT", "text"),
		},
	}
}

// Validate checks settings that have no safe default. In production the
// signing secrets must be set explicitly.
func (c *Config) Validate() error {
	if !IsProduction() {
		return nil
	}
	if c.Auth.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.Auth.WebhookSecret == defaultWebhookSecret {
		return errors.New("WEBHOOK_SECRET must be set in production")
	}
	return nil
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// GetBoolEnv returns a bool environment variable or a default value.
func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}
