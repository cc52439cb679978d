package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultJWTSecret = "change-me-jwt-secret"

type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"dev"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":3000"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:"styledecor.db"`
	DBDebug     bool   `envconfig:"DB_DEBUG" default:"false"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"change-me-jwt-secret"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	// ClientURL is the storefront origin used to build checkout redirect URLs.
	ClientURL          string   `envconfig:"CLIENT_URL" default:"http://localhost:5173"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS"`

	OmisePublicKey   string `envconfig:"OMISE_PUBLIC_KEY"`
	OmiseSecretKey   string `envconfig:"OMISE_SECRET_KEY"`
	OmiseSourceType  string `envconfig:"OMISE_SOURCE_TYPE" default:"mobile_banking_kbank"`
	CheckoutCurrency string `envconfig:"CHECKOUT_CURRENCY" default:"thb"`

	RedisURL          string        `envconfig:"REDIS_URL"`
	SettlementLockTTL time.Duration `envconfig:"SETTLEMENT_LOCK_TTL" default:"30s"`

	RabbitURL      string `envconfig:"RABBIT_URL"`
	EventsExchange string `envconfig:"EVENTS_EXCHANGE" default:"styledecor.events"`

	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChannel  string `envconfig:"TELEGRAM_CHANNEL"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("level=info msg=loaded .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	if cfg.AppEnv == "" {
		cfg.AppEnv = "dev"
	}
	cfg.ClientURL = strings.TrimRight(strings.TrimSpace(cfg.ClientURL), "/")

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CheckoutEnabled reports whether both Omise keys are configured.
func (c *Config) CheckoutEnabled() bool {
	return c.OmisePublicKey != "" && c.OmiseSecretKey != ""
}

func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.SettlementLockTTL <= 0 {
		return fmt.Errorf("SETTLEMENT_LOCK_TTL must be > 0")
	}
	if cfg.ClientURL == "" {
		return fmt.Errorf("CLIENT_URL must not be empty")
	}
	if cfg.CheckoutCurrency == "" {
		return fmt.Errorf("CHECKOUT_CURRENCY must not be empty")
	}

	if (cfg.TelegramBotToken == "") != (cfg.TelegramChannel == "") {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHANNEL must be set together")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if !cfg.CheckoutEnabled() {
			return fmt.Errorf("in prod/release OMISE_PUBLIC_KEY and OMISE_SECRET_KEY must be set")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
