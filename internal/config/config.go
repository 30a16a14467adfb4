package config

import (
	"fmt"

	env "github.com/caarlos0/env/v6"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration. It is loaded once at startup
// and passed explicitly to every component that needs it.
type Config struct {
	ServerPort   int    `env:"PORT" validate:"min=1,max=65535"`
	ClientOrigin string `env:"CLIENT_URL" validate:"url"`
	DatabasePath string `env:"DATABASE_PATH" validate:"required"`

	JWTSecret string `env:"JWT_SECRET" validate:"required"`

	LogLevel string `env:"LOG_LEVEL" validate:"loglevel"`
	LogJSON  bool   `env:"LOG_JSON"`

	// Image store (S3-compatible object storage).
	ImageEndpoint  string `env:"IMAGE_STORE_ENDPOINT"`
	ImageAccessKey string `env:"IMAGE_STORE_ACCESS_KEY"`
	ImageSecretKey string `env:"IMAGE_STORE_SECRET_KEY"`
	ImageBucket    string `env:"IMAGE_STORE_BUCKET"`
	ImageUseSSL    bool   `env:"IMAGE_STORE_USE_SSL"`
	ImagePublicURL string `env:"IMAGE_STORE_PUBLIC_URL"`

	// Transactional mail API.
	MailAPIURL   string `env:"MAIL_API_URL"`
	MailAPIKey   string `env:"MAIL_API_KEY"`
	MailFromAddr string `env:"MAIL_FROM_ADDR"`
	MailFromName string `env:"MAIL_FROM_NAME"`

	// Outbox flush cadence, standard cron expression or @every syntax.
	EmailFlushSchedule string `env:"EMAIL_FLUSH_SCHEDULE"`
	EmailMaxAttempts   int    `env:"EMAIL_MAX_ATTEMPTS" validate:"min=1"`
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "trace", "debug", "info", "warn", "error":
		return true
	}
	return false
}

// Load reads .env (if present) and the environment into a validated Config.
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:         8080,
		ClientOrigin:       "http://localhost:5173",
		DatabasePath:       "./linkup.db",
		LogLevel:           "info",
		ImageBucket:        "linkup-images",
		MailFromAddr:       "no-reply@linkup.local",
		MailFromName:       "LinkUp",
		EmailFlushSchedule: "@every 1m",
		EmailMaxAttempts:   5,
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	v := validator.New()
	if err := v.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return nil, err
	}
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
