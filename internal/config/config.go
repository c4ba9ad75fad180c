package config

import (
	"errors"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config is loaded once at startup and passed down explicitly; nothing in the
// application re-inspects the environment afterwards.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// DatabaseURL selects the remote Postgres backend when set; otherwise the
	// store is a local SQLite file at SQLitePath.
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"curio.db"`

	JWTSecret string `env:"JWT_SECRET"`

	CORSAllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	CORSAllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`

	// First superuser bootstrapped at startup when no user with this email
	// exists yet.
	FirstSuperuserEmail    string `env:"FIRST_SUPERUSER" envDefault:"admin@example.com"`
	FirstSuperuserPassword string `env:"FIRST_SUPERUSER_PASSWORD" envDefault:"ChangeThis123!"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("missing env: JWT_SECRET")
	}

	origins := cfg.CORSAllowedOrigins
	cfg.CORSAllowedOrigins = nil
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	return cfg, nil
}
