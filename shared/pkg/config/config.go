package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
)

type CommonConfig struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type HTTPConfig struct {
	Addr string `env:"HTTP_ADDR"`
	// Port is the legacy single-number listen setting.
	Port string `env:"PORT" envDefault:"5000"`
}

type PostgresConfig struct {
	DSN       string `env:"POSTGRES_DSN"`
	DSNLegacy string `env:"PG_DSN"`
}

type TokenConfig struct {
	Secret       string        `env:"TOKEN_SECRET"`
	SecretLegacy string        `env:"ACCESS_TOKEN_SECRET"`
	TTL          time.Duration `env:"TOKEN_TTL" envDefault:"0s"`
}

type PaymentConfig struct {
	StripeSecretKey string        `env:"STRIPE_SECRET_KEY"`
	Timeout         time.Duration `env:"PAYMENT_TIMEOUT" envDefault:"10s"`
	AllowZeroAmount bool          `env:"PAYMENT_ALLOW_ZERO_AMOUNT" envDefault:"false"`
	// StripeAPIURL overrides the API base, e.g. for stripe-mock.
	StripeAPIURL    string        `env:"STRIPE_API_URL"`
}

type RedisConfig struct {
	Addr       string        `env:"REDIS_ADDR"`
	ProductTTL time.Duration `env:"PRODUCT_CACHE_TTL" envDefault:"5m"`
}

type RabbitConfig struct {
	URL string `env:"RABBIT_URL"`
}

type OutboxHTTPConfig struct {
	Addr string `env:"OUTBOX_HTTP_ADDR" envDefault:":8085"`
}

type Config struct {
	Common     CommonConfig
	HTTP       HTTPConfig
	Postgres   PostgresConfig
	Token      TokenConfig
	Payment    PaymentConfig
	Redis      RedisConfig
	Rabbit     RabbitConfig
	OutboxHTTP OutboxHTTPConfig
}

// Load reads the process environment once. Only settings every binary needs are
// enforced here; API-specific requirements are checked by RequireAPI.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Postgres.DSN == "" {
		cfg.Postgres.DSN = cfg.Postgres.DSNLegacy
	}
	if cfg.Postgres.DSN == "" {
		return Config{}, fmt.Errorf("postgres dsn is empty: set POSTGRES_DSN (or legacy PG_DSN)")
	}
	if cfg.Token.Secret == "" {
		cfg.Token.Secret = cfg.Token.SecretLegacy
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":" + cfg.HTTP.Port
	}
	if cfg.Token.TTL < 0 {
		return Config{}, fmt.Errorf("TOKEN_TTL must not be negative")
	}
	if cfg.Payment.Timeout <= 0 {
		return Config{}, fmt.Errorf("PAYMENT_TIMEOUT must be positive")
	}
	return cfg, nil
}

// RequireAPI checks the settings the marketplace API cannot start without.
func (c Config) RequireAPI() error {
	if c.Token.Secret == "" {
		return fmt.Errorf("token secret is empty: set TOKEN_SECRET (or legacy ACCESS_TOKEN_SECRET)")
	}
	if c.Payment.StripeSecretKey == "" {
		return fmt.Errorf("stripe secret key is empty: set STRIPE_SECRET_KEY")
	}
	return nil
}

// RequireRelay checks the settings the outbox worker cannot start without.
func (c Config) RequireRelay() error {
	if c.Rabbit.URL == "" {
		return fmt.Errorf("rabbit url is empty: set RABBIT_URL")
	}
	return nil
}
