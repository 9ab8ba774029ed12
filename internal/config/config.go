package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"PayPlan"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"payplan"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	// Auth guards the submission endpoints. An empty secret disables the
	// check, for local development.
	Auth struct {
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
	}

	Processor struct {
		URL   string `envconfig:"PROCESSOR_URL" default:"http://localhost:9090"`
		Token string `envconfig:"PROCESSOR_TOKEN"`
	}

	// Allocation tunes the engine defaults.
	Allocation struct {
		// Remainder picks which installments or shares absorb leftover
		// cents: "front" or "back".
		Remainder string `envconfig:"ALLOCATION_REMAINDER" default:"front"`
		Currency  string `envconfig:"ALLOCATION_CURRENCY" default:"EUR"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
