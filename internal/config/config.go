// Package config loads service configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config is the full configuration of the descent service.
type Config struct {
	Environment string `env:"ENV" envDefault:"development"`

	HTTP struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}

	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}

	Solver struct {
		// MaxIterations is the default iteration cap for runs that do not
		// specify one.
		MaxIterations int `env:"SOLVER_MAX_ITERATIONS" envDefault:"100"`
		// Threshold is the default direction-norm convergence threshold.
		Threshold float64 `env:"SOLVER_THRESHOLD" envDefault:"1e-6"`
		// StepSize is the default constant step length.
		StepSize float64 `env:"SOLVER_STEP_SIZE" envDefault:"0.1"`
	}
}

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Development defaults to verbose logging unless overridden.
	if cfg.Environment == "development" && cfg.Logging.Level == "" {
		cfg.Logging.Level = "debug"
	}

	return cfg, nil
}
