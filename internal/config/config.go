package config

import (
	"fmt"

	"github.com/caarlos0/env/v9"
	"github.com/hashicorp/go-multierror"
)

// Config holds everything the server and CLI need. Values come from the
// environment; a .env file is loaded by main before Parse runs.
type Config struct {
	Port            string `env:"PORT" envDefault:"3333"`
	DatabaseURL     string `env:"DATABASE_URL"`
	OpenAIKey       string `env:"OPENAI_API_KEY"`
	UploadDir       string `env:"UPLOAD_DIR" envDefault:"uploads"`
	CompletionModel string `env:"COMPLETION_MODEL" envDefault:"gpt-3.5-turbo-16k"`
	MaxUploadBytes  int64  `env:"MAX_UPLOAD_BYTES" envDefault:"26214400"`
}

// Load parses configuration from environment variables and validates the
// pieces that have no usable fallback.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	var errs *multierror.Error
	if cfg.OpenAIKey == "" {
		errs = multierror.Append(errs, fmt.Errorf("OPENAI_API_KEY is required"))
	}
	if cfg.Port == "" {
		errs = multierror.Append(errs, fmt.Errorf("PORT must not be empty"))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	return cfg, nil
}
