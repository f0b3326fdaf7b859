package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type API struct {
	// BaseURL must be the full URL of the deployed backend,
	// e.g. https://backend.example.com/api.
	BaseURL string        `env:"STOREFRONT_API_URL" env-required:"true"`
	Timeout time.Duration `env:"STOREFRONT_API_TIMEOUT" env-default:"15s"`
}

type Storage struct {
	// StatePath holds the auth token and the saved cart between runs.
	StatePath string `env:"STOREFRONT_STATE_PATH" env-default:""`
}

type Cloudinary struct {
	URL          string `env:"CLOUDINARY_URL" env-default:""`
	UploadPreset string `env:"CLOUDINARY_UPLOAD_PRESET" env-default:""`
}

type Config struct {
	API        API
	Storage    Storage
	Cloudinary Cloudinary
}

// Enabled reports whether payment-slip uploads can be performed. The
// bank-transfer checkout path requires it; everything else works without.
func (c Cloudinary) Enabled() bool {
	return c.URL != ""
}

func Load() (*Config, error) {

	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment config: %w", err)
	}

	if cfg.Storage.StatePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory for state path: %w", err)
		}

		cfg.Storage.StatePath = filepath.Join(home, ".storefront", "state.json")
	}

	return &cfg, nil
}
