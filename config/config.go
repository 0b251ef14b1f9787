package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/milk9111/categories/category"
)

// Config holds the settings shared by the game runtime and the authoring CLI.
type Config struct {
	Categories CategoryConfig
	Logging    LogConfig
}

// CategoryConfig locates the category table asset.
type CategoryConfig struct {
	AssetPath string `envconfig:"CATEGORIES_ASSET" default:"assets/category/categories.yaml"`
	// Debug logs every registration and deregistration.
	Debug bool `envconfig:"CATEGORIES_DEBUG" default:"false"`
}

type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: load: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault falls back to Default when the environment is malformed.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

func Default() *Config {
	return &Config{
		Categories: CategoryConfig{
			AssetPath: category.DefaultAssetPath,
		},
		Logging: LogConfig{
			Level: "info",
		},
	}
}
