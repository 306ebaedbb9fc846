package core

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort           = 8080
	defaultDataDir        = "data"
	defaultImagesDir      = "images"
	defaultThumbnailWidth = 320
)

// CacheConfig configures the optional Redis bundle cache. The viewer is
// fully functional with the cache disabled; bundles are then re-read from
// disk on every request.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Addr       string `yaml:"addr"`
	TTLSeconds int    `yaml:"ttlSeconds" validate:"gte=0"`
}

type ServiceConfig struct {
	Port           int         `yaml:"port" validate:"gt=0,lte=65535"`
	DataDir        string      `yaml:"dataDir" validate:"required"`
	ImagesDir      string      `yaml:"imagesDir" validate:"required"`
	ThumbnailWidth int         `yaml:"thumbnailWidth" validate:"gt=0"`
	Cache          CacheConfig `yaml:"cache"`
}

// LoadConfig loads configuration from the specified YAML file. Missing
// fields fall back to defaults; the PORT environment variable overrides the
// configured port, matching the container deployment contract.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := &ServiceConfig{
		Port:           defaultPort,
		DataDir:        defaultDataDir,
		ImagesDir:      defaultImagesDir,
		ThumbnailWidth: defaultThumbnailWidth,
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}
	return config, nil
}

func applyEnvOverrides(config *ServiceConfig) error {
	portEnv := os.Getenv("PORT")
	if portEnv == "" {
		return nil
	}
	port, err := strconv.Atoi(portEnv)
	if err != nil {
		return fmt.Errorf("invalid PORT environment variable %q: %w", portEnv, err)
	}
	config.Port = port
	return nil
}
