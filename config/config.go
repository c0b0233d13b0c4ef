package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pricelens/backend/internal/domain"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	Search SearchConfig
	Cache  CacheConfig
	Export ExportConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SearchConfig holds marketplace search configuration
type SearchConfig struct {
	Regions           []string      `mapstructure:"regions"`
	MaxPerRegion      int           `mapstructure:"max_per_region"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// ExportConfig holds spreadsheet export configuration
type ExportConfig struct {
	FilenamePrefix string `mapstructure:"filename_prefix"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricelens/")

	// Environment variable settings
	v.SetEnvPrefix("PRICELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Search defaults
	v.SetDefault("search.regions", []string{"us"})
	v.SetDefault("search.max_per_region", 5)
	v.SetDefault("search.request_timeout", "15s")
	v.SetDefault("search.requests_per_minute", 60)

	// Cache defaults
	v.SetDefault("cache.ttl", "15m")

	// Export defaults
	v.SetDefault("export.filename_prefix", "price_comparison")
}

// validate validates the configuration
func validate(config *Config) error {
	if len(config.Search.Regions) == 0 {
		return fmt.Errorf("at least one search region is required")
	}
	if _, err := domain.ParseRegions(config.Search.Regions); err != nil {
		return err
	}

	if config.Search.MaxPerRegion <= 0 {
		return fmt.Errorf("search.max_per_region must be positive, got: %d", config.Search.MaxPerRegion)
	}

	if config.Search.RequestTimeout <= 0 {
		return fmt.Errorf("search.request_timeout must be positive, got: %s", config.Search.RequestTimeout)
	}

	return nil
}
