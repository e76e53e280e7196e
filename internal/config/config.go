package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/jakeswenson/bear-query/internal/database"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Security SecurityConfig `mapstructure:"security"`
	Query    QueryConfig    `mapstructure:"query"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
	Host string `mapstructure:"host"`
}

type DatabaseConfig struct {
	// Path to the note database. Empty means the per-user default location.
	Path          string `mapstructure:"path"`
	BusyTimeoutMS int    `mapstructure:"busy_timeout_ms"`
	MaxOpenConns  int    `mapstructure:"max_open_conns"`
}

type SecurityConfig struct {
	JWTSecret          string        `mapstructure:"jwt_secret"`
	JWTExpiration      time.Duration `mapstructure:"jwt_expiration"`
	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute"`
	RateLimitBurst     int           `mapstructure:"rate_limit_burst"`
	EnableAuth         bool          `mapstructure:"enable_auth"`
	EnableRateLimit    bool          `mapstructure:"enable_rate_limit"`
}

type QueryConfig struct {
	MaxQueryLength int `mapstructure:"max_query_length"`
	DefaultTimeout int `mapstructure:"default_timeout_seconds"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Set default values
	if err := setDefaults(); err != nil {
		return nil, err
	}

	// Enable environment variable support
	viper.SetEnvPrefix("BEARQUERY")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, use defaults and environment
			fmt.Println("Config file not found, using defaults and environment variables")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// StoreConfig converts the loaded settings into the store's open options.
func (c *Config) StoreConfig() database.Config {
	return database.Config{
		Path:          c.Database.Path,
		BusyTimeoutMS: c.Database.BusyTimeoutMS,
		MaxOpenConns:  c.Database.MaxOpenConns,
	}
}

func setDefaults() error {
	// Server defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.host", "0.0.0.0")

	// Database defaults
	defaultPath, err := database.DefaultPath()
	if err != nil {
		return fmt.Errorf("resolving default database path: %w", err)
	}
	viper.SetDefault("database.path", defaultPath)
	viper.SetDefault("database.busy_timeout_ms", 5000)
	viper.SetDefault("database.max_open_conns", 4)

	// Security defaults
	viper.SetDefault("security.jwt_secret", "change-me")
	viper.SetDefault("security.jwt_expiration", "24h")
	viper.SetDefault("security.rate_limit_per_minute", 60)
	viper.SetDefault("security.rate_limit_burst", 10)
	viper.SetDefault("security.enable_auth", false)
	viper.SetDefault("security.enable_rate_limit", true)

	// Query defaults
	viper.SetDefault("query.max_query_length", 10000)
	viper.SetDefault("query.default_timeout_seconds", 30)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	return nil
}
