package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment names recognized by validation.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Admin     AdminConfig
	Retention RetentionConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DatabaseConfig holds the embedded store configuration
type DatabaseConfig struct {
	// Path is the sqlite database file; ":memory:" is accepted for tests.
	Path            string        `mapstructure:"path"`
	BusyTimeout     time.Duration `mapstructure:"busy_timeout"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// AdminConfig holds the static shared secret protecting manager endpoints.
// The mechanism is deliberately a per-request password compare; see the
// dashboard login flow.
type AdminConfig struct {
	Password string `mapstructure:"password"`
}

// RetentionConfig controls the on-demand cleanup of old label records
type RetentionConfig struct {
	MaxAgeDays int `mapstructure:"max_age_days"`
}

// Validate checks that the configuration is valid for the given environment.
func (c *Config) Validate() error {
	env := c.Server.Environment
	if env == EnvProduction || env == EnvStaging {
		if c.Database.Path == "" || c.Database.Path == ":memory:" {
			return errors.New("FACTORY_DATABASE_PATH must point to a persistent file in " + env)
		}
		if c.Admin.Password == "" || c.Admin.Password == "admin123" {
			return errors.New("FACTORY_ADMIN_PASSWORD must be set to a non-default value in " + env)
		}
	}
	if c.Retention.MaxAgeDays <= 0 {
		return errors.New("retention.max_age_days must be positive")
	}
	return nil
}

// Load loads configuration from environment and config files.
// This function applies development defaults and is suitable for local use.
func Load(serviceName string) (*Config, error) {
	return loadConfig(serviceName)
}

// LoadWithValidation loads configuration and validates it for the current
// environment. Use this in main() for fail-fast behavior.
func LoadWithValidation(serviceName string) (*Config, error) {
	cfg, err := loadConfig(serviceName)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

func loadConfig(serviceName string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("FACTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read from config file if exists
	v.SetConfigName(serviceName)
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pipetrack")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.environment", EnvDevelopment)

	// Database defaults
	v.SetDefault("database.path", "pvc_factory.db")
	v.SetDefault("database.busy_timeout", 10*time.Second)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Duration(0))

	// Admin defaults
	v.SetDefault("admin.password", "admin123")

	// Retention defaults
	v.SetDefault("retention.max_age_days", 30)
}
