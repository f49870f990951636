package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds every runtime setting. Values come from environment variables,
// optionally layered over a file named by CONFIG_FILE.
type Config struct {
	HTTPAddr           string        `mapstructure:"http_addr"`
	HTTPBasePath       string        `mapstructure:"http_base_path"`
	HTTPSwagger        bool          `mapstructure:"http_swagger"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`

	Store         string `mapstructure:"store"`
	DatabaseURL   string `mapstructure:"database_url"`
	DBAutoMigrate bool   `mapstructure:"db_auto_migrate"`

	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`

	LogFormat string `mapstructure:"log_format"`
	LogLevel  string `mapstructure:"log_level"`

	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

var defaults = map[string]any{
	"http_addr":            ":8080",
	"http_base_path":       "",
	"http_swagger":         true,
	"shutdown_timeout":     10 * time.Second,
	"cors_allowed_origins": []string{"*"},
	"store":                StorePostgres,
	"database_url":         "",
	"db_auto_migrate":      true,
	"redis_addr":           "",
	"redis_password":       "",
	"redis_db":             0,
	"cache_ttl":            5 * time.Minute,
	"log_format":           "text",
	"log_level":            "info",
	"rate_limit_rps":       10.0,
	"rate_limit_burst":     20,
}

// Load builds the configuration and checks it for consistency.
func Load() (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.HTTPBasePath = strings.TrimRight(cfg.HTTPBasePath, "/")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations the service cannot start with.
func (c Config) Validate() error {
	var errs []error

	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE=postgres"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE %q", c.Store))
	}

	if c.HTTPBasePath != "" && !strings.HasPrefix(c.HTTPBasePath, "/") {
		errs = append(errs, fmt.Errorf("HTTP_BASE_PATH must start with '/', got %q", c.HTTPBasePath))
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST cannot be negative"))
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must be at least 1 when RATE_LIMIT_RPS is set"))
	}
	if c.RedisAddr != "" && c.CacheTTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL must be positive when REDIS_ADDR is set"))
	}

	return errors.Join(errs...)
}
