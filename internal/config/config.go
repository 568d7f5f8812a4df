// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Bot       BotConfig       `mapstructure:"bot"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Bets      BetsConfig      `mapstructure:"bets"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Crash     CrashConfig     `mapstructure:"crash"`
	Balloon   BalloonConfig   `mapstructure:"balloon"`
	Account   AccountConfig   `mapstructure:"account"`
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token string `mapstructure:"token"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// AdminConfig holds admin user configuration.
type AdminConfig struct {
	IDs []int64 `mapstructure:"ids"`
}

// BetsConfig holds global stake bounds in cents.
type BetsConfig struct {
	Min int64 `mapstructure:"min"`
	Max int64 `mapstructure:"max"`
}

// RateLimitConfig holds the per-user minimum inter-action spacing.
type RateLimitConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// CrashConfig holds the growth game parameters.
type CrashConfig struct {
	HouseEdge     float64       `mapstructure:"house_edge"`
	TickInterval  time.Duration `mapstructure:"tick_interval"`
	Step          float64       `mapstructure:"step"`
	MaxMultiplier float64       `mapstructure:"max_multiplier"`
}

// BalloonConfig holds the balloon game parameters. The payout curve itself
// (+0.2 per pump up to 10.0) is fixed table data, not configuration.
type BalloonConfig struct {
	PopChance float64 `mapstructure:"pop_chance"`
}

// AccountConfig holds account defaults.
type AccountConfig struct {
	InitialBalance int64 `mapstructure:"initial_balance"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. BOT_TOKEN, DATABASE_HOST, BETS_MAX
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional - env vars can provide all config
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

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "casino")
	v.SetDefault("database.name", "casino")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Stakes: $0.20 minimum, $1000 maximum, in cents
	v.SetDefault("bets.min", 20)
	v.SetDefault("bets.max", 100000)

	v.SetDefault("ratelimit.interval", "400ms")

	// Crash defaults
	v.SetDefault("crash.house_edge", 0.05)
	v.SetDefault("crash.tick_interval", "100ms")
	v.SetDefault("crash.step", 0.01)
	v.SetDefault("crash.max_multiplier", 25.0)

	// Balloon defaults
	v.SetDefault("balloon.pop_chance", 0.15)

	v.SetDefault("account.initial_balance", 0)
}

// IsAdmin checks if a user ID is in the admin list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Admin.IDs {
		if id == userID {
			return true
		}
	}
	return false
}
