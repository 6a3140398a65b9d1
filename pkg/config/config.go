// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config represents the API server configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Business BusinessConfig `mapstructure:"business"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" default:"8080" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" default:"30s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" default:"30s"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" default:"60s"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" default:"60s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" default:"30s"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host" default:"localhost"`
	Port     int    `mapstructure:"port" default:"5432"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database" validate:"required"`
	SSLMode  string `mapstructure:"ssl_mode" default:"disable"`
}

// SessionConfig contains session token settings
type SessionConfig struct {
	// Secret signs session tokens. Required; there is no insecure fallback.
	Secret   string        `mapstructure:"secret" validate:"required,min=32"`
	TokenTTL time.Duration `mapstructure:"token_ttl" default:"336h"`
	// ResetTokenTTL bounds the lifetime of one-time password-reset tokens.
	ResetTokenTTL time.Duration `mapstructure:"reset_token_ttl" default:"15m"`
	CookieName    string        `mapstructure:"cookie_name" default:"optima_session"`
	SecureCookie  bool          `mapstructure:"secure_cookie"`
}

// BusinessConfig gathers every tunable business constant in one place.
// Per-account values stored on the ledger override these; the entries here are
// the fallbacks applied when an account field is unset.
type BusinessConfig struct {
	// DefaultDailyLimit caps submissions per local day when the ledger has no limit.
	DefaultDailyLimit int `mapstructure:"default_daily_limit" default:"165"`
	// DefaultFreezingPoint is the optimization-count threshold fallback.
	DefaultFreezingPoint int `mapstructure:"default_freezing_point" default:"103"`
	// SignupDailyLimit seeds the ledger row created at registration.
	SignupDailyLimit int `mapstructure:"signup_daily_limit" default:"500"`

	// Frozen-entry reward fallbacks, used when no per-user override exists.
	FrozenRewardUSDC   float64 `mapstructure:"frozen_reward_usdc" default:"7500"`
	FrozenRewardProfit float64 `mapstructure:"frozen_reward_profit" default:"800"`
	// Pending-entry reward fallbacks for the paired submission at the freezing point.
	PendingRewardUSDC   float64 `mapstructure:"pending_reward_usdc" default:"1200"`
	PendingRewardProfit float64 `mapstructure:"pending_reward_profit" default:"400"`

	// HouseReferralCode is always accepted and never consumed.
	HouseReferralCode string `mapstructure:"house_referral_code" default:"TYLX98M"`
}

// JobsConfig contains background job settings
type JobsConfig struct {
	// ProfitResetSpec is the cron spec for the daily todaysProfit reset.
	ProfitResetSpec string `mapstructure:"profit_reset_spec" default:"0 0 * * *"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level" default:"info"`
	Format     string `mapstructure:"format" default:"json"`
	OutputPath string `mapstructure:"output_path"`
}

// Load reads, defaults, and validates the configuration file at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("OPTIMA")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// GetConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) GetConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}
