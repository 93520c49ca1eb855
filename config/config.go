// Package config loads service configuration from an optional YAML file,
// a .env file and LEASECALC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"lease-engine/service"
)

const envPrefix = "LEASECALC"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"      yaml:"server"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"  yaml:"rate_limit"`
	Redis     RedisConfig     `mapstructure:"redis"       yaml:"redis"`
	Memory    MemoryConfig    `mapstructure:"memory_cache" yaml:"memory_cache"`
	Database  DatabaseConfig  `mapstructure:"database"    yaml:"database"`
	Market    MarketConfig    `mapstructure:"market"      yaml:"market"`
	Logging   LoggingConfig   `mapstructure:"logging"     yaml:"logging"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"             yaml:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    yaml:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"     yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// RateLimitConfig allows Requests per client every Period.
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests" yaml:"requests"`
	Period   time.Duration `mapstructure:"period"   yaml:"period"`
}

type RedisConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	Addr    string        `mapstructure:"addr"    yaml:"addr"`
	TTL     time.Duration `mapstructure:"ttl"     yaml:"ttl"`
}

// MemoryConfig bounds the in-process cache used when redis is disabled.
type MemoryConfig struct {
	TTL      time.Duration `mapstructure:"ttl"       yaml:"ttl"`
	MaxBytes int64         `mapstructure:"max_bytes" yaml:"max_bytes"`
}

// DatabaseConfig selects postgres persistence when URL is set; otherwise
// results are kept in memory.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

type MarketConfig struct {
	BaseRate               float64 `mapstructure:"base_rate"                yaml:"base_rate"`
	CreditSpread           float64 `mapstructure:"credit_spread"            yaml:"credit_spread"`
	AssetTypeMultiplier    float64 `mapstructure:"asset_type_multiplier"    yaml:"asset_type_multiplier"`
	DefaultCurrency        string  `mapstructure:"default_currency"         yaml:"default_currency"`
	CurrencyRiskAdjustment float64 `mapstructure:"currency_risk_adjustment" yaml:"currency_risk_adjustment"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// MarketDefaults converts the market section for the rate resolver.
func (c MarketConfig) MarketDefaults() service.MarketDefaults {
	return service.MarketDefaults{
		BaseRate:               c.BaseRate,
		CreditSpread:           c.CreditSpread,
		AssetTypeMultiplier:    c.AssetTypeMultiplier,
		DefaultCurrency:        c.DefaultCurrency,
		CurrencyRiskAdjustment: c.CurrencyRiskAdjustment,
	}
}

// Load reads configuration. When path is empty it looks for config.yaml in
// ./config and the working directory and carries on with defaults if none
// exists. Environment variables (LEASECALC_<SECTION>_<KEY>) win over the file.
func Load(path string) (*Config, error) {
	// .env es opcional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.RateLimit.Requests <= 0 || c.RateLimit.Period <= 0 {
		return fmt.Errorf("rate_limit.requests and rate_limit.period must be positive")
	}
	if len(c.Market.DefaultCurrency) != 3 {
		return fmt.Errorf("market.default_currency must be a 3-letter code, got %q", c.Market.DefaultCurrency)
	}
	if c.Memory.TTL <= 0 || c.Memory.MaxBytes <= 0 {
		return fmt.Errorf("memory_cache.ttl and memory_cache.max_bytes must be positive")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("rate_limit.requests", 5)
	v.SetDefault("rate_limit.period", time.Minute)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.ttl", time.Hour)

	v.SetDefault("memory_cache.ttl", time.Hour)
	v.SetDefault("memory_cache.max_bytes", 64<<20)

	v.SetDefault("database.url", "")

	v.SetDefault("market.base_rate", service.DefaultBaseRate)
	v.SetDefault("market.credit_spread", service.DefaultCreditSpread)
	v.SetDefault("market.asset_type_multiplier", service.DefaultAssetTypeMultiplier)
	v.SetDefault("market.default_currency", service.DefaultCurrency)
	v.SetDefault("market.currency_risk_adjustment", service.DefaultCurrencyRiskAdjustment)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}
