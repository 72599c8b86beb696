// Package config loads client settings from an optional YAML file and FDAPI_ environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/RassulYunussov/fdapi"
	"github.com/RassulYunussov/fdapi/identity"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "FDAPI"
	configName = "fdapi"

	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

type Config struct {
	BaseURL                  string        `mapstructure:"BASE_URL"`
	Timeout                  time.Duration `mapstructure:"TIMEOUT"`
	RetryMax                 uint8         `mapstructure:"RETRY_MAX"`
	RetryBackoff             time.Duration `mapstructure:"RETRY_BACKOFF"`
	BreakerMaxRequests       uint32        `mapstructure:"BREAKER_MAX_REQUESTS"`
	BreakerFailures          uint32        `mapstructure:"BREAKER_FAILURES"`
	BreakerInterval          time.Duration `mapstructure:"BREAKER_INTERVAL"`
	BreakerTimeout           time.Duration `mapstructure:"BREAKER_TIMEOUT"`
	RateLimitEnabled         bool          `mapstructure:"RATE_LIMIT_ENABLED"`
	RateLimitRPS             float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst           int           `mapstructure:"RATE_LIMIT_BURST"`
	RateLimitResetHeader     string        `mapstructure:"RATE_LIMIT_RESET_HEADER"`
	RateLimitRemainingHeader string        `mapstructure:"RATE_LIMIT_REMAINING_HEADER"`
	Store                    string        `mapstructure:"STORE"`
	StatePath                string        `mapstructure:"STATE_PATH"`
	RedisAddress             string        `mapstructure:"REDIS_ADDRESS"`
	RedisPrefix              string        `mapstructure:"REDIS_PREFIX"`
	LogLevel                 string        `mapstructure:"LOG_LEVEL"`
}

var defaults = map[string]any{
	"BASE_URL":                    "http://localhost:3000/api",
	"TIMEOUT":                     30 * time.Second,
	"RETRY_MAX":                   3,
	"RETRY_BACKOFF":               300 * time.Millisecond,
	"BREAKER_MAX_REQUESTS":        1,
	"BREAKER_FAILURES":            5,
	"BREAKER_INTERVAL":            60 * time.Second,
	"BREAKER_TIMEOUT":             30 * time.Second,
	"RATE_LIMIT_ENABLED":          true,
	"RATE_LIMIT_RPS":              0,
	"RATE_LIMIT_BURST":            1,
	"RATE_LIMIT_RESET_HEADER":     "X-RateLimit-Reset",
	"RATE_LIMIT_REMAINING_HEADER": "X-RateLimit-Remaining",
	"STORE":                       StoreFile,
	"STATE_PATH":                  "",
	"REDIS_ADDRESS":               "localhost:6379",
	"REDIS_PREFIX":                "fdapi:",
	"LOG_LEVEL":                   "info",
}

// LoadConfig reads path when given, otherwise fdapi.yaml from the working directory if
// present. Environment variables override both.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err = v.ReadInConfig(); err != nil {
			return config, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		var notFound viper.ConfigFileNotFoundError
		if err = v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return config, fmt.Errorf("unable to read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, err
	}
	return config, config.Validate()
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base url %q must be an absolute http(s) url", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	switch c.Store {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q, expected %s, %s or %s", c.Store, StoreMemory, StoreFile, StoreRedis)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return nil
}

// Options turns the resilience settings into client options. A zero retry count or
// failure threshold leaves that policy off.
func (c *Config) Options() []fdapi.Option {
	var opts []fdapi.Option
	if c.RetryMax > 0 {
		opts = append(opts, fdapi.WithRetry(c.RetryMax, c.RetryBackoff))
	}
	if c.BreakerFailures > 0 {
		opts = append(opts, fdapi.WithCircuitBreaker(c.BreakerMaxRequests, c.BreakerFailures, c.BreakerInterval, c.BreakerTimeout))
	}
	if c.RateLimitEnabled {
		opts = append(opts,
			fdapi.WithRateLimit(c.RateLimitRPS, c.RateLimitBurst),
			fdapi.WithRateLimitHeaders(c.RateLimitResetHeader, c.RateLimitRemainingHeader),
		)
	}
	return opts
}

func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// OpenStore opens the configured state store. The returned close function is never nil.
func (c *Config) OpenStore(ctx context.Context) (identity.Store, func() error, error) {
	noClose := func() error { return nil }
	switch c.Store {
	case StoreMemory:
		return identity.NewMemoryStore(), noClose, nil
	case StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: c.RedisAddress})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noClose, fmt.Errorf("unable to reach redis at %s: %w", c.RedisAddress, err)
		}
		return identity.NewRedisStore(client, c.RedisPrefix), client.Close, nil
	}
	path := c.StatePath
	if path == "" {
		var err error
		if path, err = identity.DefaultStatePath(); err != nil {
			return nil, noClose, err
		}
	}
	return identity.NewFileStore(path), noClose, nil
}
