package main

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"vocabquiz/internal/wordbank"
)

// Config is the runtime configuration, read from the environment (and an
// optional .env file) and then overridden by command-line flags.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	GinMode  string `env:"GIN_MODE"`
	Host     string `env:"HOST" envDefault:"0.0.0.0"`
	Port     string `env:"PORT" envDefault:"5246"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	WordsFile    string `env:"WORDS_FILE" envDefault:"data/common_words.txt"`
	WordSampling string `env:"WORD_SAMPLING" envDefault:"bucket"`

	SessionBackend         string        `env:"SESSION_BACKEND" envDefault:"memory"`
	SessionDir             string        `env:"SESSION_DIR" envDefault:"data/sessions"`
	SessionTimeout         time.Duration `env:"SESSION_TIMEOUT" envDefault:"2h"`
	SessionCleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"10m"`
	CookieMaxAge           time.Duration `env:"COOKIE_MAX_AGE" envDefault:"2h"`

	StaticCacheAge  time.Duration `env:"STATIC_CACHE_AGE" envDefault:"5m"`
	RateLimitRPS    int           `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst  int           `env:"RATE_LIMIT_BURST" envDefault:"10"`
	RateLimitIdle   time.Duration `env:"RATE_LIMIT_IDLE" envDefault:"10m"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Redis RedisConfig
}

// RedisConfig holds the Redis session backend connection.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// loadConfig reads .env (if present) and parses the environment.
func loadConfig() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release" || c.Env == "production"
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Sampling returns the parsed word sampling mode.
func (c *Config) Sampling() wordbank.Sampling {
	s, _ := wordbank.ParseSampling(c.WordSampling)
	return s
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if _, err := wordbank.ParseSampling(c.WordSampling); err != nil {
		errs = append(errs, err)
	}
	switch c.SessionBackend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown session backend %q (want memory, file or redis)", c.SessionBackend))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("port must not be empty"))
	}
	if c.RateLimitRPS <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %d", c.RateLimitRPS))
	}
	if c.RateLimitBurst <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_BURST must be positive, got %d", c.RateLimitBurst))
	}
	if c.SessionTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TIMEOUT must be positive, got %v", c.SessionTimeout))
	}
	return errors.Join(errs...)
}
