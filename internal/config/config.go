// Package config loads the catalog settings from defaults, an optional
// config file and CATALOG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const EnvPrefix = "CATALOG"

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	BasePath        string        `mapstructure:"base_path"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type StorageConfig struct {
	// Driver is one of memory, postgres, sqlite.
	Driver      string `mapstructure:"driver"`
	DatabaseURL string `mapstructure:"database_url"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	Migrate     bool   `mapstructure:"migrate"`
}

type RedisConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Addr    string        `mapstructure:"addr"`
	Prefix  string        `mapstructure:"prefix"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type AuthConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Secret        string        `mapstructure:"secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	AdminUsername string        `mapstructure:"admin_username"`
	AdminPassword string        `mapstructure:"admin_password"`
}

type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	RPS     float64       `mapstructure:"rps"`
	Burst   int           `mapstructure:"burst"`
	Idle    time.Duration `mapstructure:"idle"`
}

type ClientConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Token   string        `mapstructure:"token"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Client    ClientConfig    `mapstructure:"client"`
}

var defaults = map[string]any{
	"server.addr":             ":3002",
	"server.base_path":        "/bp",
	"server.shutdown_timeout": 10 * time.Second,

	"log.level":  "info",
	"log.format": "text",

	"storage.driver":       "memory",
	"storage.database_url": "",
	"storage.sqlite_path":  "catalog.db",
	"storage.migrate":      true,

	"redis.enabled": false,
	"redis.addr":    "localhost:6379",
	"redis.prefix":  "catalog",
	"redis.ttl":     5 * time.Minute,

	"auth.enabled":        false,
	"auth.secret":         "",
	"auth.token_ttl":      time.Hour,
	"auth.admin_username": "admin",
	"auth.admin_password": "",

	"rate_limit.enabled": true,
	"rate_limit.rps":     5.0,
	"rate_limit.burst":   20,
	"rate_limit.idle":    3 * time.Minute,

	"client.base_url": "http://localhost:3002/bp",
	"client.timeout":  10 * time.Second,
	"client.token":    "",
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "sqlite":
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			return errors.New("storage.database_url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("server.base_path must start with '/', got %q", c.Server.BasePath)
	}

	if c.Auth.Enabled {
		if c.Auth.Secret == "" {
			return errors.New("auth.secret is required when auth is enabled")
		}
		if c.Auth.AdminPassword == "" {
			return errors.New("auth.admin_password is required when auth is enabled")
		}
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return errors.New("rate_limit.rps and rate_limit.burst must be positive")
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return errors.New("redis.addr is required when redis is enabled")
	}
	return nil
}

// Loader owns the viper instance and hands out the current Config.
type Loader struct {
	v           *viper.Viper
	mu          sync.RWMutex
	cfg         *Config
	subscribers []func(*Config)
}

// Load reads defaults, then file (if not empty), then the environment.
func Load(file string) (*Loader, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType(strings.TrimPrefix(filepath.Ext(file), "."))
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	return &Loader{v: v, cfg: cfg}, nil
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Get returns the current configuration.
func (l *Loader) Get() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// Subscribe registers fn to be called with every reloaded configuration.
func (l *Loader) Subscribe(fn func(*Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscribers = append(l.subscribers, fn)
}

// Watch reloads the config file on change. An invalid file keeps the
// previous configuration and is reported to onError.
func (l *Loader) Watch(onError func(error)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if err := l.reload(); err != nil && onError != nil {
			onError(fmt.Errorf("%s: %w", e.Name, err))
		}
	})
	l.v.WatchConfig()
}

func (l *Loader) reload() error {
	cfg, err := decode(l.v)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.cfg = cfg
	subscribers := make([]func(*Config), len(l.subscribers))
	copy(subscribers, l.subscribers)
	l.mu.Unlock()

	for _, fn := range subscribers {
		fn(cfg)
	}
	return nil
}
