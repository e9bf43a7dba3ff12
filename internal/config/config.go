package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultServer is the API base used when none is configured
	DefaultServer = "http://localhost:3000/api"

	envPrefix = "ACTCTL"
	dirName   = ".actctl"
)

// Config client configuration
type Config struct {
	Server  string        `mapstructure:"server"`
	Request RequestConfig `mapstructure:"request"`
	Log     LogConfig     `mapstructure:"log"`
	Token   TokenConfig   `mapstructure:"token"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// RequestConfig transport timeouts
type RequestConfig struct {
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	Timeout     time.Duration `mapstructure:"timeout"` // per command
}

// LogConfig logging configuration
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	Output    string `mapstructure:"output"`
	FilePath  string `mapstructure:"file_path"`
	AddSource bool   `mapstructure:"add_source"`
}

// TokenConfig token storage configuration
type TokenConfig struct {
	Backend string `mapstructure:"backend"` // file, redis, memory
	Dir     string `mapstructure:"dir"`
	Key     string `mapstructure:"key"` // redis key
}

// RedisConfig redis connection, used by the redis token backend
type RedisConfig struct {
	URL      string `mapstructure:"url"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// DefaultDir returns the per-user config directory (~/.actctl)
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("server", DefaultServer)
	v.SetDefault("request.dial_timeout", 10*time.Second)
	v.SetDefault("request.read_timeout", 30*time.Second)
	v.SetDefault("request.timeout", 60*time.Second)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("token.backend", "file")
	v.SetDefault("token.dir", dir)
	v.SetDefault("token.key", "actctl:token")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
}

// Load loads the configuration.
// An explicit configPath must exist; otherwise config.yaml is looked up in
// ~/.actctl and the working directory and is optional.
func Load(configPath string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, dir)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid server URL: %q", c.Server)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server scheme: %s, must be 'http' or 'https'", u.Scheme)
	}

	if c.Request.DialTimeout <= 0 || c.Request.ReadTimeout <= 0 || c.Request.Timeout <= 0 {
		return fmt.Errorf("request timeouts must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s, must be 'json' or 'text'", c.Log.Format)
	}

	switch c.Token.Backend {
	case "file":
		if c.Token.Dir == "" {
			return fmt.Errorf("token.dir is required for the file backend")
		}
	case "redis":
		if c.Redis.URL == "" && c.Redis.Addr == "" {
			return fmt.Errorf("redis.url or redis.addr is required for the redis backend")
		}
		if c.Token.Key == "" {
			return fmt.Errorf("token.key is required for the redis backend")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid token backend: %s, must be 'file', 'redis' or 'memory'", c.Token.Backend)
	}

	return nil
}
