// Package config handles the configuration directory, file paths and settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "taskboard"

	// TokenFile is the stored session filename.
	TokenFile = "token.json"

	// SettingsFile is the optional YAML settings filename.
	SettingsFile = "settings.yaml"

	// EnvFile is the optional dotenv filename.
	EnvFile = ".env"

	// LogFile is the rotating log filename.
	LogFile = "taskboard.log"

	// DefaultAPIURL is the backend base address.
	DefaultAPIURL = "http://localhost:8080/api"

	// DefaultTimeout is the per-request deadline.
	DefaultTimeout = 5 * time.Second

	// DefaultCreateTimeout bounds the task-create step of the composite creation flow.
	DefaultCreateTimeout = 10 * time.Second

	// DefaultBreakerFailures is the number of consecutive failures that opens the breaker.
	DefaultBreakerFailures = 3

	// DefaultBreakerCooldown is how long the breaker stays open.
	DefaultBreakerCooldown = 5 * time.Second
)

// Environment variables that override settings.yaml.
const (
	EnvAPIURL  = "TASKBOARD_API_URL"
	EnvTimeout = "TASKBOARD_TIMEOUT"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// APIURL is the backend base address without a trailing slash.
	APIURL string

	// Timeout is the per-request deadline.
	Timeout time.Duration

	// CreateTimeout bounds the task-create step of `add`.
	CreateTimeout time.Duration

	// Breaker configures the circuit breaker around authenticated calls.
	Breaker BreakerSettings
}

// BreakerSettings configures the REST circuit breaker.
type BreakerSettings struct {
	MaxFailures uint32
	Cooldown    time.Duration
}

// settingsFile mirrors settings.yaml.
type settingsFile struct {
	APIURL        string `yaml:"api_url"`
	Timeout       string `yaml:"timeout"`
	CreateTimeout string `yaml:"create_timeout"`
	Breaker       struct {
		MaxFailures uint32 `yaml:"max_failures"`
		Cooldown    string `yaml:"cooldown"`
	} `yaml:"breaker"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskboard or $HOME/.config/taskboard.
// Settings come from defaults, then settings.yaml, then the environment
// (including variables from the directory's .env file).
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	cfg.applyDefaults()

	if err := cfg.loadSettings(); err != nil {
		return nil, err
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func (c *Config) applyDefaults() {
	c.APIURL = DefaultAPIURL
	c.Timeout = DefaultTimeout
	c.CreateTimeout = DefaultCreateTimeout
	c.Breaker = BreakerSettings{
		MaxFailures: DefaultBreakerFailures,
		Cooldown:    DefaultBreakerCooldown,
	}
}

func (c *Config) loadSettings() error {
	data, err := os.ReadFile(c.SettingsPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}

	var s settingsFile
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid %s: %w", SettingsFile, err)
	}

	if s.APIURL != "" {
		c.APIURL = s.APIURL
	}
	if c.Timeout, err = durationOr(s.Timeout, c.Timeout); err != nil {
		return fmt.Errorf("invalid %s: timeout: %w", SettingsFile, err)
	}
	if c.CreateTimeout, err = durationOr(s.CreateTimeout, c.CreateTimeout); err != nil {
		return fmt.Errorf("invalid %s: create_timeout: %w", SettingsFile, err)
	}
	if s.Breaker.MaxFailures > 0 {
		c.Breaker.MaxFailures = s.Breaker.MaxFailures
	}
	if c.Breaker.Cooldown, err = durationOr(s.Breaker.Cooldown, c.Breaker.Cooldown); err != nil {
		return fmt.Errorf("invalid %s: breaker.cooldown: %w", SettingsFile, err)
	}
	return nil
}

// loadEnv loads the directory's .env (without overriding variables already set)
// and applies environment overrides.
func (c *Config) loadEnv() error {
	if _, err := os.Stat(c.EnvPath()); err == nil {
		if err := godotenv.Load(c.EnvPath()); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvFile, err)
		}
	}

	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	return nil
}

func durationOr(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	return time.ParseDuration(s)
}

// RequestTimeout returns the per-request deadline, falling back to the default.
func (c *Config) RequestTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// TaskCreateTimeout returns the composite-flow create deadline, falling back to the default.
func (c *Config) TaskCreateTimeout() time.Duration {
	if c.CreateTimeout <= 0 {
		return DefaultCreateTimeout
	}
	return c.CreateTimeout
}

// BaseURL returns the backend address, falling back to the default.
func (c *Config) BaseURL() string {
	if c.APIURL == "" {
		return DefaultAPIURL
	}
	return c.APIURL
}

// TokenPath returns the path to the stored session file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// SettingsPath returns the path to settings.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// EnvPath returns the path to the .env file.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Dir, EnvFile)
}

// LogPath returns the path to the log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
