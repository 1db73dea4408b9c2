// Package config handles XDG configuration directory, config file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "tasklist"

	// ConfigFile is the optional TOML settings filename.
	ConfigFile = "config.toml"

	// EnvFile is the optional dotenv filename.
	EnvFile = ".env"

	// DefaultBaseURL is where the task application listens in development.
	DefaultBaseURL = "http://localhost:9000"

	// DefaultCSRFCookie is the cookie the server framework issues the
	// anti-forgery token in.
	DefaultCSRFCookie = "PLAY_CSRF_TOKEN"

	// DefaultTimeout bounds every API request.
	DefaultTimeout = 10 * time.Second

	// DefaultNotifyTTL is how long a notification stays visible.
	DefaultNotifyTTL = 5 * time.Second

	// DefaultAdminPath serves the admin users dashboard.
	DefaultAdminPath = "/admin/users"
)

// Environment variables that override the config file.
const (
	EnvBaseURL    = "TASKLIST_URL"
	EnvCSRFCookie = "TASKLIST_CSRF_COOKIE"
	EnvAPIToken   = "TASKLIST_API_TOKEN"
	EnvTimeout    = "TASKLIST_TIMEOUT"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// BaseURL is the task application root, e.g. http://localhost:9000.
	BaseURL string

	// CSRFCookie names the cookie holding the anti-forgery token.
	CSRFCookie string

	// APIToken is an optional bearer token sent with every request.
	APIToken string

	// Timeout bounds each request.
	Timeout time.Duration

	// NotifyTTL is the auto-dismiss delay for notifications.
	NotifyTTL time.Duration

	// AdminPath is the path of the admin users dashboard.
	AdminPath string

	// LogLevel is one of DEBUG, INFO, WARN, ERROR.
	LogLevel string

	// LogFile, when set, receives logs instead of stderr.
	LogFile string
}

// fileConfig mirrors config.toml.
type fileConfig struct {
	BaseURL    string `toml:"base_url"`
	CSRFCookie string `toml:"csrf_cookie"`
	APIToken   string `toml:"api_token"`
	Timeout    string `toml:"timeout"`
	NotifyTTL  string `toml:"notify_ttl"`
	AdminPath  string `toml:"admin_path"`
	LogLevel   string `toml:"log_level"`
	LogFile    string `toml:"log_file"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tasklist or $HOME/.config/tasklist.
// Only defaults are applied; call Load to read the file and environment.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:        dir,
		BaseURL:    DefaultBaseURL,
		CSRFCookie: DefaultCSRFCookie,
		Timeout:    DefaultTimeout,
		NotifyTTL:  DefaultNotifyTTL,
		AdminPath:  DefaultAdminPath,
		LogLevel:   "INFO",
	}, nil
}

// Load reads config.toml and .env from the config directory, then applies
// environment overrides. Missing files are not an error.
func (c *Config) Load() error {
	var fc fileConfig
	if _, err := toml.DecodeFile(c.FilePath(), &fc); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	} else if err := c.applyFile(fc); err != nil {
		return err
	}

	// godotenv.Load never overrides variables already set in the process.
	for _, p := range []string{c.EnvPath(), EnvFile} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("invalid %s: %w", p, err)
		}
	}

	return c.applyEnv()
}

func (c *Config) applyFile(fc fileConfig) error {
	if fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if fc.CSRFCookie != "" {
		c.CSRFCookie = fc.CSRFCookie
	}
	if fc.APIToken != "" {
		c.APIToken = fc.APIToken
	}
	if fc.AdminPath != "" {
		c.AdminPath = fc.AdminPath
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.LogFile != "" {
		c.LogFile = fc.LogFile
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", fc.Timeout, err)
		}
		c.Timeout = d
	}
	if fc.NotifyTTL != "" {
		d, err := time.ParseDuration(fc.NotifyTTL)
		if err != nil {
			return fmt.Errorf("invalid notify_ttl %q: %w", fc.NotifyTTL, err)
		}
		c.NotifyTTL = d
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCSRFCookie)); v != "" {
		c.CSRFCookie = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIToken)); v != "" {
		c.APIToken = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTimeout, v, err)
		}
		c.Timeout = d
	}
	return nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base url: %q", c.BaseURL)
	}
	if strings.TrimSpace(c.CSRFCookie) == "" {
		return errors.New("csrf cookie name required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	if c.NotifyTTL <= 0 {
		return fmt.Errorf("invalid notify ttl: %s", c.NotifyTTL)
	}
	return nil
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

// FilePath returns the path to config.toml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// EnvPath returns the path to the config directory's .env file.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Dir, EnvFile)
}
