package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appDirName     = "clipdeck"
	configFileName = "config.yaml"
	logFileName    = "clipdeck.log"

	defaultAPIURL         = "http://localhost:5000"
	defaultPollInterval   = 1500 * time.Millisecond
	defaultRequestTimeout = 30 * time.Second
	defaultPlayer         = "mpv"
	defaultLogLevel       = "info"

	// StartPlaceholder in player args is replaced with the seek position in seconds
	StartPlaceholder = "{start}"
	// EnvAPIURL overrides api_url from the config file when loading
	EnvAPIURL = "CLIPDECK_API_URL"
)

// PlayerConfig holds the external preview player command
type PlayerConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// Config holds application configuration
type Config struct {
	APIURL         string        `yaml:"api_url"`         // Base URL of the processing service
	PollInterval   time.Duration `yaml:"poll_interval"`   // Status poll cadence
	RequestTimeout time.Duration `yaml:"request_timeout"` // Per-request timeout
	DownloadBase   string        `yaml:"download_dir"`    // Where downloaded shorts go
	Player         PlayerConfig  `yaml:"player"`          // Preview player
	LogFile        string        `yaml:"log_file"`        // Log destination
	LogLevel       string        `yaml:"log_level"`       // logrus level name

	// Derived from environment, not stored in YAML
	home string
}

// Default returns a configuration with every value unset, so all accessors
// return their defaults
func Default() *Config {
	return &Config{}
}

// Home returns the user's home directory
func (c *Config) Home() string {
	if c.home != "" {
		return c.home
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// BaseURL returns the service URL without a trailing slash
func (c *Config) BaseURL() string {
	url := c.APIURL
	if url == "" {
		url = defaultAPIURL
	}
	return strings.TrimRight(url, "/")
}

// Interval returns the poll interval, defaulting to 1.5s
func (c *Config) Interval() time.Duration {
	if c.PollInterval <= 0 {
		return defaultPollInterval
	}
	return c.PollInterval
}

// Timeout returns the per-request timeout
func (c *Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return defaultRequestTimeout
	}
	return c.RequestTimeout
}

// DownloadRoot returns the base download directory
func (c *Config) DownloadRoot() string {
	if c.DownloadBase != "" {
		return expandHome(c.DownloadBase, c.Home())
	}
	return filepath.Join(c.Home(), "Downloads", appDirName)
}

// DownloadDir returns the directory for a job's downloaded shorts
func (c *Config) DownloadDir(jobID string) string {
	return filepath.Join(c.DownloadRoot(), jobID)
}

// LogPath returns the log file path ($XDG_STATE_HOME/clipdeck/clipdeck.log)
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return expandHome(c.LogFile, c.Home())
	}
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, appDirName, logFileName)
	}
	return filepath.Join(c.Home(), ".local", "state", appDirName, logFileName)
}

// Level returns the configured log level
func (c *Config) Level() string {
	if c.LogLevel == "" {
		return defaultLogLevel
	}
	return c.LogLevel
}

// PlayerCommand returns the preview player binary and its argument template.
// Defaults to mpv seeking with --start.
func (c *Config) PlayerCommand() (string, []string) {
	if c.Player.Command == "" {
		return defaultPlayer, []string{"--start=" + StartPlaceholder}
	}
	return c.Player.Command, c.Player.Args
}

// Load reads configuration from a YAML file, then applies the environment.
// CLIPDECK_API_URL takes precedence over the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	return &cfg, nil
}

// LoadDefault loads config from the default location. A missing file is not
// an error; defaults are used instead.
func LoadDefault() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}

	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		cfg.applyEnv()
		return cfg, nil
	}
	return cfg, err
}

func (c *Config) applyEnv() {
	if env := os.Getenv(EnvAPIURL); env != "" {
		c.APIURL = env
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/clipdeck/config.yaml, falling back to
// ~/.config/clipdeck/config.yaml
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName, configFileName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}
	return filepath.Join(home, ".config", appDirName, configFileName), nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
