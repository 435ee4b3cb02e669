// Package appconfig manages the optional tunnel configuration file.
package appconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anmitsu/go-shlex"
	"github.com/treykane/ssh-tunnel/internal/util"
	"gopkg.in/yaml.v3"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// LogConfig controls the slog handler installed by the CLI.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SecurityConfig contains error display settings.
type SecurityConfig struct {
	RedactErrors bool `yaml:"redact_errors"`
}

// JournalConfig toggles the lifecycle event journal.
type JournalConfig struct {
	Enabled bool `yaml:"enabled"`
}

// UIConfig contains terminal output settings.
type UIConfig struct {
	Color bool `yaml:"color"`
}

// Config holds application-level configuration.
type Config struct {
	SSHCommand         string         `yaml:"ssh_command"`
	BindAddress        string         `yaml:"bind_address"`
	StopTimeoutSeconds int            `yaml:"stop_timeout_seconds"`
	Log                LogConfig      `yaml:"log"`
	Security           SecurityConfig `yaml:"security"`
	Journal            JournalConfig  `yaml:"journal"`
	UI                 UIConfig       `yaml:"ui"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		SSHCommand:         util.DefaultSSHCommand,
		StopTimeoutSeconds: int(util.DefaultStopTimeout / time.Second),
		Log:                LogConfig{Level: "warn", Format: LogFormatText},
		Security:           SecurityConfig{RedactErrors: true},
		UI:                 UIConfig{Color: true},
	}
}

// ConfigDir returns the application config directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/ssh-tunnel.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, util.AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, ".config", util.AppName), nil
}

// FilePath returns the full path to config.yaml.
func FilePath() (string, error) {
	d, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.yaml"), nil
}

// Load reads config.yaml from the config directory. A missing file yields
// the defaults; the file is never created.
func Load() (Config, error) {
	path, err := FilePath()
	if err != nil {
		return Config{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	def := Default()
	if strings.TrimSpace(c.SSHCommand) == "" {
		c.SSHCommand = def.SSHCommand
	}
	if _, err := c.SSHArgv(); err != nil {
		slog.Warn("invalid ssh_command, using default", "ssh_command", c.SSHCommand, "error", err)
		c.SSHCommand = def.SSHCommand
	}
	c.BindAddress = strings.TrimSpace(c.BindAddress)
	if c.StopTimeoutSeconds <= 0 {
		c.StopTimeoutSeconds = def.StopTimeoutSeconds
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		c.Log.Level = def.Log.Level
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case LogFormatJSON:
		c.Log.Format = LogFormatJSON
	default:
		c.Log.Format = LogFormatText
	}
}

// SSHArgv splits ssh_command into the binary and its leading arguments.
func (c Config) SSHArgv() ([]string, error) {
	argv, err := shlex.Split(c.SSHCommand, true)
	if err != nil {
		return nil, fmt.Errorf("split ssh_command: %w", err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("ssh_command is empty")
	}
	return argv, nil
}

// StopTimeout returns the configured stop grace period.
func (c Config) StopTimeout() time.Duration {
	return time.Duration(c.StopTimeoutSeconds) * time.Second
}

// LogLevel returns the slog level for Log.Level.
func (c Config) LogLevel() slog.Level {
	lvl, _ := parseLevel(c.Log.Level)
	return lvl
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelWarn, false
	}
}
