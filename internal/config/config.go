package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// EnvDataDir names the environment variable that overrides the data directory.
const EnvDataDir = "AI_LOGGER_DIR"

// ProjectFile is the per-project config file name, read from the working directory.
const ProjectFile = ".ailogconfig"

// Config holds all configurable ai-logger settings.
type Config struct {
	DataDir       string `json:"data_dir" mapstructure:"data_dir"`
	Author        string `json:"author" mapstructure:"author"`
	StatsFormat   string `json:"stats_format" mapstructure:"stats_format"` // "markdown" | "json"
	DashboardAddr string `json:"dashboard_addr" mapstructure:"dashboard_addr"`
	SettingsDir   string `json:"settings_dir" mapstructure:"settings_dir"` // override ~/.claude
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		StatsFormat:   "markdown",
		DashboardAddr: "127.0.0.1:8765",
	}
}

// GlobalPath returns ~/.config/ailog/config.json.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ailog", "config.json"), nil
}

// LoadGlobal reads ~/.config/ailog/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	path, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	return loadFile(path, true)
}

// LoadProject reads .ailogconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(ProjectFile, false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	for _, c := range []*Config{global, project} {
		if c == nil {
			continue
		}
		if c.DataDir != "" {
			result.DataDir = c.DataDir
		}
		if c.Author != "" {
			result.Author = c.Author
		}
		if c.StatsFormat != "" {
			result.StatsFormat = c.StatsFormat
		}
		if c.DashboardAddr != "" {
			result.DashboardAddr = c.DashboardAddr
		}
		if c.SettingsDir != "" {
			result.SettingsDir = c.SettingsDir
		}
	}
	return result
}

// ResolveDataDir picks the data directory: the environment value wins,
// then the configured one, then ~/.ai-logger.
func ResolveDataDir(configured, envValue, home string) string {
	switch {
	case envValue != "":
		return envValue
	case configured != "":
		return configured
	}
	return filepath.Join(home, ".ai-logger")
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
