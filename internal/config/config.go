// Package config loads gitfav settings from defaults, an optional YAML file,
// .env files and GITFAV_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Storage backends for the bookmark slot.
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com/"

// Config holds application configuration.
type Config struct {
	APIURL         string        `mapstructure:"api-url"`
	UserAgent      string        `mapstructure:"user-agent"`
	Timeout        time.Duration `mapstructure:"timeout"`
	DataDir        string        `mapstructure:"data-dir"`
	Storage        string        `mapstructure:"storage"`
	LogLevel       string        `mapstructure:"log-level"`
	LogFormat      string        `mapstructure:"log-format"`
	LogFile        string        `mapstructure:"log-file"`
	AddConcurrency int           `mapstructure:"add-concurrency"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		APIURL:         DefaultAPIURL,
		UserAgent:      "gitfav",
		DataDir:        defaultDataDir(),
		Storage:        StorageSQLite,
		LogLevel:       "info",
		LogFormat:      "json",
		AddConcurrency: 4,
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gitfav"
	}
	return filepath.Join(home, ".gitfav")
}

// Load reads configuration. An empty configPath searches
// ~/.config/gitfav/config.yml; a missing file is not an error.
func Load(configPath string) (Config, error) {
	// .env in the working directory; absence is fine
	_ = godotenv.Load()

	def := Default()
	v := viper.New()
	v.SetEnvPrefix("GITFAV")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("api-url", def.APIURL)
	v.SetDefault("user-agent", def.UserAgent)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("data-dir", def.DataDir)
	v.SetDefault("storage", def.Storage)
	v.SetDefault("log-level", def.LogLevel)
	v.SetDefault("log-format", def.LogFormat)
	v.SetDefault("log-file", "")
	v.SetDefault("add-concurrency", def.AddConcurrency)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigFile(filepath.Join(home, ".config", "gitfav", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks option values.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageSQLite, StorageFile:
	default:
		return fmt.Errorf("unknown storage backend %q (want %s or %s)", c.Storage, StorageSQLite, StorageFile)
	}
	if c.APIURL == "" {
		return errors.New("api-url cannot be empty")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid api-url %q: %w", c.APIURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api-url %q: want an http or https URL with a host", c.APIURL)
	}
	if err := validateLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "json", "console":
	default:
		return fmt.Errorf("unknown log-format %q (want json or console)", c.LogFormat)
	}
	if c.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}
	if c.AddConcurrency < 1 {
		return errors.New("add-concurrency must be at least 1")
	}
	return nil
}

// validateLogLevel accepts zerolog level names plus the aliases the
// logging package understands.
func validateLogLevel(level string) error {
	name := strings.ToLower(strings.TrimSpace(level))
	switch name {
	case "", "warning", "none", "off":
		return nil
	}
	if _, err := zerolog.ParseLevel(name); err != nil {
		return fmt.Errorf("unknown log-level %q: %w", level, err)
	}
	return nil
}

// StoragePath returns the bookmark database or document path for the
// configured backend.
func (c Config) StoragePath() string {
	if c.Storage == StorageFile {
		return filepath.Join(c.DataDir, "gitfav.yaml")
	}
	return filepath.Join(c.DataDir, "gitfav.db")
}

// LogPath returns the log file used by interactive sessions.
func (c Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "gitfav.log")
}
