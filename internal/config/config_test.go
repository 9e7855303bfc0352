package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Zero(t, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultAPIURL, cfg.APIURL)
		assert.Equal(t, 4, cfg.AddConcurrency)
	})

	t.Run("reads yaml file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yml")
		content := "storage: file\ntimeout: 5s\ndata-dir: " + dir + "\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, StorageFile, cfg.Storage)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, filepath.Join(dir, "gitfav.yaml"), cfg.StoragePath())
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("GITFAV_API_URL", "http://localhost:9999/")
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9999/", cfg.APIURL)
	})

	t.Run("rejects api url without scheme", func(t *testing.T) {
		t.Setenv("GITFAV_API_URL", "127.0.0.1:9999")
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "127.0.0.1:9999")
	})

	t.Run("rejects unknown storage", func(t *testing.T) {
		t.Setenv("GITFAV_STORAGE", "redis")
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis")
	})
}

func TestPaths(t *testing.T) {
	cfg := Config{DataDir: "/data", Storage: StorageSQLite}
	assert.Equal(t, filepath.Join("/data", "gitfav.db"), cfg.StoragePath())
	assert.Equal(t, filepath.Join("/data", "gitfav.log"), cfg.LogPath())

	cfg.LogFile = "/tmp/x.log"
	assert.Equal(t, "/tmp/x.log", cfg.LogPath())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "local http api", modify: func(c *Config) { c.APIURL = "http://127.0.0.1:9999/" }},
		{name: "api url without scheme", modify: func(c *Config) { c.APIURL = "127.0.0.1:9999" }, wantErr: "api-url"},
		{name: "api url with other scheme", modify: func(c *Config) { c.APIURL = "ftp://example.com/" }, wantErr: "api-url"},
		{name: "api url without host", modify: func(c *Config) { c.APIURL = "http:///path" }, wantErr: "api-url"},
		{name: "empty api url", modify: func(c *Config) { c.APIURL = "" }, wantErr: "api-url"},
		{name: "debug level", modify: func(c *Config) { c.LogLevel = "debug" }},
		{name: "warning alias", modify: func(c *Config) { c.LogLevel = "warning" }},
		{name: "unknown level", modify: func(c *Config) { c.LogLevel = "loud" }, wantErr: "log-level"},
		{name: "console format", modify: func(c *Config) { c.LogFormat = "console" }},
		{name: "unknown format", modify: func(c *Config) { c.LogFormat = "xml" }, wantErr: "log-format"},
		{name: "negative timeout", modify: func(c *Config) { c.Timeout = -time.Second }, wantErr: "timeout"},
		{name: "zero concurrency", modify: func(c *Config) { c.AddConcurrency = 0 }, wantErr: "add-concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
