package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/carlmjohnson/be"
	"github.com/spf13/viper"
)

func TestLoadConfigDefaults(t *testing.T) {
	v := viper.New()
	setConfigDefaults(v)
	v.Set("session_file", filepath.Join(t.TempDir(), "session.toml"))

	cfg, err := loadConfig(v)
	be.NilErr(t, err)
	be.Equal(t, "http://localhost:3001/api", cfg.BaseURL)
	be.Equal(t, "INR", cfg.Currency)
	be.False(t, cfg.Debug)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "findash.toml")
	err := os.WriteFile(file, []byte(`
base_url = "https://finance.example.com/api"
currency = "usd"
session_file = "/tmp/findash-session.toml"

[colors]
accent = "#ff00ff"
debit = "160"
`), 0o600)
	be.NilErr(t, err)

	t.Setenv("FINDASH_DEBUG", "true")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	v := viper.New()
	setConfigDefaults(v)
	v.SetConfigFile(file)
	be.NilErr(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	be.NilErr(t, err)
	be.Equal(t, "https://finance.example.com/api", cfg.BaseURL)
	be.Equal(t, "USD", cfg.Currency)
	be.Equal(t, "/tmp/findash-session.toml", cfg.SessionFile)
	be.Equal(t, "#ff00ff", cfg.Colors.Accent)
	be.Equal(t, "160", cfg.Colors.Debit)
	be.True(t, cfg.Debug)
	be.Equal(t, "sk-ant-test", cfg.AnthropicAPIKey)
}

func TestConfigSearchPaths(t *testing.T) {
	paths := configSearchPaths()
	be.Equal(t, ".", paths[0])
	be.Equal(t, filepath.Join("/etc", appName), paths[len(paths)-1])
}
