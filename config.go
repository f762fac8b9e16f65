package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Rshep3087/findash/api"
	"github.com/Rshep3087/findash/config"
	"github.com/Rshep3087/findash/format"
	"github.com/Rshep3087/findash/session"
)

const (
	appName   = "findash"
	envPrefix = "FINDASH"
)

// configSearchPaths returns the directories searched for findash.toml
// in order of precedence (first found wins).
func configSearchPaths() []string {
	// Current directory (highest precedence)
	paths := []string{"."}

	// User config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, appName))
	}

	// User home directory
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, homeDir, filepath.Join(homeDir, ".config", appName))
	}

	// System-wide config directory (lowest precedence)
	paths = append(paths, filepath.Join("/etc", appName))

	return paths
}

// setConfigDefaults registers every key so environment variables are seen
// by Unmarshal even when no config file sets them.
func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("base_url", api.DefaultBaseURL)
	v.SetDefault("currency", format.DefaultCurrency)
	v.SetDefault("session_file", "")
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("debug", false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("anthropic_api_key", envPrefix+"_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
}

// loadConfig resolves the merged flag, environment and file settings.
func loadConfig(v *viper.Viper) (config.Config, error) {
	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = api.DefaultBaseURL
	}
	cfg.Currency = strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if cfg.Currency == "" {
		cfg.Currency = format.DefaultCurrency
	}

	if cfg.SessionFile == "" {
		path, err := session.DefaultPath()
		if err != nil {
			return cfg, fmt.Errorf("failed to locate session file: %w", err)
		}
		cfg.SessionFile = path
	}

	return cfg, nil
}
