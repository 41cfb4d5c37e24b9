// Package config resolves runtime settings from flags, environment and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	KeyAPIBaseURL = "api_base_url"
	KeyUserAgent  = "user_agent"
	KeyLogFile    = "log_file"
	KeyLogLevel   = "log_level"
	KeyAltScreen  = "alt_screen"

	envPrefix  = "XTRACT"
	configName = "xtract"

	defaultBaseURL  = "http://127.0.0.1:8000"
	defaultLogLevel = "info"
)

// ErrInvalidBaseURL is returned when the service root is not an absolute
// http(s) URL.
var ErrInvalidBaseURL = errors.New("invalid api base url")

// Config is the resolved runtime configuration.
type Config struct {
	APIBaseURL string
	UserAgent  string
	LogFile    string
	LogLevel   string
	AltScreen  bool
}

// SetDefaults registers default values on v. version feeds the default
// User-Agent.
func SetDefaults(v *viper.Viper, version string) {
	v.SetDefault(KeyAPIBaseURL, defaultBaseURL)
	v.SetDefault(KeyUserAgent, "xtract/"+version)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyAltScreen, true)
}

// ReadFile points v at an explicit config file or at the default search
// paths, enables XTRACT_* environment overrides and reads the file if one
// exists. It returns the path of the file used, or "" when none was found.
func ReadFile(v *viper.Viper, explicit string) (string, error) {
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && explicit == "" {
			return "", nil
		}
		return "", fmt.Errorf("read config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load extracts and validates a Config from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		APIBaseURL: strings.TrimRight(strings.TrimSpace(v.GetString(KeyAPIBaseURL)), "/"),
		UserAgent:  strings.TrimSpace(v.GetString(KeyUserAgent)),
		LogFile:    strings.TrimSpace(v.GetString(KeyLogFile)),
		LogLevel:   strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		AltScreen:  v.GetBool(KeyAltScreen),
	}
	if err := validateBaseURL(cfg.APIBaseURL); err != nil {
		return Config{}, err
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	return cfg, nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: empty", ErrInvalidBaseURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidBaseURL, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host in %q", ErrInvalidBaseURL, raw)
	}
	return nil
}
