// Package config provides application configuration with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.botharbor/config.yaml)
//  3. Default values
//
// Widget parameters (bot id, theme, greeting) are a separate concern: they are
// resolved once at startup into an immutable Params value and passed explicitly
// to the components that need them. See params.go.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidAPIBase indicates the chat API base URL is invalid.
	ErrInvalidAPIBase = errors.New("invalid API base URL")

	// ErrInvalidWidgetURL indicates the widget base URL is invalid.
	ErrInvalidWidgetURL = errors.New("invalid widget URL")

	// ErrInvalidTimeout indicates the HTTP timeout is out of range.
	ErrInvalidTimeout = errors.New("invalid HTTP timeout")

	// ErrInvalidRateLimit indicates the rate limit settings are out of range.
	ErrInvalidRateLimit = errors.New("invalid rate limit")
)

// DefaultAPIBase is the hosted BotHarbor chat API.
const DefaultAPIBase = "https://fastapi-app-163299086327.us-east1.run.app"

// DefaultWidgetURL is the hosted widget page used in generated embeds.
const DefaultWidgetURL = "https://botharbor.ai/widget"

// DefaultListenAddr is the default address for the embed-hosting server.
const DefaultListenAddr = ":8090"

// Config stores application configuration.
type Config struct {
	// Chat API configuration
	APIBase            string `mapstructure:"api_base" json:"api_base"`
	HTTPTimeoutSeconds int    `mapstructure:"http_timeout_seconds" json:"http_timeout_seconds"`

	// Embed configuration (serve mode and snippet generation)
	WidgetURL  string `mapstructure:"widget_url" json:"widget_url"`
	ListenAddr string `mapstructure:"listen_addr" json:"listen_addr"`

	// Local storage configuration
	DataDir string `mapstructure:"data_dir" json:"data_dir"`

	// Rate limiting (serve mode, per client IP)
	RateLimit  float64 `mapstructure:"rate_limit" json:"rate_limit"`
	RateBurst  int     `mapstructure:"rate_burst" json:"rate_burst"`
	TrustProxy bool    `mapstructure:"trust_proxy" json:"trust_proxy"` // Trust X-Real-IP/X-Forwarded-For (set true behind reverse proxy)

	// Logging
	LogLevel string `mapstructure:"log_level" json:"log_level"` // "debug", "info", "warn", "error"
	LogJSON  bool   `mapstructure:"log_json" json:"log_json"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".botharbor")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	setDefaults(configDir)
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is not an error, defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(configDir string) {
	viper.SetDefault("api_base", DefaultAPIBase)
	viper.SetDefault("http_timeout_seconds", 30)

	viper.SetDefault("widget_url", DefaultWidgetURL)
	viper.SetDefault("listen_addr", DefaultListenAddr)

	viper.SetDefault("data_dir", configDir)

	// 5 req/s with a burst of 20 is generous for embed asset serving
	viper.SetDefault("rate_limit", 5.0)
	viper.SetDefault("rate_burst", 20)
	viper.SetDefault("trust_proxy", false)

	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_json", false)
}

// bindEnvVariables binds environment overrides explicitly.
func bindEnvVariables() {
	// Hardcoded keys cannot fail to bind; a panic here is a bug, not a runtime error.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("api_base", "BOTHARBOR_API_BASE")
	mustBind("widget_url", "BOTHARBOR_WIDGET_URL")
	mustBind("listen_addr", "BOTHARBOR_LISTEN_ADDR")
	mustBind("data_dir", "BOTHARBOR_DATA_DIR")
	mustBind("log_level", "BOTHARBOR_LOG_LEVEL")
}

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if err := validateHTTPURL(c.APIBase); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAPIBase, err)
	}
	if err := validateHTTPURL(c.WidgetURL); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWidgetURL, err)
	}

	if c.HTTPTimeoutSeconds < 1 || c.HTTPTimeoutSeconds > 600 {
		return fmt.Errorf("%w: http_timeout_seconds must be in [1, 600], got %d",
			ErrInvalidTimeout, c.HTTPTimeoutSeconds)
	}

	if c.RateLimit <= 0 {
		return fmt.Errorf("%w: rate_limit must be positive, got %g", ErrInvalidRateLimit, c.RateLimit)
	}
	if c.RateBurst < 1 {
		return fmt.Errorf("%w: rate_burst must be at least 1, got %d", ErrInvalidRateLimit, c.RateBurst)
	}

	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
