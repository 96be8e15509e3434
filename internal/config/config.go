package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// WindowConfig is the main window geometry.
type WindowConfig struct {
	Width       int  `mapstructure:"width"`
	Height      int  `mapstructure:"height"`
	AlwaysOnTop bool `mapstructure:"alwaysOnTop"`
}

// AppConfig is the application-level configuration, loaded from an optional
// launchdock.yaml and LAUNCHDOCK_* environment overrides. Database tuning
// lives in the database package config, not here.
type AppConfig struct {
	Environment      string        `mapstructure:"environment"`
	SingleInstanceID string        `mapstructure:"singleInstanceId"`
	Window           WindowConfig  `mapstructure:"window"`
	MonitorInterval  time.Duration `mapstructure:"monitorInterval"`
	HistoryLimit     int           `mapstructure:"historyLimit"`
	CleanupOnStart   bool          `mapstructure:"cleanupOnStart"`
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	return &AppConfig{
		Environment:      "production",
		SingleInstanceID: "e8c237be-launchdock-single-instance",
		Window: WindowConfig{
			Width:       480,
			Height:      600,
			AlwaysOnTop: false,
		},
		MonitorInterval: 2 * time.Second,
		HistoryLimit:    50,
		CleanupOnStart:  true,
	}
}

// Load reads the configuration. An explicit path is required to exist; an
// absent default config file is fine and yields the defaults plus env
// overrides.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("environment", defaults.Environment)
	v.SetDefault("singleInstanceId", defaults.SingleInstanceID)
	v.SetDefault("window.width", defaults.Window.Width)
	v.SetDefault("window.height", defaults.Window.Height)
	v.SetDefault("window.alwaysOnTop", defaults.Window.AlwaysOnTop)
	v.SetDefault("monitorInterval", defaults.MonitorInterval)
	v.SetDefault("historyLimit", defaults.HistoryLimit)
	v.SetDefault("cleanupOnStart", defaults.CleanupOnStart)

	v.SetEnvPrefix("LAUNCHDOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("launchdock")
		v.SetConfigType("yaml")
		if configDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(configDir, "launchdock"))
		}
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
			// No config file present; defaults and env apply.
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration values.
func (c *AppConfig) Validate() error {
	switch c.Environment {
	case "development", "test", "production":
	default:
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	if c.SingleInstanceID == "" {
		return fmt.Errorf("singleInstanceId cannot be empty")
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window dimensions must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}

	if c.MonitorInterval <= 0 {
		return fmt.Errorf("monitorInterval must be positive, got %v", c.MonitorInterval)
	}

	if c.HistoryLimit <= 0 {
		return fmt.Errorf("historyLimit must be positive, got %d", c.HistoryLimit)
	}

	return nil
}
