package config

import (
	"strings"
	"time"

	"github.com/marmos91/ftpd/pkg/adapter/ftp"
)

// DefaultRootPath is the server root used when none is configured.
const DefaultRootPath = "/srv/ftpd"

// ApplyDefaults sets default values for any unspecified configuration
// fields. Zero values are replaced; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyFTPDefaults(&cfg.FTP)
	applyAuthDefaults(&cfg.Auth)
	applyMetricsDefaults(&cfg.Metrics)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyFTPDefaults mirrors the adapter's own defaults so that saved and
// validated configurations are explicit about what will run.
func applyFTPDefaults(cfg *ftp.Config) {
	if cfg.Port == 0 {
		cfg.Port = 2121
	}
	if cfg.RootPath == "" {
		cfg.RootPath = DefaultRootPath
	}
	if cfg.Timeouts.Idle == 0 {
		cfg.Timeouts.Idle = 5 * time.Minute
	}
	if cfg.Timeouts.DataSetup == 0 {
		cfg.Timeouts.DataSetup = 5 * time.Second
	}
	if cfg.Timeouts.Shutdown == 0 {
		cfg.Timeouts.Shutdown = 30 * time.Second
	}
}

// applyAuthDefaults sets credential defaults.
func applyAuthDefaults(cfg *AuthConfig) {
	if cfg.Username == "" {
		cfg.Username = "admin"
	}
	// Password and PasswordHash have no defaults; when both stay empty
	// the built-in admin/password pair is used.
}

// applyMetricsDefaults sets metrics defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// GetDefaultConfig returns a Config struct with all default values
// applied. Useful for generating sample configuration files and tests.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
