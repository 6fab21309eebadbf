package config

import (
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the configuration for correctness. Struct tags cover
// field-level constraints; cross-field rules are checked explicitly.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !filepath.IsAbs(cfg.FTP.RootPath) {
		return fmt.Errorf("ftp.root_path %q must be an absolute path", cfg.FTP.RootPath)
	}

	if r := cfg.FTP.PassivePortRange; !r.IsZero() {
		if r.Lo < 1 || r.Hi > 65535 || r.Hi < r.Lo {
			return fmt.Errorf("ftp.passive_port_range %d-%d is invalid", r.Lo, r.Hi)
		}
	}

	if cfg.FTP.Port < 1 || cfg.FTP.Port > 65535 {
		return fmt.Errorf("ftp.port %d must be 1-65535", cfg.FTP.Port)
	}

	return nil
}
