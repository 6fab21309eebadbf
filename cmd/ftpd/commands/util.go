package commands

import (
	"fmt"

	"github.com/marmos91/ftpd/internal/logger"
	"github.com/marmos91/ftpd/pkg/auth"
	"github.com/marmos91/ftpd/pkg/config"
)

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// BuildAuthenticator constructs the credential check from configuration.
// Precedence: bcrypt hash, then plain password, then the built-in
// admin/password pair.
func BuildAuthenticator(cfg *config.AuthConfig) auth.Authenticator {
	switch {
	case cfg.PasswordHash != "":
		return auth.NewStaticHashed(cfg.Username, cfg.PasswordHash)
	case cfg.Password != "":
		return auth.NewStatic(cfg.Username, cfg.Password)
	default:
		return auth.Default()
	}
}
