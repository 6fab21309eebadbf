package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/marmos91/ftpd/internal/logger"
)

// Watch monitors the configuration file and invokes onChange with the
// freshly loaded configuration whenever it changes on disk. Only settings
// that can take effect at runtime (like the log level) should be applied
// from the callback; everything else needs a restart.
//
// A missing config file disables watching without error.
func Watch(configPath string, onChange func(*Config)) error {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		logger.Debug("Config file changed", "file", e.Name, "op", e.Op.String())

		cfg, err := Load(configPath)
		if err != nil {
			logger.Warn("Ignoring config change: reload failed", "error", err)
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()

	return nil
}
