package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marmos91/ftpd/internal/logger"
	"github.com/marmos91/ftpd/pkg/adapter/ftp"
	"github.com/marmos91/ftpd/pkg/config"
	"github.com/marmos91/ftpd/pkg/metrics/prometheus"
)

var pidFile string

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the FTP server",
	Long: `Start the FTP server with the specified configuration.

The server runs in the foreground until interrupted; use a process
supervisor (systemd, runit) for background operation.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/ftpd/config.yaml.

Examples:
  # Start with the default config file
  ftpd start

  # Start with a custom config file
  ftpd start --config /etc/ftpd/config.yaml

  # Start with environment variable overrides
  FTPD_LOGGING_LEVEL=DEBUG ftpd start`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVar(&pidFile, "pid-file", "", "Path to PID file (optional)")
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))

	opts := []ftp.Option{
		ftp.WithAuthenticator(BuildAuthenticator(&cfg.Auth)),
	}

	// Metrics endpoint and collector, when enabled.
	if cfg.Metrics.Enabled {
		metricsServer := prometheus.NewServer(cfg.Metrics.Port)
		opts = append(opts, ftp.WithMetrics(prometheus.NewFTPMetrics(metricsServer.Registry())))
		metricsServer.Start(ctx)
		logger.Info("Metrics enabled", "port", cfg.Metrics.Port)
	} else {
		logger.Info("Metrics collection disabled")
	}

	adapter, err := ftp.New(cfg.FTP, opts...)
	if err != nil {
		return fmt.Errorf("failed to create FTP adapter: %w", err)
	}
	logger.Info("FTP adapter configured",
		"port", adapter.Port(),
		"root", cfg.FTP.RootPath,
		"idle_timeout", cfg.FTP.Timeouts.Idle)

	// Re-apply the log level when the config file changes on disk.
	// Everything else requires a restart.
	if err := config.Watch(GetConfigFile(), func(newCfg *config.Config) {
		logger.SetLevel(newCfg.Logging.Level)
		logger.SetFormat(newCfg.Logging.Format)
		logger.Info("Log settings reloaded", "level", newCfg.Logging.Level, "format", newCfg.Logging.Format)
	}); err != nil {
		logger.Warn("Config watch disabled", "error", err)
	}

	if pidFile != "" {
		if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d", os.Getpid())), 0o644); err != nil {
			return fmt.Errorf("failed to write PID file: %w", err)
		}
		defer func() { _ = os.Remove(pidFile) }()
	}

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- adapter.Serve(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Server is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown")
		cancel()

		if err := <-serverDone; err != nil {
			logger.Error("Server shutdown error", "error", err)
			return err
		}
		logger.Info("Server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("Server error", "error", err)
			return err
		}
		logger.Info("Server stopped")
	}

	return nil
}

// getConfigSource returns a description of where the config was loaded from.
func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
