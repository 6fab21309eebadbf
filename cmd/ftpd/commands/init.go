package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/ftpd/pkg/auth"
	"github.com/marmos91/ftpd/pkg/config"
)

var (
	initForce    bool
	initPassword string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample ftpd configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/ftpd/config.yaml.
Use --config to specify a custom path.

Examples:
  # Initialize with default location
  ftpd init

  # Initialize with custom path
  ftpd init --config /etc/ftpd/config.yaml

  # Initialize with a bcrypt-hashed password for the admin user
  ftpd init --password s3cret

  # Force overwrite existing config
  ftpd init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
	initCmd.Flags().StringVar(&initPassword, "password", "", "Password to hash into the config (stored as bcrypt, never in plain text)")
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := config.GetDefaultConfig()

	if initPassword != "" {
		hash, err := auth.HashPassword(initPassword)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		cfg.Auth.PasswordHash = hash
	}

	configPath := GetConfigFile()
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	if !initForce {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
		}
	}
	if err := config.SaveConfig(cfg, configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file to customize your setup")
	fmt.Println("  2. Start the server with: ftpd start")
	fmt.Printf("  3. Or specify custom config: ftpd start --config %s\n", configPath)
	if initPassword == "" {
		fmt.Println("\nSecurity note:")
		fmt.Println("  No password was configured; the built-in admin/password pair is active.")
		fmt.Println("  Set one with: ftpd init --force --password <password>")
	}

	return nil
}
