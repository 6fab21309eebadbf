package ftp

import (
	"fmt"
	"path/filepath"
	"time"
)

// PortRange bounds the local ports used for passive-mode listeners.
// A zero range means the OS picks any free ephemeral port.
type PortRange struct {
	// Lo is the first port of the range (inclusive).
	Lo int `mapstructure:"lo" yaml:"lo" validate:"min=0,max=65535"`

	// Hi is the last port of the range (inclusive). Must be >= Lo.
	Hi int `mapstructure:"hi" yaml:"hi" validate:"min=0,max=65535"`
}

// IsZero reports whether no range was configured.
func (r PortRange) IsZero() bool {
	return r.Lo == 0 && r.Hi == 0
}

// TimeoutsConfig groups all timeout-related configuration.
type TimeoutsConfig struct {
	// Idle is the maximum silence on the control channel before the
	// session replies 421 and closes. The timer restarts on every
	// received command, not on every byte.
	// Default: 5m (the classic 300 s).
	Idle time.Duration `mapstructure:"idle" yaml:"idle" validate:"min=0"`

	// DataSetup bounds how long a transfer waits for the data connection
	// to connect (active mode) or be accepted (passive mode) before the
	// session replies 425.
	// Default: 5s.
	DataSetup time.Duration `mapstructure:"data_setup" yaml:"data_setup" validate:"min=0"`

	// Shutdown is the maximum duration to wait for active sessions to
	// complete during graceful shutdown. After this timeout, remaining
	// control sockets are forcibly closed.
	// Default: 30s.
	Shutdown time.Duration `mapstructure:"shutdown" yaml:"shutdown" validate:"min=0"`
}

// MarshalYAML writes timeouts as duration strings ("5m0s") so saved
// config files reload through the same parser that handles hand-written
// ones. Raw integers in YAML are read as whole seconds, not nanoseconds.
func (t TimeoutsConfig) MarshalYAML() (interface{}, error) {
	type timeouts struct {
		Idle      string `yaml:"idle"`
		DataSetup string `yaml:"data_setup"`
		Shutdown  string `yaml:"shutdown"`
	}
	return timeouts{
		Idle:      t.Idle.String(),
		DataSetup: t.DataSetup.String(),
		Shutdown:  t.Shutdown.String(),
	}, nil
}

// Config holds configuration parameters for the FTP adapter.
//
// Default values (applied by New if zero):
//   - Port: 2121 (non-privileged port, standard is 21)
//   - BindAddress: "" (all interfaces)
//   - RootPath: required, no default
//   - MaxConnections: 0 (unlimited)
//   - Timeouts.Idle: 5m
//   - Timeouts.DataSetup: 5s
//   - Timeouts.Shutdown: 30s
type Config struct {
	// Port is the TCP port for the control channel. Standard FTP port is
	// 21, but requires root. If 0, defaults to 2121.
	Port int `mapstructure:"port" yaml:"port" validate:"min=0,max=65535"`

	// BindAddress is the local address to listen on. Empty means all
	// interfaces.
	BindAddress string `mapstructure:"bind_address" yaml:"bind_address,omitempty"`

	// RootPath is the absolute filesystem directory the server exposes.
	// Every client path resolves under it; the directory is created at
	// startup if absent.
	RootPath string `mapstructure:"root_path" yaml:"root_path" validate:"required"`

	// MaxConnections limits concurrent control connections.
	// 0 means unlimited.
	MaxConnections int `mapstructure:"max_connections" yaml:"max_connections,omitempty" validate:"min=0"`

	// PassivePortRange restricts passive-mode listener ports, for
	// firewalled deployments. Unset means OS-chosen ports.
	PassivePortRange PortRange `mapstructure:"passive_port_range" yaml:"passive_port_range,omitempty"`

	// PassiveAdvertisedHost overrides the IPv4 address advertised in the
	// 227 reply. When empty, the control socket's local address is used,
	// falling back to 127.0.0.1 if that address is IPv6. Set this behind
	// NAT where the local address is not reachable by clients.
	PassiveAdvertisedHost string `mapstructure:"passive_advertised_host" yaml:"passive_advertised_host,omitempty" validate:"omitempty,ipv4"`

	// DeletePartialUploads removes the target file when an upload fails
	// mid-transfer (reply 426). Stock servers keep the partial file,
	// which is the default here too.
	DeletePartialUploads bool `mapstructure:"delete_partial_uploads" yaml:"delete_partial_uploads,omitempty"`

	// Timeouts groups all timeout-related configuration.
	Timeouts TimeoutsConfig `mapstructure:"timeouts" yaml:"timeouts"`
}

// applyDefaults fills in zero values with sensible defaults.
func (c *Config) applyDefaults() {
	if c.Port <= 0 {
		c.Port = 2121
	}
	if c.Timeouts.Idle == 0 {
		c.Timeouts.Idle = 5 * time.Minute
	}
	if c.Timeouts.DataSetup == 0 {
		c.Timeouts.DataSetup = 5 * time.Second
	}
	if c.Timeouts.Shutdown == 0 {
		c.Timeouts.Shutdown = 30 * time.Second
	}
}

// validate checks that the configuration is usable.
func (c *Config) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be 0-65535", c.Port)
	}
	if c.RootPath == "" {
		return fmt.Errorf("root_path is required")
	}
	if !filepath.IsAbs(c.RootPath) {
		return fmt.Errorf("root_path %q must be absolute", c.RootPath)
	}
	if c.MaxConnections < 0 {
		return fmt.Errorf("invalid max_connections %d: must be >= 0", c.MaxConnections)
	}
	if !c.PassivePortRange.IsZero() {
		lo, hi := c.PassivePortRange.Lo, c.PassivePortRange.Hi
		if lo < 1 || hi > 65535 || hi < lo {
			return fmt.Errorf("invalid passive_port_range %d-%d", lo, hi)
		}
	}
	if c.Timeouts.Idle < 0 || c.Timeouts.DataSetup < 0 || c.Timeouts.Shutdown < 0 {
		return fmt.Errorf("timeouts must be >= 0")
	}
	return nil
}
