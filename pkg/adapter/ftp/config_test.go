package ftp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{RootPath: "/srv/ftp"}
	cfg.applyDefaults()

	assert.Equal(t, 2121, cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.Timeouts.Idle)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.DataSetup)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.Shutdown)
	assert.Equal(t, 0, cfg.MaxConnections)
	assert.True(t, cfg.PassivePortRange.IsZero())
}

func TestConfigDefaultsDoNotOverride(t *testing.T) {
	cfg := Config{
		Port:     21,
		RootPath: "/srv/ftp",
		Timeouts: TimeoutsConfig{Idle: time.Second},
	}
	cfg.applyDefaults()

	assert.Equal(t, 21, cfg.Port)
	assert.Equal(t, time.Second, cfg.Timeouts.Idle)
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		cfg := Config{RootPath: "/srv/ftp"}
		cfg.applyDefaults()
		return cfg
	}

	t.Run("Valid", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, cfg.validate())
	})

	t.Run("MissingRoot", func(t *testing.T) {
		cfg := valid()
		cfg.RootPath = ""
		assert.ErrorContains(t, cfg.validate(), "root_path")
	})

	t.Run("RelativeRoot", func(t *testing.T) {
		cfg := valid()
		cfg.RootPath = "srv/ftp"
		assert.ErrorContains(t, cfg.validate(), "absolute")
	})

	t.Run("PortOutOfRange", func(t *testing.T) {
		cfg := valid()
		cfg.Port = 70000
		assert.ErrorContains(t, cfg.validate(), "port")
	})

	t.Run("InvertedPassiveRange", func(t *testing.T) {
		cfg := valid()
		cfg.PassivePortRange = PortRange{Lo: 5000, Hi: 4000}
		assert.ErrorContains(t, cfg.validate(), "passive_port_range")
	})

	t.Run("NegativeTimeout", func(t *testing.T) {
		cfg := valid()
		cfg.Timeouts.Idle = -time.Second
		assert.ErrorContains(t, cfg.validate(), "timeouts")
	})
}
