package wfw

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "wfw.cfg")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadConfigValid(t *testing.T) {
	path := writeConfig(t, `
device: tap0
port: 4799
broadcast: 10.0.0.255
pidfile: /var/run/wfw.pid
log-level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "tap0", cfg.Device)
	assert.Equal(t, uint16(4799), cfg.Port)
	assert.Equal(t, "10.0.0.255", cfg.Broadcast)
	assert.Equal(t, "/var/run/wfw.pid", cfg.PIDFile)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigDefaultsLogLevel(t *testing.T) {
	path := writeConfig(t, `
device: tap0
port: 4799
broadcast: 10.0.0.255
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.cfg"))
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLoadConfigMissingRequiredFields(t *testing.T) {
	cases := map[string]string{
		"missing device":    "port: 4799\nbroadcast: 10.0.0.255\n",
		"missing port":      "device: tap0\nbroadcast: 10.0.0.255\n",
		"missing broadcast": "device: tap0\nport: 4799\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, body)
			_, err := LoadConfig(path)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestLoadConfigBadBroadcastAddress(t *testing.T) {
	path := writeConfig(t, `
device: tap0
port: 4799
broadcast: not-an-address
`)

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrConfig)
}
