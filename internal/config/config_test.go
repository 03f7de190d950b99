package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewConfig(t *testing.T) {
	path := writeConfig(t, `
[Logger]
log-level = "debug"
format = "json"

[MQTT]
clientID = "node-1"
server = "broker"
port = "1884"
qos = 1
topic-prefix = "lights/node-1"

[Node]
short-name = "stage left"
long-name = "Stage left dimmer rack"
oem = 4660
esta-manufacturer = 22136
status2 = 14
sw-in = [1, 2]
ip = "2.0.0.5"
mac = "00:11:22:33:44:55"
default-role = "io"
universes = [0, 1, 16, 32767]
poll-interval = 10
`)

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, LogConf{Level: "debug", Format: "json"}, cfg.Logger)
	assert.Equal(t, "node-1", cfg.MQTT.ClientID)
	assert.Equal(t, "broker", cfg.MQTT.Host)
	assert.Equal(t, "1884", cfg.MQTT.Port)
	assert.Equal(t, byte(1), cfg.MQTT.Qos)
	assert.Equal(t, "lights/node-1", cfg.MQTT.TopicPrefix)

	assert.Equal(t, "stage left", cfg.Node.ShortName)
	assert.Equal(t, uint16(0x1234), cfg.Node.OEM)
	assert.Equal(t, uint16(0x5678), cfg.Node.ESTAManufacturer)
	assert.Equal(t, uint8(14), cfg.Node.Status2)
	assert.Equal(t, []uint8{1, 2}, cfg.Node.SwIn)
	assert.Equal(t, "2.0.0.5", cfg.Node.IP)
	assert.Equal(t, "io", cfg.Node.DefaultRole)
	assert.Equal(t, []uint16{0, 1, 16, 32767}, cfg.Node.Universes)
	assert.Equal(t, 10, cfg.Node.PollInterval)
}

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t, "[Logger]\nlog-level = \"warn\"\n"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, def.MQTT, cfg.MQTT)
	assert.Equal(t, def.Node, cfg.Node)
	assert.Equal(t, uint16(0x00FF), cfg.Node.OEM)
	assert.Equal(t, uint8(0x08), cfg.Node.Status2)
}

func TestNewConfigMissingFile(t *testing.T) {
	_, err := NewConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestNewConfigSyntaxError(t *testing.T) {
	_, err := NewConfig(writeConfig(t, "[Logger\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"qos", func(c *Config) { c.MQTT.Qos = 3 }},
		{"prefix", func(c *Config) { c.MQTT.TopicPrefix = "" }},
		{"sw-in", func(c *Config) { c.Node.SwIn = []uint8{1, 2, 3, 4, 5} }},
		{"universe", func(c *Config) { c.Node.Universes = []uint16{0x8000} }},
		{"poll-interval", func(c *Config) { c.Node.PollInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}
