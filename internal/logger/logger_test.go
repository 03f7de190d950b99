package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"artnetnode/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(config.LogConf{Level: "warn"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "warning", log.GetLevel())

	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLoggerInvalid(t *testing.T) {
	_, err := NewLogger(config.LogConf{Level: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = NewLogger(config.LogConf{Level: "info", Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestWithJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(config.LogConf{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)
	buf.Reset()

	log.With(Fields{"module": "node"}).Debug("registered")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "node", entry["module"])
	assert.Equal(t, "registered", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.With(Fields{"module": "test"}).Error("discarded")
	assert.Equal(t, "info", log.GetLevel())
}
