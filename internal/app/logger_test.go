package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&Config{LogFormat: "json", AppEnv: "staging"}, &buf)
	logger.Info("ready")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ready", entry["msg"])
	assert.Equal(t, "superstore-bi", entry["service"])
	assert.Equal(t, "staging", entry["env"])
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	newLogger(nil, &buf).Warn("degraded")
	out := buf.String()
	assert.True(t, strings.Contains(out, "level=WARN"))
	assert.True(t, strings.Contains(out, "service=superstore-bi"))
}
