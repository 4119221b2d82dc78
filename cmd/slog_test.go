package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var console, structured bytes.Buffer

	logger, err := newLogger("warn", &console, &structured)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "error", errors.New("boom"))

	assert.Empty(t, console.String())
	var line map[string]any
	require.NoError(t, json.Unmarshal(structured.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "boom", line["error"])
}

func TestNewLoggerDebugUsesConsole(t *testing.T) {
	var console, structured bytes.Buffer

	logger, err := newLogger("debug", &console, &structured)
	require.NoError(t, err)

	logger.Debug("hello", "session_id", "01H")
	assert.Contains(t, console.String(), "hello")
	assert.Empty(t, structured.String())
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	_, err := newLogger("loud", nil, nil)
	assert.ErrorContains(t, err, "invalid log level")
}

func TestTrimSource(t *testing.T) {
	assert.Equal(t, "internal/editor/generate.go", trimSource("/home/dev/phishdesk/internal/editor/generate.go", "/phishdesk/"))
	assert.Equal(t, "github.com/x/y.go", trimSource("/go/src/github.com/x/y.go", "/phishdesk/"))
	assert.Equal(t, "y.go", trimSource("y.go", "/phishdesk/"))
}
