package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thurmanmarka/risetrans/internal/config"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(config.LoggerConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)
	defer l.Close()

	l.Debug().Msg("hidden")
	l.Info().Str("body", "sun").Msg("computed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "computed", line["message"])
	assert.Equal(t, "sun", line["body"])
	assert.Equal(t, "info", line["level"])
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(config.LoggerConfig{Level: "debug", Format: "console"}, &buf)
	require.NoError(t, err)

	l.Debug().Msg("polar scan resolved")
	assert.Contains(t, buf.String(), "polar scan resolved")
	assert.Contains(t, buf.String(), "DBG")
}

func TestNewWritesFile(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	l, err := New(config.LoggerConfig{Level: "info", Format: "json", Dir: dir, Mode: 0o600}, &buf)
	require.NoError(t, err)

	l.Info().Msg("to both")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "to both")
	assert.Contains(t, buf.String(), "to both")
}

func TestNewErrors(t *testing.T) {
	_, err := New(config.LoggerConfig{Level: "loud"}, nil)
	assert.Error(t, err)

	_, err = New(config.LoggerConfig{Level: "info", Dir: "/nonexistent/directory/path"}, nil)
	assert.Error(t, err)
}
