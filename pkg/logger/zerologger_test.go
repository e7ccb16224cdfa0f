package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroLogger_Info(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Info("info-test", Field{Key: "key", Value: "value"})

	output := buf.String()
	assert.Contains(t, output, "info-test")
	assert.Contains(t, output, `"key":"value"`)
	assert.Contains(t, output, `"level":"info"`)
}

func TestZeroLogger_DebugShownInDev(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Debug("debug-test")

	assert.Contains(t, buf.String(), "debug-test")
}

func TestZeroLogger_DebugHiddenInProduction(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("production", buf)

	log.Debug("debug-hidden")

	assert.Empty(t, buf.String())
}

func TestZeroLogger_LevelIsPerInstance(t *testing.T) {
	prod := &bytes.Buffer{}
	dev := &bytes.Buffer{}
	prodLog := NewWithWriter("production", prod)
	devLog := NewWithWriter("development", dev)

	prodLog.Debug("hidden")
	devLog.Debug("shown")

	assert.Empty(t, prod.String())
	assert.Contains(t, dev.String(), "shown")
}

func TestZeroLogger_ErrorField(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Error("error-test", Field{Key: "err", Value: errors.New("boom")})

	output := buf.String()
	assert.Contains(t, output, `"level":"error"`)
	assert.Contains(t, output, `"err":"boom"`)
}

func TestZeroLogger_Warn(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Warn("warn-test", Field{Key: "warn", Value: "yes"})

	output := buf.String()
	assert.Contains(t, output, `"level":"warn"`)
	assert.Contains(t, output, `"warn":"yes"`)
}

func TestZeroLogger_RotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	file := newRotatingFile(FileOptions{Path: path})
	log := NewWithWriter("development", file)

	log.Info("to-file", Field{Key: "n", Value: 1})
	require.NoError(t, file.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "to-file"))
}
