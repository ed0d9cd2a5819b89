package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevelRouting(t *testing.T) {
	var stdout, stderr, file bytes.Buffer
	enc := func() zapcore.Encoder { return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()) }
	logger := zap.New(newCore(enc, zapcore.AddSync(&stdout), zapcore.AddSync(&stderr), zapcore.AddSync(&file), zapcore.InfoLevel))

	logger.Debug("hidden")
	logger.Info("hello")
	logger.Warn("careful")
	logger.Error("broken")

	assert.Contains(t, stdout.String(), "hello")
	assert.Contains(t, stdout.String(), "careful")
	assert.NotContains(t, stdout.String(), "broken")
	assert.NotContains(t, stdout.String(), "hidden")

	assert.Contains(t, stderr.String(), "broken")
	assert.NotContains(t, stderr.String(), "hello")

	for _, msg := range []string{"hello", "careful", "broken"} {
		assert.Contains(t, file.String(), msg)
	}
	assert.NotContains(t, file.String(), "hidden")
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "izposoja.log")

	logger, cleanup, err := New(Production, path)
	require.NoError(t, err)
	logger.Info("written to file", zap.String("k", "v"))
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Contains(t, string(data), `"timestamp"`)
}

func TestNewBadFile(t *testing.T) {
	_, _, err := New(Production, filepath.Join(t.TempDir(), "missing", "x.log"))
	assert.Error(t, err)
}
