package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/forensicdesk/internal/config"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fd.log")
	cfg := config.Config{Mode: config.ModeProduction, Log: config.LogConfig{Path: path, Level: "info"}}

	logger, err := New(cfg)
	require.NoError(t, err)
	logger.Info("hello")
	logger.Debug("dropped")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"hello"`)
	require.Contains(t, string(data), `"mode":"production"`)
	require.NotContains(t, string(data), "dropped")
}

func TestNewWithoutPathIsNop(t *testing.T) {
	logger, err := New(config.Config{Mode: config.ModeProduction})
	require.NoError(t, err)
	require.NotNil(t, logger)
	logger.Info("nowhere")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fd.log")
	_, err := New(config.Config{Mode: config.ModeProduction, Log: config.LogConfig{Path: path, Level: "loud"}})
	require.Error(t, err)
}
