// Package logging builds the zap logger. The terminal belongs to the TUI, so
// log lines go to a file that can be inspected after the session ends.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jask/forensicdesk/internal/config"
)

// New returns a logger writing to cfg.Log.Path. An empty path yields a no-op
// logger. Development mode switches to the human-readable console encoder.
func New(cfg config.Config) (*zap.Logger, error) {
	path := strings.TrimSpace(cfg.Log.Path)
	if path == "" {
		return zap.NewNop(), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}

	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Development() {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger.With(zap.String("mode", cfg.Mode)), nil
}
