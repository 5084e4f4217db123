// Package logging builds shelf's zap logger.
package logging

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON logger appending to path at the given level. The TUI
// owns the terminal, so an empty path discards everything instead of
// falling back to stderr.
func New(path, level string) (*zap.Logger, error) {
	if strings.TrimSpace(path) == "" {
		return zap.NewNop(), nil
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create log dir")
	}

	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.RFC3339NanoTimeEncoder

	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(lvl),
		Encoding:          "json",
		EncoderConfig:     enc,
		OutputPaths:       []string{path},
		ErrorOutputPaths:  []string{path},
		DisableStacktrace: lvl > zapcore.DebugLevel,
	}
	lg, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return lg, nil
}

// ParseLevel maps a level name onto zap's levels. Blank means info.
func ParseLevel(level string) (zapcore.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zapcore.InfoLevel, errors.Wrapf(err, "log level %q", level)
	}
	return lvl, nil
}
