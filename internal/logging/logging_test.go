package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/five82/shelf/internal/logtail"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	lvl, err = ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "shelf.log")

	lg, err := New(path, "info")
	require.NoError(t, err)
	lg.Named("loader").Info("Loaded products", zap.Int("count", 12))
	lg.Debug("hidden")
	_ = lg.Sync()

	lines, err := logtail.Read(path, 0)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	e, ok := logtail.Parse(lines[0])
	require.True(t, ok)
	assert.Equal(t, "info", e.Level)
	assert.Equal(t, "loader", e.Logger)
	assert.Equal(t, "Loaded products", e.Message)
	assert.Equal(t, float64(12), e.Fields["count"])
	assert.False(t, e.Time.IsZero())
}

func TestNewEmptyPathIsNop(t *testing.T) {
	lg, err := New("", "info")
	require.NoError(t, err)
	assert.NotNil(t, lg)
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "x.log"), "loud")
	assert.Error(t, err)
}
