package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_Levels(t *testing.T) {
	l, err := NewLogger(&LoggerConfig{Debug: false})
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zap.DebugLevel))
	require.True(t, l.Core().Enabled(zap.InfoLevel))

	l, err = NewLogger(&LoggerConfig{Debug: true})
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(zap.DebugLevel))
}

func TestNewLogger_NilConfig(t *testing.T) {
	l, err := NewLogger(nil)
	require.NoError(t, err)
	require.NotNil(t, l)
}

func TestNewLogger_OutputPaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eoskey.log")

	l, err := NewLogger(&LoggerConfig{OutputPaths: []string{path}})
	require.NoError(t, err)
	l.Info("hello", zap.String("component", "test"))
	require.NoError(t, l.Sync())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), `"msg":"hello"`)
	require.Contains(t, string(contents), `"component":"test"`)
}
