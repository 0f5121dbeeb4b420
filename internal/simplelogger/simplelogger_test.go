package simplelogger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesAndAppends(t *testing.T) {
	t.Setenv(EnvLogFile, filepath.Join(t.TempDir(), "linediff.log"))

	logger, closeLog := New()
	logger.Debug("hello", zap.String("who", "world"))
	closeLog()

	logger, closeLog = New()
	logger.Info("again", zap.Int("n", 123))
	closeLog()

	b, err := os.ReadFile(os.Getenv(EnvLogFile))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, "hello", first["msg"])
	require.Equal(t, "world", first["who"])
	require.Equal(t, "debug", first["level"])
	require.Contains(t, first, "ts")

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.Equal(t, "again", second["msg"])
	require.EqualValues(t, 123, second["n"])
}

func TestNew_NoOpWhenUnset(t *testing.T) {
	t.Setenv(EnvLogFile, "")
	logger, closeLog := New()
	logger.Info("should not panic")
	closeLog()
}

func TestNew_NoOpWhenPathIsDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvLogFile, dir)

	logger, closeLog := New()
	logger.Info("ignored")
	closeLog()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
