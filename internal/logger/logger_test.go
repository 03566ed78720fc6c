package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesOnlyErrorsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error.log")

	log, closeLog, err := New("debug", path)
	require.NoError(t, err)

	log.Info("informational message")
	log.Error("save users failed", zap.String("error", "disk full"))
	_ = log.Sync()
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "save users failed")
	assert.Contains(t, content, "disk full")
	assert.NotContains(t, content, "informational message")
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(content), "\n")+1)
}

func TestNew_AppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error.log")
	require.NoError(t, os.WriteFile(path, []byte("previous line\n"), 0o644))

	log, closeLog, err := New("info", path)
	require.NoError(t, err)

	log.Error("send message failed")
	_ = log.Sync()
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "previous line\n"))
	assert.Contains(t, string(data), "send message failed")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New("verbose", "")
	assert.Error(t, err)
}
