package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/crashkit/logging"
)

func TestGetLoggerDefaults(t *testing.T) {
	cmd := NewStandardCommand("crashkit", "test")

	logger := GetLogger(cmd)

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logging.TextFormatter{}, logger.Formatter)
	assert.Equal(t, os.Stderr, logger.Out)
}

func TestGetLoggerVerboseFlag(t *testing.T) {
	cmd := NewStandardCommand("crashkit", "test")
	require.NoError(t, cmd.ParseFlags([]string{"--verbose"}))

	logger := GetLogger(cmd)

	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestGetLoggerJSONFlag(t *testing.T) {
	cmd := NewStandardCommand("crashkit", "test")
	require.NoError(t, cmd.ParseFlags([]string{"--json"}))

	logger := GetLogger(cmd)

	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestLoggerOptions(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(
		WithOutput(&buf),
		WithLevel(logrus.WarnLevel),
		WithFormatter(&logrus.JSONFormatter{}),
	)

	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	logger.Warn("reported")
	assert.Contains(t, buf.String(), `"msg":"reported"`)
}

func TestLoadConfigAppliesLoggingSection(t *testing.T) {
	t.Setenv("CRASHKIT_HOME", t.TempDir())
	t.Setenv("CRASHKIT_LOG_LEVEL", "")
	t.Cleanup(func() { logging.Apply(logging.Config{}) })

	path := filepath.Join(t.TempDir(), "crashkit.yml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644))

	cmd := NewStandardCommand("crashkit", "test")
	require.NoError(t, cmd.ParseFlags([]string{"--config", path}))

	_, err := LoadConfig(cmd)
	require.NoError(t, err)

	logger := logging.NewLogger("cli-config-test")
	assert.Equal(t, logrus.DebugLevel, logger.Logger.GetLevel())
}
