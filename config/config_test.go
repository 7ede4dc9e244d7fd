package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	crasherrors "github.com/grovetools/crashkit/errors"
)

func TestLoadFromBytes(t *testing.T) {
	yamlContent := []byte(`
version: "1.0"
submit_url: https://crash.example.test/submit
crashes_directory: /tmp/crashes
upload_to_server: true
rate_limit: true
scrub_patterns:
  - "*token*"
global_extra:
  env: prod
extra:
  build: "123"
`)

	cfg, err := LoadFromBytes(yamlContent)
	require.NoError(t, err)

	assert.Equal(t, "https://crash.example.test/submit", cfg.SubmitURL)
	assert.Equal(t, "/tmp/crashes", cfg.CrashesDirectory)
	assert.True(t, cfg.UploadToServer)
	assert.True(t, cfg.RateLimit)
	assert.Equal(t, []string{"*token*"}, cfg.ScrubPatterns)
	assert.Equal(t, map[string]string{"env": "prod"}, cfg.GlobalExtra)
	assert.Equal(t, map[string]string{"build": "123"}, cfg.Extra)
}

func TestLoadFromBytesDefaults(t *testing.T) {
	cfg, err := LoadFromBytes(nil)
	require.NoError(t, err)

	assert.Equal(t, "1.0", cfg.Version)
	assert.NotEmpty(t, cfg.CrashesDirectory, "crashes directory defaults to the standard location")
}

func TestLoadFromBytesRejectsBadSubmitURL(t *testing.T) {
	_, err := LoadFromBytes([]byte(`submit_url: "not a url"`))
	require.Error(t, err)
	assert.True(t, crasherrors.Is(err, crasherrors.ErrCodeConfigInvalid))
}

func TestLoadFromBytesEnvExpansion(t *testing.T) {
	t.Setenv("CRASH_TEST_URL", "https://crash.example.test/submit")

	cfg, err := LoadFromBytes([]byte("submit_url: ${CRASH_TEST_URL}\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://crash.example.test/submit", cfg.SubmitURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "crashkit.yml"))
	require.Error(t, err)
	assert.True(t, crasherrors.Is(err, crasherrors.ErrCodeConfigNotFound))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte("version: \"1.0\"\ncompress: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Compress)
}

func TestStartOptionsMapping(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
submit_url: https://crash.example.test/submit
crashes_directory: /tmp/crashes
upload_to_server: true
compress: true
global_extra:
  env: prod
extra:
  build: "123"
`))
	require.NoError(t, err)

	opts := cfg.StartOptions()
	assert.Equal(t, "https://crash.example.test/submit", opts.SubmitURL)
	assert.Equal(t, "/tmp/crashes", opts.CrashesDirectory)
	assert.True(t, opts.UploadToServer)
	assert.True(t, opts.Compress)
	assert.Equal(t, map[string]string{"env": "prod"}, opts.ExtraGlobal)
	assert.Equal(t, map[string]string{"build": "123"}, opts.Extra)
}

// TestExtensions verifies that custom extension sections in
// crashkit.yml are kept and can be decoded by their owners.
func TestExtensions(t *testing.T) {
	yamlContent := []byte(`
version: "1.0"
submit_url: https://crash.example.test/submit

# Extension section owned by an embedding tool
symbolizer:
  server: https://symbols.example.test
  cache_size: 100
`)

	cfg, err := LoadFromBytes(yamlContent)
	require.NoError(t, err)
	require.NotNil(t, cfg.Extensions)

	type SymbolizerConfig struct {
		Server    string `yaml:"server"`
		CacheSize int    `yaml:"cache_size"`
	}

	var symCfg SymbolizerConfig
	require.NoError(t, cfg.UnmarshalExtension("symbolizer", &symCfg))
	assert.Equal(t, "https://symbols.example.test", symCfg.Server)
	assert.Equal(t, 100, symCfg.CacheSize)

	// Absent extensions leave the target zero-valued.
	var missing SymbolizerConfig
	require.NoError(t, cfg.UnmarshalExtension("nope", &missing))
	assert.Zero(t, missing)
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)
	assert.Contains(t, string(data), "submit_url")
	assert.Contains(t, string(data), "scrub_patterns")
	assert.Contains(t, string(data), "Crashkit Configuration")
}
