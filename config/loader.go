package config

import (
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/grovetools/crashkit/errors"
	"github.com/grovetools/crashkit/pkg/paths"
)

// ConfigFilename is the name of the crashkit configuration file.
const ConfigFilename = "crashkit.yml"

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads and parses a crashkit configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	return LoadFromBytes(data)
}

// LoadDefault finds and loads the configuration:
// 1. crashkit.yml in the current working directory
// 2. crashkit.yml in the XDG config directory
// A missing file is not an error; the returned config carries defaults.
func LoadDefault() (*Config, error) {
	if cwd, err := os.Getwd(); err == nil {
		path := filepath.Join(cwd, ConfigFilename)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	if dir := paths.ConfigDir(); dir != "" {
		path := filepath.Join(dir, ConfigFilename)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}

	return LoadFromBytes(nil)
}

// LoadFromBytes parses configuration from byte array
func LoadFromBytes(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
	}

	// Validate against schema
	validator, err := NewSchemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to create validator")
	}
	if err := validator.Validate(&config); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigValidation, "schema validation failed")
	}

	config.SetDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// expandEnvVars substitutes ${VAR} references with environment values.
// Unset variables expand to the empty string.
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		name := envVarRegex.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}
