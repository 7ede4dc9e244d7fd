package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorAcceptsDocumentedExample(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	cfg := map[string]interface{}{
		"version":           "1.0",
		"submit_url":        "https://crash.example.test/submit",
		"crashes_directory": "/tmp/crashes",
		"upload_to_server":  true,
		"rate_limit":        true,
		"scrub_patterns":    []string{"*token*"},
		"global_extra":      map[string]string{"env": "prod"},
		"extra":             map[string]string{"build": "123"},
	}
	assert.NoError(t, v.Validate(cfg))
}

func TestValidatorRejectsWrongTypes(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name string
		cfg  map[string]interface{}
	}{
		{"rate_limit as string", map[string]interface{}{"rate_limit": "yes"}},
		{"scrub_patterns as string", map[string]interface{}{"scrub_patterns": "*token*"}},
		{"extra with numeric value", map[string]interface{}{"extra": map[string]interface{}{"build": 123}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, v.Validate(tt.cfg))
		})
	}
}

func TestValidatorAllowsExtensionSections(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	cfg := map[string]interface{}{
		"version": "1.0",
		"my_tool": map[string]interface{}{"anything": "goes"},
	}
	assert.NoError(t, v.Validate(cfg))
}
