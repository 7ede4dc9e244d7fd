package config

import (
	"github.com/grovetools/crashkit/schema"
)

// SchemaValidator validates configuration against the embedded JSON
// Schema. This is a wrapper around schema.Validator so callers using
// the config package don't need to import schema directly.
type SchemaValidator struct {
	validator *schema.Validator
}

// NewSchemaValidator creates a new schema validator, loading the embedded schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	validator, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}
	return &SchemaValidator{validator: validator}, nil
}

// Validate validates configuration data against the schema.
func (v *SchemaValidator) Validate(configData interface{}) error {
	return v.validator.Validate(configData)
}
