package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/grovetools/crashkit/logging"
)

// GenerateSchema generates the JSON Schema for the crashkit
// configuration. It reflects the Config struct but excludes the
// Extensions field, which holds free-form tool sections.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Extension sections are free-form, so unknown top-level keys stay legal.
		AllowAdditionalProperties: true,
		// Expand struct references instead of using $ref for a cleaner schema.
		ExpandedStruct: true,
		// Use YAML field names for property names
		FieldNameTag: "yaml",
	}

	// A copy of Config without the Extensions field so it's not
	// included in the schema.
	type BaseConfig struct {
		Version                  string            `yaml:"version,omitempty" jsonschema:"description=Configuration format version (e.g. '1.0')"`
		SubmitURL                string            `yaml:"submit_url,omitempty" jsonschema:"description=Crash report submission endpoint"`
		CrashesDirectory         string            `yaml:"crashes_directory,omitempty" jsonschema:"description=Directory holding dumps and the report database"`
		UploadToServer           bool              `yaml:"upload_to_server,omitempty" jsonschema:"description=Seed value for the persisted upload consent"`
		IgnoreSystemCrashHandler bool              `yaml:"ignore_system_crash_handler,omitempty" jsonschema:"description=Keep the OS-level crash handler out of the way"`
		RateLimit                bool              `yaml:"rate_limit,omitempty" jsonschema:"description=Throttle uploads in the backend"`
		Compress                 bool              `yaml:"compress,omitempty" jsonschema:"description=Compress uploads where the backend supports it"`
		ScrubPatterns            []string          `yaml:"scrub_patterns,omitempty" jsonschema:"description=Crash-key name patterns that must never be attached"`
		GlobalExtra              map[string]string `yaml:"global_extra,omitempty" jsonschema:"description=Annotations mirrored into the global key table"`
		Extra                    map[string]string `yaml:"extra,omitempty" jsonschema:"description=Annotations applied to the backend only"`
		Logging                  logging.Config    `yaml:"logging,omitempty" jsonschema:"description=Diagnostic logging configuration"`
	}

	schema := r.Reflect(&BaseConfig{})
	schema.Title = "Crashkit Configuration"
	schema.Description = "Schema for crashkit.yml properties."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}
