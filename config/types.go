package config

import (
	"fmt"
	"net/url"

	"github.com/mitchellh/mapstructure"

	"github.com/grovetools/crashkit/errors"
	"github.com/grovetools/crashkit/logging"
	"github.com/grovetools/crashkit/pkg/paths"
	"github.com/grovetools/crashkit/reporter"
)

// Config is the crashkit.yml configuration.
type Config struct {
	// Version is the configuration format version.
	Version string `yaml:"version" json:"version"`

	// SubmitURL is the crash report submission endpoint.
	SubmitURL string `yaml:"submit_url" json:"submit_url,omitempty"`

	// CrashesDirectory holds dumps and the report database. Empty
	// selects the standard crashkit location.
	CrashesDirectory string `yaml:"crashes_directory" json:"crashes_directory,omitempty"`

	// UploadToServer seeds the persisted upload consent at Start.
	UploadToServer bool `yaml:"upload_to_server" json:"upload_to_server,omitempty"`

	// IgnoreSystemCrashHandler keeps the OS-level handler out of the way.
	IgnoreSystemCrashHandler bool `yaml:"ignore_system_crash_handler" json:"ignore_system_crash_handler,omitempty"`

	// RateLimit throttles uploads in the backend.
	RateLimit bool `yaml:"rate_limit" json:"rate_limit,omitempty"`

	// Compress gzip-compresses uploads where the backend supports it.
	Compress bool `yaml:"compress" json:"compress,omitempty"`

	// ScrubPatterns is a denylist of crash-key name patterns that must
	// never be attached to a report (e.g. "*token*").
	ScrubPatterns []string `yaml:"scrub_patterns" json:"scrub_patterns,omitempty"`

	// GlobalExtra are annotations mirrored into the process-wide
	// global key table in addition to the backend.
	GlobalExtra map[string]string `yaml:"global_extra" json:"global_extra,omitempty"`

	// Extra are annotations applied to the backend only.
	Extra map[string]string `yaml:"extra" json:"extra,omitempty"`

	// Logging configures the diagnostic log output.
	Logging logging.Config `yaml:"logging" json:"logging,omitempty"`

	// Extensions captures all other top-level keys for extensibility.
	Extensions map[string]interface{} `yaml:",inline" json:"-"`
}

// SetDefaults fills in values the file left out.
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.CrashesDirectory == "" {
		c.CrashesDirectory = paths.CrashDumpDir()
	}
}

// Validate checks semantic constraints the schema cannot express.
func (c *Config) Validate() error {
	if c.SubmitURL != "" {
		u, err := url.Parse(c.SubmitURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return errors.ConfigInvalid(fmt.Sprintf("submit_url must be an http(s) URL, got %q", c.SubmitURL))
		}
	}
	return nil
}

// StartOptions converts the configuration into reporter Start
// parameters.
func (c *Config) StartOptions() reporter.StartOptions {
	return reporter.StartOptions{
		SubmitURL:                c.SubmitURL,
		CrashesDirectory:         c.CrashesDirectory,
		UploadToServer:           c.UploadToServer,
		IgnoreSystemCrashHandler: c.IgnoreSystemCrashHandler,
		RateLimit:                c.RateLimit,
		Compress:                 c.Compress,
		ExtraGlobal:              c.GlobalExtra,
		Extra:                    c.Extra,
	}
}

// UnmarshalExtension decodes a specific extension's configuration from
// the loaded crashkit.yml into the provided target struct. The target
// must be a pointer. An absent key leaves the target zero-valued.
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
