// Package cli provides cobra command scaffolding shared by crashkit
// tools.
package cli

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/grovetools/crashkit/config"
	"github.com/grovetools/crashkit/logging"
)

// CommandOptions holds common options for crashkit commands
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a new command with standard crashkit flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddStandardFlags(cmd.PersistentFlags())

	return cmd
}

// AddStandardFlags registers the shared crashkit flags on the given
// flag set.
func AddStandardFlags(flags *pflag.FlagSet) {
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.Bool("json", false, "Output in JSON format")
	flags.StringP("config", "c", "", "Path to crashkit.yml config file")
}

// GetLogger creates a logger based on command flags
func GetLogger(cmd *cobra.Command) *logrus.Logger {
	opts := []LoggerOption{
		WithOutput(os.Stderr),
		WithFormatter(&logging.TextFormatter{}),
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		opts = append(opts, WithLevel(logrus.DebugLevel))
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		opts = append(opts, WithFormatter(&logrus.JSONFormatter{}))
	}

	return NewLogger(opts...)
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// LoadConfig loads the configuration honoring the --config flag, the
// working directory, and the XDG config directory, in that order. The
// loaded logging section is applied to the component loggers.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logging.Apply(cfg.Logging)
	return cfg, nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.Load(path)
	}

	if cwd, err := os.Getwd(); err == nil {
		path := filepath.Join(cwd, config.ConfigFilename)
		if _, err := os.Stat(path); err == nil {
			return config.Load(path)
		}
	}

	return config.LoadDefault()
}
