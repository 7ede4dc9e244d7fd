package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/grovetools/crashkit/cli"
	"github.com/grovetools/crashkit/consent"
	"github.com/grovetools/crashkit/errors"
	"github.com/grovetools/crashkit/pkg/paths"
)

// NewConsentCmd creates the 'consent' command for reading and recording
// the upload consent decision.
func NewConsentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consent",
		Short: "Manage crash upload consent",
	}

	cmd.AddCommand(newConsentGetCmd())
	cmd.AddCommand(newConsentSetCmd())

	return cmd
}

func newConsentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show whether crash uploads are enabled",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := consentStore(cmd)
			if err != nil {
				return cli.NewErrorHandler(cli.GetOptions(cmd).Verbose).Handle(err)
			}
			if cli.GetOptions(cmd).JSONOutput {
				fmt.Printf("{\"uploads_enabled\": %t}\n", store.GetConsent())
				return nil
			}
			fmt.Println(store.GetConsent())
			return nil
		},
	}
}

func newConsentSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <true|false>",
		Short: "Enable or disable crash uploads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := strconv.ParseBool(args[0])
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput,
					fmt.Sprintf("expected true or false, got %q", args[0]))
			}
			store, err := consentStore(cmd)
			if err != nil {
				return cli.NewErrorHandler(cli.GetOptions(cmd).Verbose).Handle(err)
			}
			store.SetConsent(enabled)
			fmt.Printf("Crash uploads %s.\n", enabledWord(enabled))
			return nil
		},
	}
}

func consentStore(cmd *cobra.Command) (*consent.FileStore, error) {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dir := cfg.CrashesDirectory
	if dir == "" {
		dir = paths.CrashDumpDir()
	}
	return consent.NewFileStore(dir), nil
}

func enabledWord(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
