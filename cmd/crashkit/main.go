package main

import (
	"os"

	"github.com/grovetools/crashkit/cli"
	"github.com/grovetools/crashkit/cmd"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"crashkit",
		"Crash reporting lifecycle manager and tooling",
	)

	// Add subcommands
	rootCmd.AddCommand(cmd.NewReportsCmd())
	rootCmd.AddCommand(cmd.NewConsentCmd())
	rootCmd.AddCommand(cmd.NewWatchCmd())
	rootCmd.AddCommand(cmd.NewMonitorCmd())
	rootCmd.AddCommand(cmd.NewConfigCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
