package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grovetools/crashkit/cli"
	"github.com/grovetools/crashkit/errors"
	"github.com/grovetools/crashkit/internal/monitor"
	"github.com/grovetools/crashkit/internal/monitor/pidfile"
	"github.com/grovetools/crashkit/pkg/paths"
)

// NewMonitorCmd creates the 'monitor' command running the crash
// directory monitor daemon in the foreground.
func NewMonitorCmd() *cobra.Command {
	var crashDir string

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch the crash directory and serve events over a unix socket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return cli.NewErrorHandler(cli.GetOptions(cmd).Verbose).Handle(err)
			}

			dir := crashDir
			if dir == "" {
				dir = cfg.CrashesDirectory
			}
			if dir == "" {
				dir = paths.CrashDumpDir()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cli.GetLogger(cmd).WithField("dir", dir).Debug("Starting crash monitor")
			return monitor.New(dir).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&crashDir, "crash-dir", "", "Crash dump directory to monitor (defaults to the configured directory)")

	cmd.AddCommand(newMonitorStatusCmd())
	cmd.AddCommand(newMonitorRecentCmd())

	return cmd
}

func newMonitorStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the crash monitor is running",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := monitor.NewClient(paths.SocketPath())
			defer client.Close()

			if !client.IsRunning() {
				return cli.NewErrorHandler(cli.GetOptions(cmd).Verbose).
					Handle(errors.MonitorNotRunning(paths.SocketPath()))
			}
			if pid, err := pidfile.Read(paths.PidFilePath()); err == nil {
				fmt.Printf("Crash monitor is running (pid %d).\n", pid)
			} else {
				fmt.Println("Crash monitor is running.")
			}
			return nil
		},
	}
}

func newMonitorRecentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recent events from the running monitor",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := monitor.NewClient(paths.SocketPath())
			defer client.Close()

			events, err := client.Recent(cmd.Context())
			if err != nil {
				return cli.NewErrorHandler(cli.GetOptions(cmd).Verbose).Handle(err)
			}

			if cli.GetOptions(cmd).JSONOutput {
				return json.NewEncoder(os.Stdout).Encode(events)
			}
			if len(events) == 0 {
				fmt.Println("No recent events.")
				return nil
			}
			for _, ev := range events {
				fmt.Printf("%s  %-16s %s\n", ev.Time.Format("2006-01-02 15:04:05"), ev.Type, eventDetail(ev))
			}
			return nil
		},
	}
}

func eventDetail(ev monitor.Event) string {
	if ev.ReportID != "" {
		return ev.ReportID
	}
	return ev.Path
}
