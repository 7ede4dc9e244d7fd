package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"

	"github.com/grovetools/crashkit/cli"
	"github.com/grovetools/crashkit/pkg/paths"
	"github.com/grovetools/crashkit/uploadlist"
)

// NewWatchCmd creates the 'watch' command that follows the breakpad
// upload log and prints each report as it is recorded.
func NewWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the upload log and print reports as they appear",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return cli.NewErrorHandler(cli.GetOptions(cmd).Verbose).Handle(err)
			}

			dir := cfg.CrashesDirectory
			if dir == "" {
				dir = paths.CrashDumpDir()
			}
			logPath := paths.UploadLogPath(dir)

			t, err := tail.TailFile(logPath, tail.Config{
				Follow: true,
				ReOpen: true,
				Logger: tail.DiscardingLogger,
			})
			if err != nil {
				return err
			}
			defer t.Cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Printf("Watching %s (ctrl-c to stop)\n", logPath)
			for {
				select {
				case <-ctx.Done():
					return t.Stop()
				case line, ok := <-t.Lines:
					if !ok {
						return nil
					}
					if line.Err != nil {
						continue
					}
					rec, ok := uploadlist.ParseLogLine(line.Text)
					if !ok {
						continue
					}
					fmt.Printf("%s  %s\n", rec.UploadTime.Format("2006-01-02 15:04:05"), rec.ReportID)
				}
			}
		},
	}
}
