package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/grovetools/crashkit/backend"
	"github.com/grovetools/crashkit/cli"
	"github.com/grovetools/crashkit/pkg/paths"
	"github.com/grovetools/crashkit/tui/reportlist"
	"github.com/grovetools/crashkit/uploadlist"
)

// NewReportsCmd creates the 'reports' command listing uploaded crash
// reports from the platform's upload store.
func NewReportsCmd() *cobra.Command {
	var maxReports int
	var useTUI bool

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List previously uploaded crash reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return cli.NewErrorHandler(cli.GetOptions(cmd).Verbose).Handle(err)
			}

			dir := cfg.CrashesDirectory
			if dir == "" {
				dir = paths.CrashDumpDir()
			}
			list := uploadlist.NewForPlatform(
				runtime.GOOS,
				backend.StructuredEnabled(runtime.GOOS),
				dir,
			)

			done := make(chan []uploadlist.Record, 1)
			uploadlist.Read(list, func(records []uploadlist.Record) {
				done <- records
			})
			records := <-done

			if maxReports > 0 && maxReports < len(records) {
				records = records[:maxReports]
			}

			if useTUI {
				_, err := tea.NewProgram(reportlist.New(records), tea.WithAltScreen()).Run()
				return err
			}

			if cli.GetOptions(cmd).JSONOutput {
				return json.NewEncoder(os.Stdout).Encode(records)
			}

			if len(records) == 0 {
				fmt.Println("No uploaded crash reports.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "UPLOADED\tREPORT ID")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\n", r.UploadTime.Format("2006-01-02 15:04:05"), r.ReportID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&maxReports, "max", uploadlist.MaxRecords, "Maximum number of reports to list")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "Browse reports interactively")

	return cmd
}
