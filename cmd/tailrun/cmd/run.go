package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joyshmitz/tailrun/internal/history"
	"github.com/joyshmitz/tailrun/internal/logs"
	"github.com/joyshmitz/tailrun/internal/runner"
)

var (
	runLines   int
	runDir     string
	runCapture bool
	runNoLog   bool
)

var runCmd = &cobra.Command{
	Use:   "run [flags] -- command [args...]",
	Short: "Run a command with a live output window",
	Long: `Run a command inside a pseudoterminal, scrolling its most recent output
lines in place at the bottom of the terminal.

The full combined output is captured regardless of the window height.
On success the window is cleared; on failure the last window stays
visible and tailrun exits with the command's exit code.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVarP(&runLines, "lines", "n", 0, "output lines to show (default from config)")
	runCmd.Flags().StringVarP(&runDir, "dir", "C", "", "working directory for the command")
	runCmd.Flags().BoolVar(&runCapture, "capture", false, "print the full captured output to stdout afterwards")
	runCmd.Flags().BoolVar(&runNoLog, "no-history", false, "skip recording this run in the history ledger")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	commandLine := strings.Join(args, " ")
	statusLine.StatusPermanent("Running", commandLine)

	lines := runLines
	if lines <= 0 {
		lines = cfg.WindowHeight
	}

	build := func() *exec.Cmd {
		c := exec.Command(args[0], args[1:]...)
		if runDir != "" {
			c.Dir = runDir
		}
		return c
	}

	started := time.Now()
	res, err := runner.Run(statusLine, build, &runner.Options{WindowHeight: lines})
	if err != nil {
		_ = logs.Appendf("run %q spawn failed: %v", commandLine, err)
		return fmt.Errorf("run %s: %w", args[0], err)
	}
	_ = logs.Appendf("run %q exit=%d bytes=%d duration=%s",
		commandLine, res.ExitCode, len(res.Output()), time.Since(started).Round(time.Millisecond))

	if cfg.History && !runNoLog {
		recordRun(history.Entry{
			Command:     commandLine,
			ExitCode:    res.ExitCode,
			OutputBytes: len(res.Output()),
			StartedAt:   started,
			Duration:    time.Since(started),
		})
	}

	if runCapture {
		_, _ = os.Stdout.Write(res.Output())
	}

	if !res.Success() {
		statusLine.Error("Failed", fmt.Sprintf("%s (exit code %d)", commandLine, res.ExitCode))
		_ = statusLine.Close()
		os.Exit(res.ExitCode)
	}

	statusLine.StatusPermanent("Finished", commandLine)
	return nil
}

// recordRun appends to the history ledger. History is bookkeeping; a
// failure here must not fail the run.
func recordRun(e history.Entry) {
	db, err := history.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: open history: %v\n", err)
		return
	}
	defer db.Close()

	if err := db.Record(e); err != nil {
		fmt.Fprintf(os.Stderr, "warning: record history: %v\n", err)
	}
}
