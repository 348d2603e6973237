// Package cmd implements the CLI commands for tailrun.
//
// tailrun runs noisy commands behind a live, bounded output window: the
// most recent lines scroll in place in a terminal region at the bottom
// of the screen while the full output is captured for inspection, so a
// long build or test run does not flood the terminal.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joyshmitz/tailrun/internal/config"
	"github.com/joyshmitz/tailrun/internal/status"
	"github.com/joyshmitz/tailrun/internal/term"
)

var (
	cfg        *config.Config
	policy     term.Policy
	statusLine *status.Line

	progressFlag string
	quietFlag    bool
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "tailrun",
	Short: "Run noisy commands behind a live, bounded output window",
	Long: `tailrun runs a command inside a pseudoterminal and shows only the most
recent lines of its output, scrolling in place at the bottom of the
terminal. The full output is still captured and the command's exit
code is propagated.

  tailrun run --lines 5 -- make -j8

The window height, progress policy, and history recording can be set
in ` + config.Path() + ` or overridden per run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if quietFlag {
			cfg.Quiet = true
		}

		// Precedence: --progress flag, then TAILRUN_PROGRESS, then config.
		switch {
		case progressFlag != "":
			policy = term.PolicyFromString(progressFlag)
		case os.Getenv(term.EnvProgress) != "":
			policy = term.PolicyFromEnv()
		default:
			policy = term.PolicyFromString(cfg.Progress)
		}

		enabled := !cfg.Quiet && policy.ShouldShow(os.Stderr)
		statusLine = status.New(os.Stderr, enabled)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if statusLine != nil {
			_ = statusLine.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&progressFlag, "progress", "", "progress display policy: never, always, or auto")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress status output")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}
