package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joyshmitz/tailrun/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent windowed runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := history.Open()
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer db.Close()

	entries, err := db.Recent(historyLimit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}

	for _, e := range entries {
		outcome := "ok"
		if e.ExitCode != 0 {
			outcome = fmt.Sprintf("exit %d", e.ExitCode)
		}
		fmt.Printf("%s  %-8s %8s  %s\n",
			e.StartedAt.Local().Format(time.DateTime),
			outcome,
			e.Duration.Round(time.Millisecond),
			e.Command)
	}
	return nil
}
