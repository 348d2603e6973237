package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joyshmitz/tailrun/internal/project"
	"github.com/joyshmitz/tailrun/internal/repo"
)

var (
	infoOwner string
	infoRepo  string
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the detected module and repository identity",
	Long: `Show what tailrun detects about the current directory: the enclosing Go
module (and workspace members, if a go.work file is in scope) and the
GitHub repository identity from GITHUB_REPOSITORY or the git remote.`,
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().StringVar(&infoOwner, "owner", "", "GitHub repository owner (overrides detection)")
	infoCmd.Flags().StringVar(&infoRepo, "repo", "", "GitHub repository name (overrides detection)")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	ws, err := project.FindWorkspace(dir)
	if err != nil {
		fmt.Printf("module:     (none: %v)\n", err)
	} else if len(ws.Modules) == 1 {
		m := ws.Modules[0]
		fmt.Printf("module:     %s\n", m.Path)
		fmt.Printf("directory:  %s\n", m.Dir)
		if m.GoVersion != "" {
			fmt.Printf("go:         %s\n", m.GoVersion)
		}
	} else {
		fmt.Printf("workspace:  %s (%d modules)\n", ws.Root, len(ws.Modules))
		for _, m := range ws.Modules {
			fmt.Printf("  - %s (%s)\n", m.Path, m.Dir)
		}
	}

	owner, name, err := repo.OwnerRepo(dir, infoOwner, infoRepo)
	if err != nil {
		fmt.Printf("repository: (none: %v)\n", err)
		return nil
	}
	fmt.Printf("repository: %s/%s\n", owner, name)
	return nil
}
