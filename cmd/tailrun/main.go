// Package main is the entry point for tailrun.
package main

import (
	"os"

	"github.com/joyshmitz/tailrun/cmd/tailrun/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
