package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "symphony",
	Short: "Idea Symphony - AI powered brainstorming",
	Long: `Idea Symphony turns a raw idea into a brainstorming session run by
several simulated participants and merges their answers into one document.

Commands:
  run         Start an interactive brainstorming session
  stages      Print the effective stage configuration

Quick Start:
  1. symphony run --mock          Try the flow with canned data
  2. symphony run --url http://localhost:8080`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
