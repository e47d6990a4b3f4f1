package main

import (
	"fmt"

	"github.com/OFFIS-RIT/symphony/internal/util"
	"github.com/OFFIS-RIT/symphony/pkg/symphony"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var stagesFile string

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "Print the effective stage configuration",
	Long: `Print the stage configuration the server would use: the embedded
defaults merged with the file given by --file or STAGES_FILE.

Use the output as a starting point for your own stages file.`,
	Args: cobra.NoArgs,
	RunE: runStages,
}

func init() {
	stagesCmd.Flags().StringVar(&stagesFile, "file", "", "Stages file (default $STAGES_FILE)")
	rootCmd.AddCommand(stagesCmd)
}

func runStages(cmd *cobra.Command, args []string) error {
	util.LoadEnv()

	path := stagesFile
	if path == "" {
		path = util.GetEnv("STAGES_FILE")
	}
	stages, err := symphony.LoadStages(path)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(stages)
	if err != nil {
		return fmt.Errorf("failed to encode stages: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
