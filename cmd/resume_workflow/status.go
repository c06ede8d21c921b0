package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rakshit/resume-workflow/internal/config"
	"github.com/rakshit/resume-workflow/internal/console"
	"github.com/rakshit/resume-workflow/internal/pipeline/stages"
	"github.com/rakshit/resume-workflow/internal/state"
)

var statusCmd = &cobra.Command{
	Use:   "status [config]",
	Short: "Summarize the persisted state of a workflow run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

var statusConfigFile string

func init() {
	statusCmd.Flags().StringVarP(&statusConfigFile, "config-file", "f", "workflow_config.yaml", "Path to the workflow configuration file")

	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	name := "default"
	if len(args) > 0 {
		name = args[0]
	}

	cfg, err := config.Load(statusConfigFile, name)
	if err != nil {
		return err
	}

	st, err := state.Load(cfg.Workflow.StateFile)
	if err != nil {
		return err
	}
	if st == nil {
		fmt.Fprintf(os.Stdout, "No state file at %s; the next run starts fresh.\n", cfg.Workflow.StateFile)
		return nil
	}

	printer := console.NewPrinter(os.Stdout)
	printer.PrintRunSummary(st)

	for _, stage := range stages.Order {
		if !st.StageCompleted(stage) {
			fmt.Fprintf(os.Stdout, "Next stage: %s\n", stage)
			return nil
		}
	}
	fmt.Fprintf(os.Stdout, "All stages completed.\n")
	return nil
}
