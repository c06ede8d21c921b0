package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rakshit/resume-workflow/internal/config"
)

var configsCmd = &cobra.Command{
	Use:   "configs",
	Short: "List the named config profiles in the workflow file",
	RunE:  runConfigs,
}

var configsFile string

func init() {
	configsCmd.Flags().StringVarP(&configsFile, "config-file", "f", "workflow_config.yaml", "Path to the workflow configuration file")

	rootCmd.AddCommand(configsCmd)
}

func runConfigs(cmd *cobra.Command, args []string) error {
	f, err := config.LoadFile(configsFile)
	if err != nil {
		return err
	}

	names := f.Names()
	if len(names) == 0 {
		fmt.Fprintf(os.Stdout, "No configs defined in %s\n", configsFile)
		return nil
	}

	fmt.Fprintf(os.Stdout, "Configs in %s:\n", configsFile)
	for _, name := range names {
		fmt.Fprintf(os.Stdout, "  %s\n", name)
	}
	return nil
}
