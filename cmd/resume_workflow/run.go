package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rakshit/resume-workflow/internal/config"
	"github.com/rakshit/resume-workflow/internal/console"
	"github.com/rakshit/resume-workflow/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run [config]",
	Short: "Run the application workflow for a named config",
	Long:  "Run the four-stage workflow (discovery, materialization, tailoring, compilation) for the named config profile. Without flags, an existing state file is resumed automatically.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWorkflow,
}

var (
	runConfigFile      string
	runFresh           bool
	runResume          bool
	runResumeFrom      string
	runYes             bool
	runContinueOnError bool
	runVerbose         bool
	runJobTitle        string
	runLocation        string
	runMaxResults      int
)

func init() {
	runCmd.Flags().StringVarP(&runConfigFile, "config-file", "f", "workflow_config.yaml", "Path to the workflow configuration file")
	runCmd.Flags().BoolVar(&runFresh, "fresh", false, "Discard any existing state and start a new run")
	runCmd.Flags().BoolVar(&runResume, "resume", false, "Resume from the existing state file (fails if none exists)")
	runCmd.Flags().StringVar(&runResumeFrom, "resume-from", "", "Force execution to start at the named stage")
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "Answer yes to every confirmation prompt")
	runCmd.Flags().BoolVar(&runContinueOnError, "continue-on-error", false, "Record item failures and keep going instead of aborting")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Enable debug logging")
	runCmd.Flags().StringVar(&runJobTitle, "job-title", "", "Override the configured discovery job title")
	runCmd.Flags().StringVar(&runLocation, "location", "", "Override the configured discovery location")
	runCmd.Flags().IntVar(&runMaxResults, "max-results", 0, "Override the configured discovery result count")

	rootCmd.AddCommand(runCmd)
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	name := "default"
	if len(args) > 0 {
		name = args[0]
	}

	cfg, err := config.Load(runConfigFile, name)
	if err != nil {
		return err
	}

	// CLI flags override the file only when explicitly set.
	if cmd.Flags().Changed("job-title") {
		cfg.Discovery.JobTitle = runJobTitle
	}
	if cmd.Flags().Changed("location") {
		cfg.Discovery.Location = runLocation
	}
	if cmd.Flags().Changed("max-results") {
		cfg.Discovery.MaxResults = runMaxResults
	}
	if cmd.Flags().Changed("continue-on-error") {
		cfg.Workflow.ContinueOnError = &runContinueOnError
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(runVerbose)
	printer := console.NewPrinter(os.Stdout)
	prompter := console.NewStdPrompter(os.Stdin, os.Stdout)

	engine := pipeline.New(cfg, printer, prompter, logger)
	st, runErr := engine.Run(cmd.Context(), pipeline.Options{
		ConfigName: name,
		Fresh:      runFresh,
		Resume:     runResume,
		ResumeFrom: runResumeFrom,
		Yes:        runYes,
	})
	if st != nil {
		printer.PrintRunSummary(st)
	}
	if runErr != nil {
		return fmt.Errorf("workflow %s: %w", name, runErr)
	}
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
