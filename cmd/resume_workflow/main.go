// Package main provides the entry point for the resume workflow
// orchestrator CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume-workflow",
	Short: "Resumable job-application workflow orchestrator",
	Long:  "resume-workflow discovers job postings, materializes per-job resume folders from a template, tailors their sections with an external AI agent, and compiles the final PDFs, with durable progress and mid-run resumption.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
