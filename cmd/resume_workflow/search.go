package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rakshit/resume-workflow/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run the job search on its own, without the pipeline",
	Long:  "Run the discovery search and write the results JSON (and optionally CSV) without touching any workflow state.",
	RunE:  runSearch,
}

var (
	searchJobTitle      string
	searchLocation      string
	searchMaxResults    int
	searchTimeFilter    string
	searchMaxApplicants int
	searchOutDir        string
	searchCSV           bool
	searchUseBrowser    bool
	searchWorkers       int
	searchVerbose       bool
)

func init() {
	searchCmd.Flags().StringVarP(&searchJobTitle, "job-title", "t", "", "Job title to search for (required)")
	searchCmd.Flags().StringVarP(&searchLocation, "location", "l", "", "Location filter")
	searchCmd.Flags().IntVarP(&searchMaxResults, "max-results", "n", 25, "Maximum number of results")
	searchCmd.Flags().StringVar(&searchTimeFilter, "time-filter", "week", "Posting age filter: day, 2days, week, 2weeks")
	searchCmd.Flags().IntVar(&searchMaxApplicants, "max-applicants", 0, "Drop jobs with more applicants than this (0 = keep all)")
	searchCmd.Flags().StringVarP(&searchOutDir, "out", "o", "job_searches", "Output directory")
	searchCmd.Flags().BoolVar(&searchCSV, "csv", false, "Also write a CSV view of the results")
	searchCmd.Flags().BoolVar(&searchUseBrowser, "browser", false, "Use a headless browser for thin detail pages")
	searchCmd.Flags().IntVar(&searchWorkers, "workers", 4, "Concurrent detail-page fetches")
	searchCmd.Flags().BoolVarP(&searchVerbose, "verbose", "v", false, "Enable debug logging")

	searchCmd.MarkFlagRequired("job-title")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	client := search.NewClient(search.Options{
		JobTitle:      searchJobTitle,
		Location:      searchLocation,
		MaxResults:    searchMaxResults,
		TimeFilter:    searchTimeFilter,
		MaxApplicants: searchMaxApplicants,
		DetailWorkers: searchWorkers,
		UseBrowser:    searchUseBrowser,
	}, newLogger(searchVerbose))

	results, err := client.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	jsonPath, err := search.WriteJSON(results, searchOutDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Found %d jobs\n", results.Metadata.TotalResults)
	fmt.Fprintf(os.Stdout, "Results: %s\n", jsonPath)

	if searchCSV {
		csvPath, err := search.WriteCSV(results, searchOutDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "CSV:     %s\n", csvPath)
	}
	return nil
}
