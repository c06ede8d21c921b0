package pipeline

import (
	"context"
	"log/slog"

	"github.com/rakshit/resume-workflow/internal/pipeline/stages"
	"github.com/rakshit/resume-workflow/internal/search"
	"github.com/rakshit/resume-workflow/internal/state"
)

// DiscoverAdapter runs the job search and writes the results artifact that
// later stages consume.
type DiscoverAdapter struct {
	logger *slog.Logger
}

// NewDiscoverAdapter creates the discovery stage adapter.
func NewDiscoverAdapter(logger *slog.Logger) *DiscoverAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscoverAdapter{logger: logger}
}

func (a *DiscoverAdapter) Stage() stages.Stage {
	return stages.Discovery
}

// Run executes the search and persists the results file. The artifact records
// where the file landed so materialization can find it after a restart.
func (a *DiscoverAdapter) Run(ctx context.Context, req Request) (state.Artifacts, error) {
	dc := req.Config.Discovery
	client := search.NewClient(search.Options{
		JobTitle:      dc.JobTitle,
		Location:      dc.Location,
		MaxResults:    dc.MaxResults,
		TimeFilter:    dc.TimeFilter,
		MaxApplicants: dc.MaxApplicants,
		DetailWorkers: dc.DetailWorkers,
		UseBrowser:    dc.UseBrowser,
	}, a.logger)

	results, err := client.Run(ctx)
	if err != nil {
		return nil, err
	}

	path, err := search.WriteJSON(results, dc.OutputDir)
	if err != nil {
		return nil, err
	}
	a.logger.Info("search results written", "path", path, "total", results.Metadata.TotalResults)

	return state.Artifacts{
		"results_file":  path,
		"total_results": results.Metadata.TotalResults,
		"job_title":     dc.JobTitle,
	}, nil
}
