package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rakshit/resume-workflow/internal/console"
	"github.com/rakshit/resume-workflow/internal/identity"
	"github.com/rakshit/resume-workflow/internal/pipeline/stages"
	"github.com/rakshit/resume-workflow/internal/search"
	"github.com/rakshit/resume-workflow/internal/selection"
	"github.com/rakshit/resume-workflow/internal/state"
	"github.com/rakshit/resume-workflow/internal/types"
	"github.com/rakshit/resume-workflow/internal/workspace"
)

// MaterializeAdapter turns selected search results into per-job work folders.
type MaterializeAdapter struct {
	printer  *console.Printer
	prompter console.Prompter
}

// NewMaterializeAdapter creates the materialization stage adapter.
func NewMaterializeAdapter(printer *console.Printer, prompter console.Prompter) *MaterializeAdapter {
	return &MaterializeAdapter{printer: printer, prompter: prompter}
}

func (a *MaterializeAdapter) Stage() stages.Stage {
	return stages.Materialization
}

// Plan loads the discovery results, resolves which listings to materialize,
// and commits the chosen set as artifacts before any folder is touched. An
// interrupted run therefore resumes with the same selection instead of asking
// the operator again. Folder names are derived from listing content alone, so
// planning never touches the output tree.
func (a *MaterializeAdapter) Plan(ctx context.Context, req Request) ([]types.WorkItem, state.Artifacts, error) {
	mc := req.Config.Materialization

	discovered := req.State.StageArtifacts(stages.Discovery)
	resultsFile := stringAt(discovered, "results_file")
	if resultsFile == "" {
		return nil, nil, &ValidationError{Message: "discovery recorded no results file; rerun from the discovery stage"}
	}

	results, err := search.ReadResults(resultsFile)
	if err != nil {
		return nil, nil, err
	}

	if len(results.Jobs) == 0 {
		a.printer.Note("Discovery found no jobs; nothing to materialize.")
		return nil, state.Artifacts{
			"folders":          []any{},
			"selected_indices": []any{},
			"selection_mode":   mc.Selection,
		}, nil
	}

	indices, err := a.selectIndices(req, results.Jobs)
	if err != nil {
		return nil, nil, err
	}

	m := &workspace.Materializer{TemplateDir: mc.TemplateDir, OutputDir: mc.OutputDir}
	if err := m.Preflight(); err != nil {
		return nil, nil, err
	}

	items := make([]types.WorkItem, 0, len(indices))
	records := make([]folderRecord, 0, len(indices))
	for _, idx := range indices {
		listing := results.Jobs[idx]
		folder := identity.FolderName(listing)
		items = append(items, types.WorkItem{
			Category: results.Metadata.JobTitle,
			Folder:   folder,
			Path:     filepath.Join(mc.OutputDir, folder),
			Status:   types.ItemStatusPending,
			Listing:  &results.Jobs[idx],
		})
		records = append(records, folderRecord{
			Folder:  folder,
			Path:    filepath.Join(mc.OutputDir, folder),
			Title:   listing.Title,
			Company: listing.Company,
		})
	}

	selected := make([]any, len(indices))
	for i, idx := range indices {
		selected[i] = idx
	}
	return items, state.Artifacts{
		"folders":          encodeFolders(records),
		"selected_indices": selected,
		"selection_mode":   mc.Selection,
	}, nil
}

// RunItem copies the template into the item's folder and writes its job
// record. A folder that already carries its record is reused as is.
func (a *MaterializeAdapter) RunItem(ctx context.Context, req Request, item types.WorkItem) error {
	if item.Listing == nil {
		return &ValidationError{Message: fmt.Sprintf("work item %s carries no job listing", item.Folder)}
	}
	mc := req.Config.Materialization
	m := &workspace.Materializer{TemplateDir: mc.TemplateDir, OutputDir: mc.OutputDir}
	_, existed, err := m.Create(*item.Listing, item.Category)
	if err != nil {
		return err
	}
	if existed {
		a.printer.Note("Folder %s already exists, reusing it.", item.Folder)
	}
	return nil
}

// selectIndices resolves the configured selection mode into listing indices.
// A prior committed selection wins over the mode: resuming must not re-prompt.
func (a *MaterializeAdapter) selectIndices(req Request, jobs []types.JobListing) ([]int, error) {
	prior := req.State.StageArtifacts(stages.Materialization)
	if saved, ok := intsFromArtifact(prior["selected_indices"]); ok && len(saved) > 0 {
		a.printer.Note("Reusing the selection from the interrupted run (%d jobs).", len(saved))
		return saved, nil
	}

	mc := req.Config.Materialization
	switch mc.Selection {
	case "auto":
		indices := selection.Auto(jobs, selection.Policy{
			MaxApplicants: mc.Auto.MaxApplicants,
			Keywords:      mc.Auto.Keywords,
		})
		if len(indices) == 0 && !mc.Auto.AllowEmpty {
			return nil, &ValidationError{Message: "auto selection matched no jobs; relax the policy or set materialization.auto.allow_empty"}
		}
		a.printer.Note("Auto selection matched %d of %d jobs.", len(indices), len(jobs))
		return indices, nil
	case "manual", "":
		return a.promptSelection(jobs)
	default:
		return selection.Parse(mc.Selection, len(jobs))
	}
}

// promptSelection shows the listing table and asks until the answer parses.
func (a *MaterializeAdapter) promptSelection(jobs []types.JobListing) ([]int, error) {
	a.printer.PrintJobList(jobs)
	for {
		answer, err := a.prompter.Ask(fmt.Sprintf(`Select jobs to materialize (e.g. "1,3" or "all", 1-%d)`, len(jobs)))
		if err != nil {
			return nil, err
		}
		indices, err := selection.Parse(answer, len(jobs))
		if err != nil {
			a.printer.Warning(err.Error())
			continue
		}
		return indices, nil
	}
}
