package pipeline

import (
	"context"

	"github.com/rakshit/resume-workflow/internal/config"
	"github.com/rakshit/resume-workflow/internal/pipeline/stages"
	"github.com/rakshit/resume-workflow/internal/state"
	"github.com/rakshit/resume-workflow/internal/types"
)

// Request carries what an adapter may read: the resolved profile and the
// current run state. Adapters return artifacts instead of mutating state; the
// engine owns every commit.
type Request struct {
	Config *config.Config
	State  *state.State
}

// Adapter backs one pipeline stage. Every adapter also implements RunAdapter
// or ItemAdapter; the engine dispatches on which.
type Adapter interface {
	Stage() stages.Stage
}

// RunAdapter executes a stage as a single unit of work.
type RunAdapter interface {
	Adapter
	Run(ctx context.Context, req Request) (state.Artifacts, error)
}

// ItemAdapter executes a stage as a collection of work items, letting the
// engine commit, skip, and replay items individually.
type ItemAdapter interface {
	Adapter
	// Plan derives the stage's work items from config and prior artifacts.
	// The returned artifacts are committed before any item runs, so an
	// interrupted stage still knows its item universe on resume.
	Plan(ctx context.Context, req Request) ([]types.WorkItem, state.Artifacts, error)
	// RunItem executes one work item.
	RunItem(ctx context.Context, req Request, item types.WorkItem) error
}
