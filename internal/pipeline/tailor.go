package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rakshit/resume-workflow/internal/config"
	"github.com/rakshit/resume-workflow/internal/pipeline/stages"
	"github.com/rakshit/resume-workflow/internal/state"
	"github.com/rakshit/resume-workflow/internal/tailor"
	"github.com/rakshit/resume-workflow/internal/types"
)

// TailorAdapter rewrites each materialized folder's resume sections against
// its stored job record.
type TailorAdapter struct {
	logger *slog.Logger

	// backend is created on first use so a run that skips tailoring never
	// needs the agent binary or an API key.
	backend tailor.Backend
}

// NewTailorAdapter creates the tailoring stage adapter.
func NewTailorAdapter(logger *slog.Logger) *TailorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TailorAdapter{logger: logger}
}

func (a *TailorAdapter) Stage() stages.Stage {
	return stages.Tailoring
}

// Plan derives the work items from the folders materialization committed.
func (a *TailorAdapter) Plan(ctx context.Context, req Request) ([]types.WorkItem, state.Artifacts, error) {
	items, err := folderWorkItems(req)
	if err != nil {
		return nil, nil, err
	}
	return items, state.Artifacts{
		"backend":  req.Config.Tailoring.Backend,
		"sections": sectionsArtifact(req.Config.Tailoring.Sections),
	}, nil
}

func (a *TailorAdapter) RunItem(ctx context.Context, req Request, item types.WorkItem) error {
	if a.backend == nil {
		backend, err := newTailorBackend(ctx, req.Config.Tailoring, a.logger)
		if err != nil {
			return err
		}
		a.backend = backend
	}
	return a.backend.Run(ctx, item.Path, req.Config.Tailoring.Sections)
}

// newTailorBackend builds the configured rewrite backend and verifies it is
// usable before the first folder is touched.
func newTailorBackend(ctx context.Context, tc config.TailoringConfig, logger *slog.Logger) (tailor.Backend, error) {
	switch tc.Backend {
	case "gemini":
		return tailor.NewGeminiTailor(ctx, os.Getenv("GEMINI_API_KEY"), tc.Model, logger)
	case "agent", "":
		runner := tailor.NewAgentRunner(tc.AgentCommand, time.Duration(tc.TimeoutMinutes)*time.Minute, logger)
		if err := runner.Preflight(); err != nil {
			return nil, err
		}
		return runner, nil
	default:
		return nil, &ValidationError{Message: fmt.Sprintf("unknown tailoring backend %q", tc.Backend)}
	}
}

func sectionsArtifact(sections []string) []any {
	out := make([]any, len(sections))
	for i, s := range sections {
		out[i] = s
	}
	return out
}
