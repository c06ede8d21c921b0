package pipeline

import (
	"context"
	"log/slog"

	"github.com/rakshit/resume-workflow/internal/build"
	"github.com/rakshit/resume-workflow/internal/pipeline/stages"
	"github.com/rakshit/resume-workflow/internal/state"
	"github.com/rakshit/resume-workflow/internal/types"
)

// CompileAdapter compiles each folder's resume document into a PDF.
type CompileAdapter struct {
	logger *slog.Logger
}

// NewCompileAdapter creates the compilation stage adapter.
func NewCompileAdapter(logger *slog.Logger) *CompileAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompileAdapter{logger: logger}
}

func (a *CompileAdapter) Stage() stages.Stage {
	return stages.Compilation
}

// Plan derives the work items from the folders materialization committed.
func (a *CompileAdapter) Plan(ctx context.Context, req Request) ([]types.WorkItem, state.Artifacts, error) {
	items, err := folderWorkItems(req)
	if err != nil {
		return nil, nil, err
	}
	return items, state.Artifacts{"compiler": req.Config.Compilation.Compiler}, nil
}

func (a *CompileAdapter) RunItem(ctx context.Context, req Request, item types.WorkItem) error {
	cc := req.Config.Compilation
	result, err := build.Compile(ctx, item.Path, build.Options{
		Compiler: cc.Compiler,
		Passes:   cc.Passes,
		BuildDir: cc.BuildDir,
	})
	if err != nil {
		return err
	}
	a.logger.Info("compiled resume", "folder", item.Folder, "pdf", result.PDFPath)
	return nil
}
