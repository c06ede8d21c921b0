// Package pipeline orchestrates the four-stage application workflow:
// discovery, materialization, tailoring, compilation. The engine owns stage
// ordering, resumption, confirmation gating, the per-item failure policy,
// and every commit to the state file; the stage adapters only produce
// artifacts and report success or failure.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rakshit/resume-workflow/internal/config"
	"github.com/rakshit/resume-workflow/internal/console"
	"github.com/rakshit/resume-workflow/internal/history"
	"github.com/rakshit/resume-workflow/internal/pipeline/stages"
	"github.com/rakshit/resume-workflow/internal/state"
	"github.com/rakshit/resume-workflow/internal/types"
)

// Options selects how a run starts and how it interacts with the operator.
type Options struct {
	// ConfigName names the resolved profile; recorded in state.
	ConfigName string
	// Fresh discards any existing state file and starts a new run.
	Fresh bool
	// Resume requires an existing state file and continues past its
	// completed stages. Without either flag the engine resumes
	// automatically when a state file exists.
	Resume bool
	// ResumeFrom forces execution to begin at the named stage. Its
	// preconditions must already be completed in the loaded state.
	ResumeFrom string
	// Yes answers every confirmation gate without prompting.
	Yes bool
}

// Engine runs the workflow for one resolved configuration profile.
type Engine struct {
	cfg      *config.Config
	adapters map[stages.Stage]Adapter
	printer  *console.Printer
	prompter console.Prompter
	logger   *slog.Logger
}

// New creates an engine with the default adapters behind every stage.
func New(cfg *config.Config, printer *console.Printer, prompter console.Prompter, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		cfg:      cfg,
		printer:  printer,
		prompter: prompter,
		logger:   logger,
		adapters: map[stages.Stage]Adapter{},
	}
	e.Register(NewDiscoverAdapter(logger))
	e.Register(NewMaterializeAdapter(printer, prompter))
	e.Register(NewTailorAdapter(logger))
	e.Register(NewCompileAdapter(logger))
	return e
}

// Register installs an adapter for its stage, replacing the default. Tests
// use this to substitute fakes without touching engine logic.
func (e *Engine) Register(a Adapter) {
	e.adapters[a.Stage()] = a
}

// Run executes the workflow and returns the final state. The returned state
// is always the last committed snapshot, even when the run aborts, so the
// caller can summarize what survived.
func (e *Engine) Run(ctx context.Context, opts Options) (*state.State, error) {
	st, forceFrom, err := e.prepare(opts)
	if err != nil {
		return nil, err
	}

	mirror := e.openHistory(ctx)
	defer mirror.close()
	mirror.startRun(ctx, st)

	total := len(stages.Order)
	for i, stage := range stages.Order {
		pos := i + 1

		if forceFrom >= 0 && i < forceFrom {
			e.printer.StageSkipped(pos, total, stage, "before the resume point")
			continue
		}
		if forceFrom < 0 && st.StageCompleted(stage) {
			e.printer.StageSkipped(pos, total, stage, "already completed")
			continue
		}
		if !e.cfg.StageEnabled(stage) {
			e.printer.StageSkipped(pos, total, stage, "disabled in config")
			mirror.recordStage(ctx, st, stage, "skipped", "disabled in config")
			continue
		}

		if missing := stages.Missing(stage, st.CompletedStages); len(missing) > 0 {
			err := &stages.PreconditionError{Stage: stage, Missing: missing}
			mirror.finishRun(ctx, st, "failed")
			return st, err
		}

		e.printer.StageBanner(pos, total, stages.Registry[stage].Title)
		if err := e.runStage(ctx, stage, st); err != nil {
			mirror.recordStage(ctx, st, stage, "failed", err.Error())
			mirror.finishRun(ctx, st, "failed")
			return st, err
		}
		e.printer.StageCompleted(pos, total, stage)
		mirror.recordStage(ctx, st, stage, "completed", "")

		if i < total-1 && e.confirmAfter(stage, opts) {
			ok, err := e.prompter.Confirm(fmt.Sprintf("Continue past %s", stage), true)
			if err != nil {
				mirror.finishRun(ctx, st, "failed")
				return st, fmt.Errorf("confirmation after %s: %w", stage, err)
			}
			if !ok {
				e.printer.Aborted(stage)
				mirror.finishRun(ctx, st, "aborted")
				return st, nil
			}
		}
	}

	mirror.finishRun(ctx, st, "completed")
	return st, nil
}

// prepare resolves run options against the state file: which state to run
// with and, for --resume-from, the forced starting index (-1 otherwise).
func (e *Engine) prepare(opts Options) (*state.State, int, error) {
	if opts.Fresh && (opts.Resume || opts.ResumeFrom != "") {
		return nil, 0, &ValidationError{Message: "--fresh cannot be combined with --resume or --resume-from"}
	}
	if opts.Resume && opts.ResumeFrom != "" {
		return nil, 0, &ValidationError{Message: "--resume and --resume-from are mutually exclusive"}
	}

	path := e.cfg.Workflow.StateFile
	var st *state.State
	if !opts.Fresh {
		loaded, err := state.Load(path)
		if err != nil {
			return nil, 0, err
		}
		st = loaded
	}

	if opts.Resume && st == nil {
		return nil, 0, &ValidationError{Message: fmt.Sprintf("--resume requires an existing state file at %s", path)}
	}
	if st == nil {
		st = state.New(opts.ConfigName)
	} else if !opts.Fresh && !opts.Resume && opts.ResumeFrom == "" {
		e.printer.Note("Found existing state for run %s, resuming. Use --fresh to start over.", st.RunID)
	}

	forceFrom := -1
	if opts.ResumeFrom != "" {
		stage, err := stages.Parse(opts.ResumeFrom)
		if err != nil {
			return nil, 0, &ValidationError{Message: err.Error()}
		}
		if missing := stages.Missing(stage, st.CompletedStages); len(missing) > 0 {
			return nil, 0, &stages.PreconditionError{Stage: stage, Missing: missing}
		}
		forceFrom = stages.Index(stage)
	}
	return st, forceFrom, nil
}

// runStage executes one stage through its adapter and commits the result.
// Whole-stage adapters commit once; item adapters commit their plan first
// and then one whole-item commit per attempted item, so an interruption
// never loses a finished item and never records a half-finished one.
func (e *Engine) runStage(ctx context.Context, stage stages.Stage, st *state.State) error {
	adapter, ok := e.adapters[stage]
	if !ok {
		return &ValidationError{Message: fmt.Sprintf("no adapter registered for stage %s", stage)}
	}
	req := Request{Config: e.cfg, State: st}
	path := e.cfg.Workflow.StateFile

	switch a := adapter.(type) {
	case RunAdapter:
		arts, err := a.Run(ctx, req)
		if err != nil {
			return &StageError{Stage: stage, Resumable: true, Cause: err}
		}
		st.MarkStageComplete(stage, arts)
		if err := state.Save(path, st); err != nil {
			return &StageError{Stage: stage, Resumable: false, Cause: err}
		}
		return nil

	case ItemAdapter:
		items, planArts, err := a.Plan(ctx, req)
		if err != nil {
			return &StageError{Stage: stage, Resumable: true, Cause: err}
		}
		st.MergeArtifacts(stage, planArts)
		if err := state.Save(path, st); err != nil {
			return &StageError{Stage: stage, Resumable: false, Cause: err}
		}
		if err := e.runItems(ctx, a, req, stage, st, items); err != nil {
			return err
		}
		total, failed := st.ItemCounts(stage)
		st.MarkStageComplete(stage, state.Artifacts{
			"items_total":  total,
			"items_failed": failed,
		})
		if err := state.Save(path, st); err != nil {
			return &StageError{Stage: stage, Resumable: false, Cause: err}
		}
		return nil

	default:
		return &ValidationError{Message: fmt.Sprintf("adapter for stage %s implements neither Run nor Plan/RunItem", stage)}
	}
}

// runItems walks the stage's work items in selection order, skipping items
// whose success an earlier run already committed.
func (e *Engine) runItems(ctx context.Context, a ItemAdapter, req Request, stage stages.Stage, st *state.State, items []types.WorkItem) error {
	path := e.cfg.Workflow.StateFile
	continueOnError := e.cfg.ContinueOnError()

	for i, item := range items {
		key := item.Folder
		if st.ItemCompleted(stage, key) {
			e.printer.ItemSkipped(i+1, len(items), key)
			continue
		}
		e.printer.ItemStarted(i+1, len(items), key)

		if err := a.RunItem(ctx, req, item); err != nil {
			if !continueOnError {
				// State holds every item finished before this one;
				// the failed item itself is not recorded, so a
				// resumed run re-attempts it.
				return &StageError{Stage: stage, Item: key, Resumable: true, Cause: err}
			}
			e.printer.ItemFailed(key, err)
			st.RecordItem(stage, key, types.ItemStatusFailed, err.Error())
			if err := state.Save(path, st); err != nil {
				return &StageError{Stage: stage, Item: key, Resumable: false, Cause: err}
			}
			continue
		}

		st.RecordItem(stage, key, types.ItemStatusCompleted, "")
		if err := state.Save(path, st); err != nil {
			return &StageError{Stage: stage, Item: key, Resumable: false, Cause: err}
		}
	}
	return nil
}

// confirmAfter reports whether the engine should pause after the stage.
func (e *Engine) confirmAfter(stage stages.Stage, opts Options) bool {
	if opts.Yes {
		return false
	}
	return e.cfg.ConfirmAfter(stage)
}

// historyMirror wraps the optional PostgreSQL run mirror. Every method
// degrades to a warning when the mirror is absent or failing; recording
// history never blocks or fails the pipeline.
type historyMirror struct {
	store   *history.Store
	printer *console.Printer
}

func (e *Engine) openHistory(ctx context.Context) *historyMirror {
	m := &historyMirror{printer: e.printer}
	url := e.cfg.Workflow.DatabaseURL
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return m
	}
	store, err := history.Connect(ctx, url)
	if err != nil {
		e.printer.Warning(fmt.Sprintf("failed to connect to run-history database: %v, continuing without it", err))
		return m
	}
	m.store = store
	return m
}

func (m *historyMirror) startRun(ctx context.Context, st *state.State) {
	if m.store == nil {
		return
	}
	if err := m.store.StartRun(ctx, st.RunID, st.ConfigName); err != nil {
		m.printer.Warning(fmt.Sprintf("failed to record run start: %v, continuing", err))
	}
}

func (m *historyMirror) recordStage(ctx context.Context, st *state.State, stage stages.Stage, status, detail string) {
	if m.store == nil {
		return
	}
	if err := m.store.RecordStage(ctx, st.RunID, string(stage), status, detail); err != nil {
		m.printer.Warning(fmt.Sprintf("failed to record stage outcome: %v, continuing", err))
	}
}

func (m *historyMirror) finishRun(ctx context.Context, st *state.State, status string) {
	if m.store == nil {
		return
	}
	if err := m.store.FinishRun(ctx, st.RunID, status); err != nil {
		m.printer.Warning(fmt.Sprintf("failed to record run finish: %v, continuing", err))
	}
}

func (m *historyMirror) close() {
	if m.store != nil {
		m.store.Close()
	}
}
